//nolint:tagliatelle // Binance API uses camel case
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const binanceP2PURL = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"

// assetUSDT is the stable asset all conversions are routed through
const assetUSDT = "USDT"

// binanceSearchRequest is the request body for the Binance P2P search API
type binanceSearchRequest struct {
	Page          int      `json:"page"`
	Rows          int      `json:"rows"`
	PayTypes      []string `json:"payTypes"`
	Countries     []string `json:"countries"`
	PublisherType *string  `json:"publisherType"`
	TransAmount   *float64 `json:"transAmount"`
	Asset         string   `json:"asset"`
	Fiat          string   `json:"fiat"`
	TradeType     string   `json:"tradeType"`
}

// BinanceClient fetches USDT offers from the Binance P2P marketplace
type BinanceClient struct {
	client *http.Client
	url    string
}

// NewBinanceClient creates a new instance of the Binance P2P client
func NewBinanceClient(timeout time.Duration) *BinanceClient {
	return &BinanceClient{
		client: &http.Client{
			Timeout: timeout,
		},
		url: binanceP2PURL,
	}
}

func (c *BinanceClient) FetchOffers(ctx context.Context, query OfferQuery) (string, error) {
	reqBody := binanceSearchRequest{
		Page:        1,
		Rows:        query.Rows,
		PayTypes:    []string{},
		Countries:   []string{},
		TransAmount: query.Amount,
		Asset:       assetUSDT,
		Fiat:        query.Fiat,
		TradeType:   query.TradeType.String(),
	}

	if query.PayType != "" {
		reqBody.PayTypes = []string{query.PayType}
	}

	if query.MerchantOnly {
		merchant := "merchant"
		reqBody.PublisherType = &merchant
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("unable to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("unable to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("lang", "en")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to execute POST request: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("invalid status code received (%d): %w", resp.StatusCode, ErrUnavailable)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unable to read response: %w", ErrUnavailable)
	}

	return string(raw), nil
}
