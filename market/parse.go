//nolint:tagliatelle // Binance API uses camel case
package market

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// searchResponse is the envelope of a marketplace offer search response
type searchResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    []searchOffer `json:"data"`
}

type searchOffer struct {
	Adv        searchAdv        `json:"adv"`
	Advertiser searchAdvertiser `json:"advertiser"`
}

type searchAdv struct {
	AdvNo                string              `json:"advNo"`
	TradeType            string              `json:"tradeType"`
	FiatUnit             string              `json:"fiatUnit"`
	Price                string              `json:"price"`
	MinSingleTransAmount string              `json:"minSingleTransAmount"`
	SurplusAmount        string              `json:"surplusAmount"`
	TradeMethods         []searchTradeMethod `json:"tradeMethods"`
}

type searchTradeMethod struct {
	Identifier      string `json:"identifier"`
	TradeMethodName string `json:"tradeMethodName"`
}

type searchAdvertiser struct {
	NickName        string  `json:"nickName"`
	UserType        string  `json:"userType"`
	UserNo          string  `json:"userNo"`
	MonthOrderCount int     `json:"monthOrderCount"`
	MonthFinishRate float64 `json:"monthFinishRate"`
}

// ParseOffers parses the raw marketplace response into a sorted offer list.
// The result is sorted by unit price, ascending for BUY and descending for
// SELL, so the best available price always sits at index 0.
//
// A response with success=false yields a *MarketplaceError carrying the
// upstream message. A successful response with no records yields ErrNoOffers
func ParseOffers(raw string, direction TradeType) ([]Offer, error) {
	records, err := decodeSearchResponse(raw)
	if err != nil {
		return nil, err
	}

	offers := make([]Offer, 0, len(records))

	for _, record := range records {
		offer, err := parseOffer(record)
		if err != nil {
			return nil, err
		}

		offers = append(offers, offer)
	}

	sort.Slice(offers, func(i, j int) bool {
		if direction == TradeTypeBUY {
			return offers[i].Price < offers[j].Price
		}

		return offers[i].Price > offers[j].Price
	})

	return offers, nil
}

// ParseTradeMethods extracts the distinct payment rails referenced by the
// raw response's offer records, along with the fiat currency they belong to.
// Failure conditions match ParseOffers
func ParseTradeMethods(raw string) (string, []TradeMethod, error) {
	records, err := decodeSearchResponse(raw)
	if err != nil {
		return "", nil, err
	}

	var (
		fiat    string
		seen    = make(map[string]struct{})
		methods = make([]TradeMethod, 0, len(records))
	)

	for _, record := range records {
		fiat = record.Adv.FiatUnit

		for _, tm := range record.Adv.TradeMethods {
			if tm.Identifier == "" {
				continue
			}

			if _, ok := seen[tm.Identifier]; ok {
				continue
			}

			seen[tm.Identifier] = struct{}{}

			methods = append(methods, TradeMethod{
				ShortName:   tm.Identifier,
				DisplayName: tm.TradeMethodName,
			})
		}
	}

	return fiat, methods, nil
}

// decodeSearchResponse decodes the response envelope and applies
// the shared failure classification
func decodeSearchResponse(raw string) ([]searchOffer, error) {
	var resp searchResponse

	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}

	if !resp.Success {
		return nil, &MarketplaceError{Message: resp.Message}
	}

	if len(resp.Data) == 0 {
		return nil, ErrNoOffers
	}

	return resp.Data, nil
}

// parseOffer maps a single raw record to an offer with its nested seller
func parseOffer(record searchOffer) (Offer, error) {
	price, err := strconv.ParseFloat(record.Adv.Price, 64)
	if err != nil {
		return Offer{}, fmt.Errorf("unable to parse offer price: %w", err)
	}

	minAmount, err := strconv.ParseFloat(record.Adv.MinSingleTransAmount, 64)
	if err != nil {
		return Offer{}, fmt.Errorf("unable to parse offer min amount: %w", err)
	}

	tradableFunds, err := strconv.ParseFloat(record.Adv.SurplusAmount, 64)
	if err != nil {
		return Offer{}, fmt.Errorf("unable to parse offer surplus: %w", err)
	}

	direction := TradeTypeSELL
	if record.Adv.TradeType == TradeTypeBUY.String() {
		direction = TradeTypeBUY
	}

	return Offer{
		CurrencyCode: record.Adv.FiatUnit,
		Seller: Seller{
			Name:       record.Advertiser.NickName,
			IsMerchant: record.Advertiser.UserType == "merchant",
			// The marketplace reports the completion rate as a 0-1
			// fraction, stored here as a 0-100 percentage
			MonthFinishRate:  record.Advertiser.MonthFinishRate * 100,
			MonthOrdersCount: record.Advertiser.MonthOrderCount,
			UserID:           record.Advertiser.UserNo,
		},
		TradeType:     direction,
		Price:         price,
		MinAmount:     minAmount,
		TradableFunds: tradableFunds,
		OfferID:       record.Adv.AdvNo,
	}, nil
}
