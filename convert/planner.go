package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/valexandro/binance-p2p-currency-converter/market"
)

const (
	// fullRows is the result set size for a sized offer lookup,
	// generous enough for a realistic price under liquidity constraints
	fullRows = 10

	// probeRows is the result set size for an unsized probe lookup
	probeRows = 1
)

// ErrInvalidAmount indicates the planner was invoked without a positive
// filled amount. Request-boundary validation should catch this earlier
var ErrInvalidAmount = errors.New("invalid filled amount")

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// PlanRequest describes a single fiat-to-fiat conversion to plan
type PlanRequest struct {
	// FilledCurrency is the code of the currency whose amount is known
	FilledCurrency string

	// OtherCurrency is the code of the currency whose amount is derived
	OtherCurrency string

	// FilledPayType and OtherPayType are payment method short names,
	// empty for any
	FilledPayType string
	OtherPayType  string

	// MerchantOnly restricts all lookups to certified merchants
	MerchantOnly bool

	// FilledAmount is the known amount, in the filled currency
	FilledAmount float64

	// FilledIsDestination is true when the known amount is the one the
	// user wants to receive. Acquiring the destination currency means
	// selling the asset for it, so the filled side trades SELL and the
	// other side trades BUY; when the known amount is the source, the
	// directions invert
	FilledIsDestination bool
}

// Plan is the result of one three-query conversion plan.
// The offer list pair ordering is fixed: other-currency offers first,
// filled-currency offers second
type Plan struct {
	// OtherOffers are the ranked offers from the final sized lookup
	// for the other currency
	OtherOffers []market.Offer

	// FilledOffers are the ranked offers from the sized lookup
	// for the filled currency
	FilledOffers []market.Offer

	// FilledBest and OtherBest are the best prices of the two lists,
	// in fiat per asset unit. The probe price never appears here
	FilledBest float64
	OtherBest  float64

	// FilledAmount echoes the requested amount
	FilledAmount float64
}

// Rate returns the conversion rate between the filled and other currency,
// derived from the two sized lookups only
func (p *Plan) Rate() float64 {
	return p.FilledBest / p.OtherBest
}

// OtherAmount returns the derived amount of the other currency
func (p *Plan) OtherAmount() float64 {
	return p.FilledAmount / p.Rate()
}

// Planner plans fiat-to-fiat conversions by chaining two best-price
// discoveries through the stable asset
type Planner struct {
	client market.Client
	logger *slog.Logger
}

// NewPlanner creates a new conversion planner instance
func NewPlanner(client market.Client, opts ...PlannerOption) *Planner {
	p := &Planner{
		client: client,
		logger: noopLogger,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan executes the two-hop best-price discovery:
//
//  1. a sized lookup for the filled currency yields the best price P1,
//     and with it the intermediate asset quantity (amount / P1)
//  2. an unsized 1-row probe for the other currency yields an approximate
//     price P2, good enough to size the real lookup (P2 * asset quantity)
//  3. a sized lookup for the other currency at that estimated amount
//     yields the final ranked offers
//
// The three lookups are strictly sequential, each one's input depending on
// the previous result. The first failure aborts the whole plan; nothing is
// retried or reused across calls
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	if req.FilledAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	filledDirection := market.TradeTypeBUY
	if req.FilledIsDestination {
		filledDirection = market.TradeTypeSELL
	}

	otherDirection := filledDirection.Opposite()

	p.logger.Debug(
		"planning conversion",
		"filled", req.FilledCurrency,
		"other", req.OtherCurrency,
		"amount", req.FilledAmount,
		"filled_direction", filledDirection,
	)

	// Sized lookup, filled side
	filledOffers, err := p.lookupOffers(
		ctx,
		req.FilledCurrency,
		req.FilledPayType,
		req.MerchantOnly,
		filledDirection,
		&req.FilledAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s offers: %w", req.FilledCurrency, err)
	}

	filledBest, err := market.BestPrice(filledOffers)
	if err != nil {
		return nil, fmt.Errorf("unable to price %s offers: %w", req.FilledCurrency, err)
	}

	// Intermediate stable-asset quantity
	assetQty := req.FilledAmount / filledBest

	// Unsized probe, other side
	probeOffers, err := p.lookupOffers(
		ctx,
		req.OtherCurrency,
		req.OtherPayType,
		req.MerchantOnly,
		otherDirection,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to probe %s offers: %w", req.OtherCurrency, err)
	}

	probeBest, err := market.BestPrice(probeOffers)
	if err != nil {
		return nil, fmt.Errorf("unable to price %s probe: %w", req.OtherCurrency, err)
	}

	// Sized lookup, other side, at the probe-estimated amount
	estimatedAmount := probeBest * assetQty

	otherOffers, err := p.lookupOffers(
		ctx,
		req.OtherCurrency,
		req.OtherPayType,
		req.MerchantOnly,
		otherDirection,
		&estimatedAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s offers: %w", req.OtherCurrency, err)
	}

	otherBest, err := market.BestPrice(otherOffers)
	if err != nil {
		return nil, fmt.Errorf("unable to price %s offers: %w", req.OtherCurrency, err)
	}

	return &Plan{
		OtherOffers:  otherOffers,
		FilledOffers: filledOffers,
		FilledBest:   filledBest,
		OtherBest:    otherBest,
		FilledAmount: req.FilledAmount,
	}, nil
}

// lookupOffers fetches and parses one batch of offers.
// A nil amount issues a minimal probe request
func (p *Planner) lookupOffers(
	ctx context.Context,
	fiat string,
	payType string,
	merchantOnly bool,
	direction market.TradeType,
	amount *float64,
) ([]market.Offer, error) {
	rows := fullRows
	if amount == nil {
		rows = probeRows
	}

	raw, err := p.client.FetchOffers(ctx, market.OfferQuery{
		Fiat:         fiat,
		PayType:      payType,
		MerchantOnly: merchantOnly,
		Amount:       amount,
		TradeType:    direction,
		Rows:         rows,
	})
	if err != nil {
		return nil, err
	}

	return market.ParseOffers(raw, direction)
}
