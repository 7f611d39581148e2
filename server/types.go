package server

import (
	"github.com/valexandro/binance-p2p-currency-converter/market"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// ConvertRequest is the POST /v1/convert request body.
// Exactly one of FromAmount and ToAmount must be set
type ConvertRequest struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`

	FromPaymentMethod string `json:"from_payment_method"`
	ToPaymentMethod   string `json:"to_payment_method"`

	MerchantOnly bool `json:"merchant_only"`

	FromAmount *float64 `json:"from_amount"`
	ToAmount   *float64 `json:"to_amount"`
}

// ConvertResponse is the conversion result.
// Rate is expressed in to-currency units per from-currency unit, and is
// derived from the two sized best prices only
type ConvertResponse struct {
	FromCurrency *types.Currency `json:"from_currency"`
	ToCurrency   *types.Currency `json:"to_currency"`

	FromAmount float64 `json:"from_amount"`
	ToAmount   float64 `json:"to_amount"`

	FromBestPrice float64 `json:"from_best_price"`
	ToBestPrice   float64 `json:"to_best_price"`

	Rate float64 `json:"rate"`

	FromOffers []market.Offer `json:"from_offers"`
	ToOffers   []market.Offer `json:"to_offers"`
}

type CurrenciesResponse struct {
	Results []*types.Currency `json:"results"`
}

type PaymentMethodsResponse struct {
	Results []*types.PaymentMethod `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
