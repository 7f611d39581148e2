package storage

import (
	"context"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// Storage is an abstraction over currency and payment-method reference data
type Storage interface {
	// GetCurrencyByCode fetches the currency with the given ISO code
	GetCurrencyByCode(ctx context.Context, code string) (*types.Currency, error)

	// GetCurrencyByID fetches the currency with the given ID
	GetCurrencyByID(ctx context.Context, id int64) (*types.Currency, error)

	// ListCurrencies lists all supported currencies
	ListCurrencies(ctx context.Context) ([]*types.Currency, error)

	// SaveCurrency saves the given currency record
	SaveCurrency(ctx context.Context, currency *types.Currency) error

	// GetPaymentMethodByID fetches the payment method with the given ID
	GetPaymentMethodByID(ctx context.Context, id int64) (*types.PaymentMethod, error)

	// UpsertPaymentMethod creates or refreshes the payment method for the
	// given currency. Upserts are keyed by (shortName, currencyCode),
	// last write wins
	UpsertPaymentMethod(
		ctx context.Context,
		shortName string,
		displayName string,
		currencyCode string,
	) (*types.PaymentMethod, error)

	// ListPaymentMethods lists the payment methods stored for the currency
	ListPaymentMethods(ctx context.Context, currencyCode string) ([]*types.PaymentMethod, error)
}
