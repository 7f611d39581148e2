package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valexandro/binance-p2p-currency-converter/market"
	"github.com/valexandro/binance-p2p-currency-converter/storage"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// syncRows is the result set size for payment-method discovery lookups.
// More rows surface more distinct payment rails in a single response
const syncRows = 20

// Service maintains currency payment-method reference data from
// live marketplace offers
type Service struct {
	client market.Client
	store  storage.Storage
	logger *slog.Logger
}

// NewService creates a new payment-method service instance
func NewService(client market.Client, store storage.Storage, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		store:  store,
		logger: noopLogger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SyncPaymentMethods fetches a batch of offers for the currency, extracts
// the distinct payment rails they reference and upserts each one into the
// reference-data store. The resulting stored set for the currency is
// returned. Upserts are idempotent, so concurrent syncs of the same
// currency converge on the same set
func (s *Service) SyncPaymentMethods(
	ctx context.Context,
	currencyCode string,
) ([]*types.PaymentMethod, error) {
	currency, err := s.store.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve currency %s: %w", currencyCode, err)
	}

	raw, err := s.client.FetchOffers(ctx, market.OfferQuery{
		Fiat:      currency.Code,
		TradeType: market.TradeTypeBUY,
		Rows:      syncRows,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s offers: %w", currency.Code, err)
	}

	_, methods, err := market.ParseTradeMethods(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s trade methods: %w", currency.Code, err)
	}

	for _, method := range methods {
		if _, err := s.store.UpsertPaymentMethod(
			ctx,
			method.ShortName,
			method.DisplayName,
			currency.Code,
		); err != nil {
			return nil, fmt.Errorf("unable to upsert payment method %s: %w", method.ShortName, err)
		}
	}

	s.logger.Info(
		"synced payment methods",
		"currency", currency.Code,
		"count", len(methods),
	)

	return s.store.ListPaymentMethods(ctx, currency.Code)
}
