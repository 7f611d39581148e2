package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// Syncer performs a single payment-method sync for a currency
type Syncer interface {
	SyncPaymentMethods(ctx context.Context, currencyCode string) ([]*types.PaymentMethod, error)
}

// CurrencySource refreshes the payment-method set of one currency
// at a fixed interval
type CurrencySource struct {
	syncer   Syncer
	code     string
	interval time.Duration
}

// NewCurrencySource creates a refresh source for the given currency
func NewCurrencySource(syncer Syncer, code string, interval time.Duration) *CurrencySource {
	return &CurrencySource{
		syncer:   syncer,
		code:     code,
		interval: interval,
	}
}

func (s *CurrencySource) Name() string {
	return fmt.Sprintf("payment methods (%s)", s.code)
}

func (s *CurrencySource) Interval() time.Duration {
	return s.interval
}

func (s *CurrencySource) Sync(ctx context.Context) ([]*types.PaymentMethod, error) {
	return s.syncer.SyncPaymentMethods(ctx, s.code)
}
