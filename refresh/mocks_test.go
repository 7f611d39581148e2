package refresh

import (
	"context"
	"time"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	sourceDelegate   func(context.Context) ([]*types.PaymentMethod, error)
)

type mockSource struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	syncFn     sourceDelegate
}

func (m *mockSource) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockSource) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockSource) Sync(ctx context.Context) ([]*types.PaymentMethod, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx)
	}

	return nil, nil
}

type syncerDelegate func(context.Context, string) ([]*types.PaymentMethod, error)

type mockSyncer struct {
	syncFn syncerDelegate
}

func (m *mockSyncer) SyncPaymentMethods(
	ctx context.Context,
	currencyCode string,
) ([]*types.PaymentMethod, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx, currencyCode)
	}

	return nil, nil
}
