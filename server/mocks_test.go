package server

import (
	"context"

	"github.com/valexandro/binance-p2p-currency-converter/convert"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

type (
	planDelegate func(context.Context, convert.PlanRequest) (*convert.Plan, error)
	syncDelegate func(context.Context, string) ([]*types.PaymentMethod, error)
)

type mockPlanner struct {
	planFn planDelegate
}

func (m *mockPlanner) Plan(ctx context.Context, req convert.PlanRequest) (*convert.Plan, error) {
	if m.planFn != nil {
		return m.planFn(ctx, req)
	}

	return nil, nil
}

type mockSyncer struct {
	syncFn syncDelegate
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
