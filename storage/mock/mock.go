package mock

import (
	"context"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

type (
	GetCurrencyByCodeDelegate    func(context.Context, string) (*types.Currency, error)
	GetCurrencyByIDDelegate      func(context.Context, int64) (*types.Currency, error)
	ListCurrenciesDelegate       func(context.Context) ([]*types.Currency, error)
	SaveCurrencyDelegate         func(context.Context, *types.Currency) error
	GetPaymentMethodByIDDelegate func(context.Context, int64) (*types.PaymentMethod, error)
	UpsertPaymentMethodDelegate  func(context.Context, string, string, string) (*types.PaymentMethod, error)
	ListPaymentMethodsDelegate   func(context.Context, string) ([]*types.PaymentMethod, error)
)

type Storage struct {
	GetCurrencyByCodeFn    GetCurrencyByCodeDelegate
	GetCurrencyByIDFn      GetCurrencyByIDDelegate
	ListCurrenciesFn       ListCurrenciesDelegate
	SaveCurrencyFn         SaveCurrencyDelegate
	GetPaymentMethodByIDFn GetPaymentMethodByIDDelegate
	UpsertPaymentMethodFn  UpsertPaymentMethodDelegate
	ListPaymentMethodsFn   ListPaymentMethodsDelegate
}

func (m *Storage) GetCurrencyByCode(ctx context.Context, code string) (*types.Currency, error) {
	if m.GetCurrencyByCodeFn != nil {
		return m.GetCurrencyByCodeFn(ctx, code)
	}

	return nil, nil
}

func (m *Storage) GetCurrencyByID(ctx context.Context, id int64) (*types.Currency, error) {
	if m.GetCurrencyByIDFn != nil {
		return m.GetCurrencyByIDFn(ctx, id)
	}

	return nil, nil
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]*types.Currency, error) {
	if m.ListCurrenciesFn != nil {
		return m.ListCurrenciesFn(ctx)
	}

	return nil, nil
}

func (m *Storage) SaveCurrency(ctx context.Context, currency *types.Currency) error {
	if m.SaveCurrencyFn != nil {
		return m.SaveCurrencyFn(ctx, currency)
	}

	return nil
}

func (m *Storage) GetPaymentMethodByID(ctx context.Context, id int64) (*types.PaymentMethod, error) {
	if m.GetPaymentMethodByIDFn != nil {
		return m.GetPaymentMethodByIDFn(ctx, id)
	}

	return nil, nil
}

func (m *Storage) UpsertPaymentMethod(
	ctx context.Context,
	shortName string,
	displayName string,
	currencyCode string,
) (*types.PaymentMethod, error) {
	if m.UpsertPaymentMethodFn != nil {
		return m.UpsertPaymentMethodFn(ctx, shortName, displayName, currencyCode)
	}

	return nil, nil
}

func (m *Storage) ListPaymentMethods(
	ctx context.Context,
	currencyCode string,
) ([]*types.PaymentMethod, error) {
	if m.ListPaymentMethodsFn != nil {
		return m.ListPaymentMethodsFn(ctx, currencyCode)
	}

	return nil, nil
}
