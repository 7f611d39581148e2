package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// methodKey uniquely identifies a payment method within the store
type methodKey struct {
	shortName    string
	currencyCode string
}

type Storage struct {
	currencies map[string]types.Currency
	methods    map[methodKey]types.PaymentMethod

	nextCurrencyID int64
	nextMethodID   int64

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		currencies:     make(map[string]types.Currency),
		methods:        make(map[methodKey]types.PaymentMethod),
		nextCurrencyID: 1,
		nextMethodID:   1,
	}
}

func (s *Storage) GetCurrencyByCode(_ context.Context, code string) (*types.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, ok := s.currencies[code]
	if !ok {
		return nil, types.ErrNotFound
	}

	return &currency, nil
}

func (s *Storage) GetCurrencyByID(_ context.Context, id int64) (*types.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, currency := range s.currencies {
		if currency.ID == id {
			return &currency, nil
		}
	}

	return nil, types.ErrNotFound
}

func (s *Storage) ListCurrencies(_ context.Context) ([]*types.Currency, error) {
	s.mu.RLock()

	out := make([]*types.Currency, 0, len(s.currencies))

	for _, currency := range s.currencies {
		cp := currency
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})

	return out, nil
}

func (s *Storage) SaveCurrency(_ context.Context, currency *types.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem := *currency

	if existing, ok := s.currencies[currency.Code]; ok {
		elem.ID = existing.ID
	} else {
		elem.ID = s.nextCurrencyID
		s.nextCurrencyID++
	}

	s.currencies[elem.Code] = elem
	currency.ID = elem.ID

	return nil
}

func (s *Storage) GetPaymentMethodByID(_ context.Context, id int64) (*types.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, method := range s.methods {
		if method.ID == id {
			return &method, nil
		}
	}

	return nil, types.ErrNotFound
}

func (s *Storage) UpsertPaymentMethod(
	_ context.Context,
	shortName string,
	displayName string,
	currencyCode string,
) (*types.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.currencies[currencyCode]; !ok {
		return nil, types.ErrNotFound
	}

	k := methodKey{
		shortName:    shortName,
		currencyCode: currencyCode,
	}

	method, ok := s.methods[k]
	if !ok {
		method = types.PaymentMethod{
			ID:           s.nextMethodID,
			ShortName:    shortName,
			CurrencyCode: currencyCode,
		}

		s.nextMethodID++
	}

	// Last write wins
	method.DisplayName = displayName
	method.UpdatedAt = time.Now().UTC()

	s.methods[k] = method

	return &method, nil
}

func (s *Storage) ListPaymentMethods(
	_ context.Context,
	currencyCode string,
) ([]*types.PaymentMethod, error) {
	s.mu.RLock()

	out := make([]*types.PaymentMethod, 0, len(s.methods))

	for k, method := range s.methods {
		if k.currencyCode != currencyCode {
			continue
		}

		cp := method
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ShortName < out[j].ShortName
	})

	return out, nil
}
