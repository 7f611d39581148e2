package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// Storage is a Postgres-backed reference data store
type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool: pool,
	}
}

func (s *Storage) GetCurrencyByCode(ctx context.Context, code string) (*types.Currency, error) {
	row := s.pool.QueryRow(
		ctx,
		`SELECT id, code, name FROM currencies WHERE code = $1`,
		code,
	)

	return scanCurrency(row)
}

func (s *Storage) GetCurrencyByID(ctx context.Context, id int64) (*types.Currency, error) {
	row := s.pool.QueryRow(
		ctx,
		`SELECT id, code, name FROM currencies WHERE id = $1`,
		id,
	)

	return scanCurrency(row)
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]*types.Currency, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, code, name FROM currencies ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to list currencies: %w", err)
	}
	defer rows.Close()

	out := make([]*types.Currency, 0)

	for rows.Next() {
		var currency types.Currency

		if err := rows.Scan(&currency.ID, &currency.Code, &currency.Name); err != nil {
			return nil, fmt.Errorf("unable to scan currency: %w", err)
		}

		out = append(out, &currency)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list currencies: %w", err)
	}

	return out, nil
}

func (s *Storage) SaveCurrency(ctx context.Context, currency *types.Currency) error {
	err := s.pool.QueryRow(
		ctx,
		`INSERT INTO currencies (code, name)
		 VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		currency.Code, currency.Name,
	).Scan(&currency.ID)
	if err != nil {
		return fmt.Errorf("unable to save currency: %w", err)
	}

	return nil
}

func (s *Storage) GetPaymentMethodByID(ctx context.Context, id int64) (*types.PaymentMethod, error) {
	row := s.pool.QueryRow(
		ctx,
		`SELECT id, short_name, display_name, currency_code, updated_at
		 FROM payment_methods WHERE id = $1`,
		id,
	)

	return scanPaymentMethod(row)
}

func (s *Storage) UpsertPaymentMethod(
	ctx context.Context,
	shortName string,
	displayName string,
	currencyCode string,
) (*types.PaymentMethod, error) {
	row := s.pool.QueryRow(
		ctx,
		`INSERT INTO payment_methods (short_name, display_name, currency_code, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (short_name, currency_code) DO UPDATE
		 SET display_name = EXCLUDED.display_name, updated_at = now()
		 RETURNING id, short_name, display_name, currency_code, updated_at`,
		shortName, displayName, currencyCode,
	)

	return scanPaymentMethod(row)
}

func (s *Storage) ListPaymentMethods(
	ctx context.Context,
	currencyCode string,
) ([]*types.PaymentMethod, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, short_name, display_name, currency_code, updated_at
		 FROM payment_methods WHERE currency_code = $1
		 ORDER BY short_name`,
		currencyCode,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to list payment methods: %w", err)
	}
	defer rows.Close()

	out := make([]*types.PaymentMethod, 0)

	for rows.Next() {
		var method types.PaymentMethod

		if err := rows.Scan(
			&method.ID,
			&method.ShortName,
			&method.DisplayName,
			&method.CurrencyCode,
			&method.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("unable to scan payment method: %w", err)
		}

		out = append(out, &method)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list payment methods: %w", err)
	}

	return out, nil
}

func scanCurrency(row pgx.Row) (*types.Currency, error) {
	var currency types.Currency

	if err := row.Scan(&currency.ID, &currency.Code, &currency.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}

		return nil, fmt.Errorf("unable to fetch currency: %w", err)
	}

	return &currency, nil
}

func scanPaymentMethod(row pgx.Row) (*types.PaymentMethod, error) {
	var method types.PaymentMethod

	if err := row.Scan(
		&method.ID,
		&method.ShortName,
		&method.DisplayName,
		&method.CurrencyCode,
		&method.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}

		return nil, fmt.Errorf("unable to fetch payment method: %w", err)
	}

	return &method, nil
}
