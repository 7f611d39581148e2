package serve

import (
	"context"
	"fmt"
	"strings"

	"github.com/valexandro/binance-p2p-currency-converter/storage"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

const defaultCurrencyCodes = "RUB,TRY,UAH,KZT,EUR"

// currencyNames maps supported fiat codes to display names
var currencyNames = map[string]string{
	"RUB": "Russian Ruble",
	"TRY": "Turkish Lira",
	"UAH": "Ukrainian Hryvnia",
	"KZT": "Kazakhstani Tenge",
	"EUR": "Euro",
	"USD": "US Dollar",
	"GBP": "British Pound",
	"VES": "Venezuelan Bolivar",
}

// parseCurrencyCodes parses the comma-separated currency code list
func parseCurrencyCodes(raw string) []string {
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))

	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}

		codes = append(codes, code)
	}

	return codes
}

// seedCurrencies saves the given currency set into the store (idempotent)
func seedCurrencies(ctx context.Context, store storage.Storage, codes []string) error {
	for _, code := range codes {
		name, ok := currencyNames[code]
		if !ok {
			name = code
		}

		currency := &types.Currency{
			Code: code,
			Name: name,
		}

		if err := store.SaveCurrency(ctx, currency); err != nil {
			return fmt.Errorf("unable to save currency %s: %w", code, err)
		}
	}

	return nil
}
