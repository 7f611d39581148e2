package types

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested reference-data record does not exist
var ErrNotFound = errors.New("record not found")

// Currency is a fiat currency supported for conversion
type Currency struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *Currency) String() string {
	return c.Code
}

// PaymentMethod is a payment rail available for a single fiat currency
// on the marketplace. Methods are upserted from live offer data, keyed
// by (short_name, currency_code)
type PaymentMethod struct {
	ID           int64     `json:"id"`
	ShortName    string    `json:"short_name"`
	DisplayName  string    `json:"display_name"`
	CurrencyCode string    `json:"currency_code"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *PaymentMethod) String() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}

	return p.ShortName
}
