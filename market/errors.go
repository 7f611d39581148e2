package market

import "errors"

var (
	// ErrNoOffers indicates the marketplace served the request,
	// but no matching advertisements exist
	ErrNoOffers = errors.New("no offers found")

	// ErrEmptyOffers indicates best-price selection was attempted
	// on an empty offer list. This is a contract violation between
	// the parser and its callers, not a user-facing condition
	ErrEmptyOffers = errors.New("empty offer list")

	// ErrUnavailable indicates the marketplace could not be reached at all
	ErrUnavailable = errors.New("marketplace unavailable")
)

// MarketplaceError indicates the marketplace acknowledged the request
// but declined to serve it. It carries the upstream message verbatim
type MarketplaceError struct {
	Message string
}

func (e *MarketplaceError) Error() string {
	return e.Message
}
