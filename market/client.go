package market

import "context"

// Client is the marketplace query boundary. Implementations return the
// raw response text; whether the marketplace actually served the request
// is only detectable by parsing the response envelope
type Client interface {
	// FetchOffers executes a single offer lookup and returns
	// the raw response text
	FetchOffers(ctx context.Context, query OfferQuery) (string, error)
}
