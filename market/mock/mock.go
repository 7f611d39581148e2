package mock

import (
	"context"

	"github.com/valexandro/binance-p2p-currency-converter/market"
)

type FetchOffersDelegate func(context.Context, market.OfferQuery) (string, error)

type Client struct {
	FetchOffersFn FetchOffersDelegate
}

func (m *Client) FetchOffers(ctx context.Context, query market.OfferQuery) (string, error) {
	if m.FetchOffersFn != nil {
		return m.FetchOffersFn(ctx, query)
	}

	return "", nil
}
