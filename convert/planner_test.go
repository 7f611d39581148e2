package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valexandro/binance-p2p-currency-converter/market"
	"github.com/valexandro/binance-p2p-currency-converter/market/mock"
)

// offersResponse builds a successful raw marketplace response
// with one record per price
func offersResponse(t *testing.T, fiat, direction string, prices ...string) string {
	t.Helper()

	records := make([]map[string]any, 0, len(prices))

	for i, price := range prices {
		records = append(records, map[string]any{
			"adv": map[string]any{
				"advNo":                fmt.Sprintf("adv-%s-%d", fiat, i),
				"tradeType":            direction,
				"fiatUnit":             fiat,
				"price":                price,
				"minSingleTransAmount": "100.00",
				"surplusAmount":        "1000.00",
			},
			"advertiser": map[string]any{
				"nickName":        fmt.Sprintf("seller-%d", i),
				"userType":        "user",
				"userNo":          fmt.Sprintf("user-%d", i),
				"monthOrderCount": 100,
				"monthFinishRate": 0.99,
			},
		})
	}

	raw, err := json.Marshal(map[string]any{
		"success": true,
		"data":    records,
	})
	require.NoError(t, err)

	return string(raw)
}

func failedResponse(t *testing.T, message string) string {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"success": false,
		"message": message,
	})
	require.NoError(t, err)

	return string(raw)
}

func TestPlanner_Plan(t *testing.T) {
	t.Parallel()

	t.Run("three sequential lookups", func(t *testing.T) {
		t.Parallel()

		var queries []market.OfferQuery

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, q market.OfferQuery) (string, error) {
				queries = append(queries, q)

				switch len(queries) {
				case 1:
					return offersResponse(t, "RUB", "BUY", "60.20", "59.79", "59.95"), nil
				case 2:
					return offersResponse(t, "TRY", "SELL", "18.35"), nil
				default:
					return offersResponse(t, "TRY", "SELL", "18.25", "18.40"), nil
				}
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency: "RUB",
			OtherCurrency:  "TRY",
			FilledPayType:  "TinkoffNew",
			OtherPayType:   "Ziraat",
			FilledAmount:   2000,
		})
		require.NoError(t, err)
		require.Len(t, queries, 3)

		// Sized lookup, filled side
		require.NotNil(t, queries[0].Amount)
		assert.Equal(t, "RUB", queries[0].Fiat)
		assert.Equal(t, "TinkoffNew", queries[0].PayType)
		assert.Equal(t, market.TradeTypeBUY, queries[0].TradeType)
		assert.Equal(t, float64(2000), *queries[0].Amount)
		assert.Equal(t, 10, queries[0].Rows)

		// Probe lookup, other side, amount absent
		assert.Equal(t, "TRY", queries[1].Fiat)
		assert.Equal(t, "Ziraat", queries[1].PayType)
		assert.Equal(t, market.TradeTypeSELL, queries[1].TradeType)
		assert.Nil(t, queries[1].Amount)
		assert.Equal(t, 1, queries[1].Rows)

		// Sized lookup, other side, at the probe-estimated amount
		require.NotNil(t, queries[2].Amount)
		assert.Equal(t, "TRY", queries[2].Fiat)
		assert.Equal(t, market.TradeTypeSELL, queries[2].TradeType)
		assert.Equal(t, 10, queries[2].Rows)
		assert.InEpsilon(t, 18.35*(2000.0/59.79), *queries[2].Amount, 1e-9)

		// Best prices come from the two sized lookups
		assert.Equal(t, 59.79, plan.FilledBest)
		assert.Equal(t, 18.40, plan.OtherBest)

		// The rate never involves the probe price
		assert.InEpsilon(t, 59.79/18.40, plan.Rate(), 1e-9)
		assert.InEpsilon(t, 2000.0*18.40/59.79, plan.OtherAmount(), 1e-9)

		// Fixed tuple ordering, other-currency offers first
		require.Len(t, plan.OtherOffers, 2)
		require.Len(t, plan.FilledOffers, 3)
		assert.Equal(t, "TRY", plan.OtherOffers[0].CurrencyCode)
		assert.Equal(t, "RUB", plan.FilledOffers[0].CurrencyCode)
	})

	t.Run("direction inversion", func(t *testing.T) {
		t.Parallel()

		var queries []market.OfferQuery

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, q market.OfferQuery) (string, error) {
				queries = append(queries, q)

				switch len(queries) {
				case 1:
					return offersResponse(t, "TRY", "SELL", "18.40"), nil
				case 2:
					return offersResponse(t, "RUB", "BUY", "59.79"), nil
				default:
					return offersResponse(t, "RUB", "BUY", "59.85"), nil
				}
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency:      "TRY",
			OtherCurrency:       "RUB",
			FilledAmount:        500,
			FilledIsDestination: true,
		})
		require.NoError(t, err)
		require.Len(t, queries, 3)

		// Acquiring the destination currency means selling the asset for it
		assert.Equal(t, market.TradeTypeSELL, queries[0].TradeType)
		assert.Equal(t, market.TradeTypeBUY, queries[1].TradeType)
		assert.Equal(t, market.TradeTypeBUY, queries[2].TradeType)

		// Tuple ordering is unchanged by the inversion
		assert.Equal(t, "RUB", plan.OtherOffers[0].CurrencyCode)
		assert.Equal(t, "TRY", plan.FilledOffers[0].CurrencyCode)
	})

	t.Run("invalid amount", func(t *testing.T) {
		t.Parallel()

		var called bool

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, _ market.OfferQuery) (string, error) {
				called = true

				return "", nil
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency: "RUB",
			OtherCurrency:  "TRY",
			FilledAmount:   0,
		})

		assert.Nil(t, plan)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.False(t, called)
	})

	t.Run("refusal aborts on first lookup", func(t *testing.T) {
		t.Parallel()

		var calls int

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, _ market.OfferQuery) (string, error) {
				calls++

				return failedResponse(t, "method unsupported"), nil
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency: "RUB",
			OtherCurrency:  "TRY",
			FilledAmount:   2000,
		})

		assert.Nil(t, plan)
		assert.Equal(t, 1, calls)

		// The upstream message survives the wrapping
		var marketErr *market.MarketplaceError

		require.ErrorAs(t, err, &marketErr)
		assert.Equal(t, "method unsupported", marketErr.Message)
	})

	t.Run("no offers aborts on probe", func(t *testing.T) {
		t.Parallel()

		var calls int

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, _ market.OfferQuery) (string, error) {
				calls++

				if calls == 1 {
					return offersResponse(t, "RUB", "BUY", "59.79"), nil
				}

				return `{"success":true,"data":[]}`, nil
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency: "RUB",
			OtherCurrency:  "TRY",
			FilledAmount:   2000,
		})

		assert.Nil(t, plan)
		assert.Equal(t, 2, calls)
		assert.ErrorIs(t, err, market.ErrNoOffers)
	})

	t.Run("transport failure aborts on final lookup", func(t *testing.T) {
		t.Parallel()

		var calls int

		client := &mock.Client{
			FetchOffersFn: func(_ context.Context, _ market.OfferQuery) (string, error) {
				calls++

				switch calls {
				case 1:
					return offersResponse(t, "RUB", "BUY", "59.79"), nil
				case 2:
					return offersResponse(t, "TRY", "SELL", "18.35"), nil
				default:
					return "", fmt.Errorf("unable to execute POST request: %w", market.ErrUnavailable)
				}
			},
		}

		p := NewPlanner(client)

		plan, err := p.Plan(context.Background(), PlanRequest{
			FilledCurrency: "RUB",
			OtherCurrency:  "TRY",
			FilledAmount:   2000,
		})

		assert.Nil(t, plan)
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, market.ErrUnavailable)
	})
}
