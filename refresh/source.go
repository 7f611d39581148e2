package refresh

import (
	"context"
	"time"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// Source is a single payment-method refresh source
type Source interface {
	// Name returns the human-readable name of the source
	Name() string

	// Interval returns the interval at which the source should be synced
	Interval() time.Duration

	// Sync is the source's main refresh job, yielding the resulting
	// stored payment-method set
	Sync(context.Context) ([]*types.PaymentMethod, error)
}
