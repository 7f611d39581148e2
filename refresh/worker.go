package refresh

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

// scheduledSync is a single scheduled Source sync job
type scheduledSync struct {
	at       time.Time
	source   Source
	sourceID xid.ID
}

// Less is utilized to sort scheduled syncs by their due-time (latest == first)
func (a scheduledSync) Less(b scheduledSync) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the source routine
type workerInfo struct {
	source   Source
	resCh    chan<- *workerResponse
	sourceID xid.ID
}

// workerResponse is the source routine response
type workerResponse struct {
	error    error                  // encountered error, if any
	methods  []*types.PaymentMethod // the resulting payment-method set
	sourceID xid.ID                 // the source ID
}

// handleJob syncs using the source
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	methods, err := info.source.Sync(ctx)

	response := &workerResponse{
		error:    err,
		methods:  methods,
		sourceID: info.sourceID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
