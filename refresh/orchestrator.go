package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidSource   = errors.New("invalid source")
	errInvalidInterval = errors.New("invalid interval")
)

// Orchestrator is the main job scheduler for registered refresh sources
type Orchestrator struct {
	logger *slog.Logger

	registeredSources sync.Map

	q             iq.Queue[scheduledSync]
	queryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		q:             iq.NewQueue[scheduledSync](),
		queryInterval: time.Second, // every second
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new source with the orchestrator.
// The source is immediately queued up for execution
func (o *Orchestrator) Register(s Source) error {
	if s == nil || s.Name() == "" {
		return errInvalidSource
	}

	if s.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the source
	id := xid.New()
	o.registeredSources.Store(id, s)

	o.logger.Info(
		"registered new source",
		"name", s.Name(),
	)

	// Schedule the job
	o.scheduleSync(
		time.Now().UTC(),
		id,
		s,
	)

	return nil
}

// Start starts the source orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleSyncs initializes all jobs that are executable (due)
	handleSyncs := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				nextSync := o.nextSync()
				if nextSync == nil {
					return // nothing to schedule anymore
				}

				o.logger.Info(
					"scheduling sync",
					"name", nextSync.source.Name(),
				)

				// Spawn worker
				info := &workerInfo{
					source:   nextSync.source,
					sourceID: nextSync.sourceID,
					resCh:    collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due jobs (on boot)
	handleSyncs()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")
			close(collectorCh)

			return nil
		case <-ticker.C:
			handleSyncs()
		case response := <-collectorCh:
			now := time.Now().UTC()

			rsRaw, ok := o.registeredSources.Load(response.sourceID)

			if !ok {
				o.logger.Error(
					"unable to load registered source",
					"id", response.sourceID.String(),
				)

				continue
			}

			rs, _ := rsRaw.(Source)

			if response.error != nil {
				o.logger.Error(
					"error encountered during sync",
					"id", response.sourceID.String(),
					"err", response.error.Error(),
				)

				// Retry sync job soon
				o.scheduleSync(
					now.Add(time.Second*10),
					response.sourceID,
					rs,
				)

				continue
			}

			o.logger.Info(
				"payment methods synced",
				"name", rs.Name(),
				"count", len(response.methods),
			)

			// Schedule a new sync for this source
			o.scheduleSync(
				now.Add(rs.Interval()),
				response.sourceID,
				rs,
			)
		}
	}
}

// scheduleSync schedules a new source sync
func (o *Orchestrator) scheduleSync(
	at time.Time,
	sourceID xid.ID,
	source Source,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	futureSync := scheduledSync{
		at:       at,
		sourceID: sourceID,
		source:   source,
	}

	o.q.Push(futureSync)
}

// nextSync fetches the next due sync job, as of the moment of calling
func (o *Orchestrator) nextSync() *scheduledSync {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if o.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	// Grab the next job
	nextSync := o.q.PopFront()

	return nextSync
}
