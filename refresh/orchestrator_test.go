package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

const testSourceName = "test-source"

func TestOrchestrator_New(t *testing.T) {
	t.Parallel()

	t.Run("default orchestrator", func(t *testing.T) {
		t.Parallel()

		o := New()

		require.NotNil(t, o)

		assert.NotNil(t, o.logger)
		assert.Equal(t, time.Second, o.queryInterval)
	})

	t.Run("query interval", func(t *testing.T) {
		t.Parallel()

		o := New(WithQueryInterval(time.Minute))

		require.NotNil(t, o)
		assert.Equal(t, time.Minute, o.queryInterval)
	})
}

func TestOrchestrator_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()

		o := New()

		assert.ErrorIs(t, o.Register(nil), errInvalidSource)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			source = &mockSource{
				nameFn: func() string {
					return ""
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		assert.ErrorIs(t, o.Register(source), errInvalidSource)
	})

	t.Run("zero interval", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return 0
				},
			}
		)

		assert.ErrorIs(t, o.Register(source), errInvalidInterval)
	})

	t.Run("negative interval", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return -time.Hour
				},
			}
		)

		assert.ErrorIs(t, o.Register(source), errInvalidInterval)
	})

	t.Run("valid source", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		require.NoError(t, o.Register(source))

		// Verify the source was registered
		var count int

		o.registeredSources.Range(
			func(_, _ any) bool {
				count++

				return true
			},
		)

		assert.Equal(t, 1, count)
	})

	t.Run("schedule source", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		require.NoError(t, o.Register(source))
		assert.Equal(t, 1, o.q.Len())

		// The scheduled time should be in the past or now (immediate)
		scheduled := o.q.Index(0)
		assert.True(t, scheduled.at.Before(time.Now().Add(time.Second)))
	})
}

func TestOrchestrator_Start(t *testing.T) {
	t.Parallel()

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		var (
			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("orchestrator did not shut down in time")
		}
	})

	t.Run("source sync executed", func(t *testing.T) {
		t.Parallel()

		var (
			syncDone = make(chan struct{})

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				syncFn: func(_ context.Context) ([]*types.PaymentMethod, error) {
					close(syncDone)

					return []*types.PaymentMethod{
						{
							ShortName:    "TinkoffNew",
							DisplayName:  "Tinkoff",
							CurrencyCode: "RUB",
						},
					}, nil
				},
			}
		)

		var (
			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(source))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-syncDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for sync")
		}

		cancel()
		require.NoError(t, <-errCh)
	})

	t.Run("reschedule source (success)", func(t *testing.T) {
		t.Parallel()

		var (
			syncCount atomic.Int32
			syncDone  = make(chan struct{})
		)

		var (
			o = New(WithQueryInterval(time.Millisecond * 10))

			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return time.Millisecond * 50
				},
				syncFn: func(_ context.Context) ([]*types.PaymentMethod, error) {
					if syncCount.Add(1) == 2 {
						close(syncDone)
					}

					return []*types.PaymentMethod{
						{
							ShortName:    "QIWI",
							CurrencyCode: "RUB",
						},
					}, nil
				},
			}
			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(source))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-syncDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for reschedule")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, syncCount.Load(), int32(2))
	})

	t.Run("retries on sync error", func(t *testing.T) {
		t.Parallel()

		var (
			syncCount atomic.Int32
			retryDone = make(chan struct{})
		)

		var (
			source = &mockSource{
				nameFn: func() string {
					return testSourceName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				syncFn: func(_ context.Context) ([]*types.PaymentMethod, error) {
					if syncCount.Add(1) == 2 {
						close(retryDone)
					}

					return nil, errors.New("sync error")
				},
			}

			o = New(WithQueryInterval(time.Millisecond * 10))

			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(source))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-retryDone:
			// Success
		case <-time.After(time.Second * 15):
			t.Fatal("timeout waiting for retry")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, syncCount.Load(), int32(2))
	})

	t.Run("multiple sources", func(t *testing.T) {
		t.Parallel()

		var (
			syncedNames sync.Map
			syncCount   atomic.Int32
			allSynced   = make(chan struct{})
			errCh       = make(chan error, 1)
		)

		makeSource := func(name, currency string) *mockSource {
			return &mockSource{
				nameFn: func() string {
					return name
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				syncFn: func(_ context.Context) ([]*types.PaymentMethod, error) {
					syncedNames.Store(name, struct{}{})

					if syncCount.Add(1) == 2 {
						close(allSynced)
					}

					return []*types.PaymentMethod{
						{
							ShortName:    "QIWI",
							CurrencyCode: currency,
						},
					}, nil
				},
			}
		}

		var (
			sources = []*mockSource{
				makeSource("source-1", "RUB"),
				makeSource("source-2", "TRY"),
			}

			o = New(WithQueryInterval(time.Millisecond * 10))
		)

		for _, s := range sources {
			require.NoError(t, o.Register(s))
		}

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-allSynced:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for sources")
		}

		cancel()
		require.NoError(t, <-errCh)

		_, ok1 := syncedNames.Load("source-1")
		_, ok2 := syncedNames.Load("source-2")

		assert.True(t, ok1, "source-1 should be synced")
		assert.True(t, ok2, "source-2 should be synced")
	})
}

func TestCurrencySource(t *testing.T) {
	t.Parallel()

	var (
		captured string

		syncer = &mockSyncer{
			syncFn: func(_ context.Context, code string) ([]*types.PaymentMethod, error) {
				captured = code

				return []*types.PaymentMethod{
					{
						ShortName:    "Ziraat",
						CurrencyCode: code,
					},
				}, nil
			},
		}
	)

	source := NewCurrencySource(syncer, "TRY", time.Hour)

	assert.Contains(t, source.Name(), "TRY")
	assert.Equal(t, time.Hour, source.Interval())

	methods, err := source.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "TRY", captured)

	require.Len(t, methods, 1)
	assert.Equal(t, "Ziraat", methods[0].ShortName)
}
