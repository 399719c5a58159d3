package view

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

func TestFetchFencing(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	s := NewState(m)
	assert.Equal(t, domain.ViewAll, s.Mode())

	mine := []*models.Record{{ID: "mine"}}
	all := []*models.Record{{ID: "a"}, {ID: "b"}}

	t.Run("a late result for the previous mode is discarded", func(t *testing.T) {
		allTicket := s.BeginFetch()
		mineTicket := s.SetMode(domain.ViewMine)

		assert.True(t, s.Commit(mineTicket, mine))
		assert.False(t, s.Commit(allTicket, all))

		mode, records := s.Snapshot()
		assert.Equal(t, domain.ViewMine, mode)
		assert.Equal(t, mine, records)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StaleFetches))
	})

	t.Run("refreshes of the same mode do not fence each other", func(t *testing.T) {
		older := s.BeginFetch()
		newer := s.BeginFetch()

		assert.True(t, s.Commit(newer, mine))
		assert.True(t, s.Commit(older, mine))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StaleFetches))
	})

	t.Run("rapid toggling keeps only the last request", func(t *testing.T) {
		first := s.SetMode(domain.ViewAll)
		second := s.SetMode(domain.ViewMine)
		third := s.SetMode(domain.ViewAll)

		assert.False(t, s.Commit(second, mine))
		assert.True(t, s.Commit(third, all))
		assert.False(t, s.Commit(first, all))

		_, records := s.Snapshot()
		assert.Equal(t, all, records)
	})
}

func TestBusyFlag(t *testing.T) {
	s := NewState(nil)
	require.True(t, s.TryBegin())
	assert.True(t, s.Busy())
	assert.False(t, s.TryBegin())
	s.End()
	assert.True(t, s.TryBegin())
	s.End()

	t.Run("only one of many concurrent actions wins", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s.TryBegin() {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
		s.End()
	})
}

func TestPendingInput(t *testing.T) {
	s := NewState(nil)
	s.SetPendingRegister("plot-1")
	s.SetPendingTransfer("plot-2", "0xabc")
	assert.Equal(t, Pending{RegisterID: "plot-1", TransferID: "plot-2", TransferTo: "0xabc"}, s.Pending())

	s.SetPendingRegister("")
	assert.Empty(t, s.Pending().RegisterID)
}

func TestFeedback(t *testing.T) {
	t.Run("one message at a time", func(t *testing.T) {
		f := NewFeedback(time.Minute)
		f.Info("⏳ Signing transaction...")
		f.Success("Success: Property Registered!")

		msg, ok := f.Current()
		require.True(t, ok)
		assert.Equal(t, KindSuccess, msg.Kind)
		assert.Equal(t, "Success: Property Registered!", msg.Text)
	})

	t.Run("messages expire", func(t *testing.T) {
		f := NewFeedback(20 * time.Millisecond)
		f.Error("Transaction rejected.")
		require.Eventually(t, func() bool {
			_, ok := f.Current()
			return !ok
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("clear", func(t *testing.T) {
		f := NewFeedback(time.Minute)
		f.Error("x")
		f.Clear()
		_, ok := f.Current()
		assert.False(t, ok)
	})

	t.Run("expiry is stamped from the ttl", func(t *testing.T) {
		f := NewFeedback(5 * time.Second)
		fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		f.now = func() time.Time { return fixed }
		msg := f.Success("ok")
		assert.Equal(t, fixed.Add(5*time.Second), msg.ExpiresAt)
	})
}
