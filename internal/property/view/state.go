// Package view holds the non-authoritative presentation state: the selected
// gallery mode, the last fetched records, pending form input, the in-flight
// flag and the feedback banner.
package view

import (
	"sync"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

// Ticket tags one fetch with the mode generation it was requested for.
type Ticket struct {
	gen  uint64
	Mode domain.ViewMode
}

// State is shared by every request the process serves.
type State struct {
	mu      sync.Mutex
	mode    domain.ViewMode
	gen     uint64
	records []*models.Record
	busy    bool
	pending Pending
	metrics *metrics.Metrics
}

// Pending is the form input kept across a failed action.
type Pending struct {
	RegisterID string
	TransferID string
	TransferTo string
}

func NewState(m *metrics.Metrics) *State {
	return &State{mode: domain.ViewAll, metrics: m}
}

func (s *State) Mode() domain.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the gallery and returns the ticket for the fetch that
// should follow. Any fetch still running for an earlier mode becomes stale.
func (s *State) SetMode(mode domain.ViewMode) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.gen++
	return Ticket{gen: s.gen, Mode: s.mode}
}

// BeginFetch returns a ticket for refreshing the current mode. Refreshes of
// the same mode share a generation and never fence each other.
func (s *State) BeginFetch() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{gen: s.gen, Mode: s.mode}
}

// Commit stores records if no mode switch happened since t was issued.
// Results for a replaced mode are dropped and false is returned.
func (s *State) Commit(t Ticket, records []*models.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		s.metrics.IncrementStaleFetches()
		return false
	}
	s.records = records
	return true
}

// Snapshot returns the mode and the records last committed for it.
func (s *State) Snapshot() (domain.ViewMode, []*models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.records
}

// TryBegin sets the in-flight flag, returning false if an action is running.
func (s *State) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *State) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *State) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *State) Pending() Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *State) SetPendingRegister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.RegisterID = id
}

func (s *State) SetPendingTransfer(id, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.TransferID = id
	s.pending.TransferTo = to
}
