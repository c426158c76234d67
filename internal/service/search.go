package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/splittab/splittab/internal/models"
)

// MemberSearch debounces user-search input: a query is only issued after
// the input has settled for the configured delay, and a newer query
// supersedes any older in-flight one, so only the latest result is ever
// delivered.
type MemberSearch struct {
	ledger Ledger
	delay  time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewMemberSearch creates a debounced search over the given transport.
func NewMemberSearch(ledger Ledger, delay time.Duration) *MemberSearch {
	return &MemberSearch{ledger: ledger, delay: delay}
}

// Query schedules a search for q. deliver is invoked with the results only
// if no newer query has been issued in the meantime; superseded queries are
// dropped silently.
func (s *MemberSearch) Query(ctx context.Context, q string, deliver func([]models.User, error)) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, gen, q, deliver)
	})
	s.mu.Unlock()
}

func (s *MemberSearch) run(ctx context.Context, gen uint64, q string, deliver func([]models.User, error)) {
	s.mu.Lock()
	superseded := gen != s.gen
	s.mu.Unlock()
	if superseded {
		return
	}

	users, err := s.ledger.SearchUsers(ctx, q)

	s.mu.Lock()
	superseded = gen != s.gen
	s.mu.Unlock()
	if superseded {
		slog.Debug("Search result superseded", "query", q)
		return
	}
	deliver(users, err)
}

// Stop cancels any scheduled query.
func (s *MemberSearch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
}
