package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

var errInjected = errors.New("injected failure")

// flakyStore fails writes for selected keys.
type flakyStore struct {
	*store.MemoryStore
	mu       sync.Mutex
	failSets map[string]bool
	failGets bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: store.NewMemoryStore(), failSets: map[string]bool{}}
}

func (s *flakyStore) failSet(key string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSets[key] = fail
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGets
	s.mu.Unlock()
	if fail {
		return nil, errors.Join(store.ErrUnavailable, errInjected)
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failSets[key]
	s.mu.Unlock()
	if fail {
		return errors.Join(store.ErrUnavailable, errInjected)
	}
	return s.MemoryStore.Set(ctx, key, value)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []notify.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notify.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store     *flakyStore
	clock     *clock.Fixed
	publisher *recordingPublisher
	bookings  *BookingService
}

func newTestEnv() *testEnv {
	st := newFlakyStore()
	c := clock.NewFixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	logger := zap.NewNop()

	return &testEnv{
		store:     st,
		clock:     c,
		publisher: pub,
		bookings: NewBookingService(
			repository.NewSlotRepository(st),
			repository.NewBookingRepository(st, c),
			pub,
			c,
			logger,
		),
	}
}
