package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"quizdeck/internal/domain"
)

// SnapshotStore persists the whole application state as one blob under a
// fixed key. Load reports absence via the bool; Save is best-effort.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.AppState, bool, error)
	Save(ctx context.Context, state domain.AppState) error
}

// Store owns the canonical application state. Every Dispatch runs the
// pure reducer, broadcasts the new state to subscribers, and hands it to
// a background persister. There is exactly one writer: transitions never
// interleave.
type Store struct {
	mu          sync.RWMutex
	state       domain.AppState
	snapshots   SnapshotStore
	subscribers map[chan domain.AppState]struct{}

	saveCh chan domain.AppState
	done   chan struct{}
	closed bool
}

// NewStore bootstraps a store from the snapshot adapter. Absent or
// unreadable snapshots fall back to the initial state seeded with the
// given super admin.
func NewStore(ctx context.Context, snapshots SnapshotStore, seed domain.User) *Store {
	state := domain.NewInitialState(seed)
	if snapshots != nil {
		loaded, ok, err := snapshots.Load(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("snapshot unreadable, starting from initial state")
		case ok:
			state = normalize(loaded, seed)
		}
	}

	s := &Store{
		state:       state,
		snapshots:   snapshots,
		subscribers: make(map[chan domain.AppState]struct{}),
		saveCh:      make(chan domain.AppState, 1),
		done:        make(chan struct{}),
	}
	go s.persistLoop()
	return s
}

// Dispatch applies the action and returns the resulting state. Callers
// that need to detect a rejected transition (bad login, unknown id)
// compare the result with the prior state.
func (s *Store) Dispatch(action domain.Action) domain.AppState {
	s.mu.Lock()
	next := Apply(s.state, action)
	s.state = next
	if !s.closed {
		s.queueSave(next)
	}
	s.broadcastLocked(next)
	s.mu.Unlock()
	return next
}

// broadcastLocked pushes the state to every subscriber, dropping a
// stale buffered value when a slow subscriber's channel is full. Runs
// under s.mu, the same lock cancel closes channels under, so a send on
// a closed channel cannot happen.
func (s *Store) broadcastLocked(state domain.AppState) {
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

// State returns the latest broadcast state.
func (s *Store) State() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel fed with every new state. The cancel func
// must be called to avoid leaks.
func (s *Store) Subscribe() (<-chan domain.AppState, func()) {
	ch := make(chan domain.AppState, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the background persister and writes one final synchronous
// snapshot so nothing dispatched before Close is lost.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	state := s.state
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()

	close(s.saveCh)
	<-s.done

	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Save(ctx, state)
}

// queueSave replaces any pending snapshot with the newest state; only
// the latest value matters.
func (s *Store) queueSave(state domain.AppState) {
	for {
		select {
		case s.saveCh <- state:
			return
		default:
			select {
			case <-s.saveCh:
			default:
			}
		}
	}
}

func (s *Store) persistLoop() {
	defer close(s.done)
	for state := range s.saveCh {
		if s.snapshots == nil {
			continue
		}
		if err := s.snapshots.Save(context.Background(), state); err != nil {
			// In-memory state stays authoritative; persistence is best-effort.
			log.Warn().Err(err).Msg("snapshot save failed")
		}
	}
}

// normalize repairs a loaded snapshot whose collections were serialized
// as null, and re-seeds the super admin if the blob lost it.
func normalize(state domain.AppState, seed domain.User) domain.AppState {
	if state.Quizzes == nil {
		state.Quizzes = map[string]domain.Quiz{}
	}
	if state.Results == nil {
		state.Results = map[string][]domain.Result{}
	}
	if state.Users == nil {
		state.Users = map[string]domain.User{}
	}
	hasSuper := false
	for _, user := range state.Users {
		if user.IsSuperAdmin {
			hasSuper = true
			break
		}
	}
	if !hasSuper {
		seed.IsSuperAdmin = true
		state.Users[seed.ID] = seed
		state.UserOrder = append(state.UserOrder, seed.ID)
	}
	return state
}
