package ledger

import (
	"sync"

	"shopledger/internal/model"
)

// StateHolder is the state container handed to every command source and view.
type StateHolder interface {
	GetState() model.State
	Dispatch(e Event) Result
	DispatchWith(build func(model.State) Event) Result
}

// Result describes one dispatch. Version is the store version after the event.
type Result struct {
	Event   Event
	State   model.State
	Signals []Signal
	Applied bool
	Version uint64
}

// Listener observes every dispatch, applied or not. Listeners run under the
// store lock in dispatch order; they must not block and must not dispatch.
type Listener func(Result)

// Store is the single writer over the ledger state.
type Store struct {
	mu        sync.RWMutex
	state     model.State
	version   uint64
	listeners []Listener
}

var _ StateHolder = (*Store)(nil)

// NewStore seeds the store with a rehydrated state and the version it was saved at.
func NewStore(initial model.State, version uint64) *Store {
	initial.Normalize()
	return &Store{state: initial, version: version}
}

// GetState returns the current snapshot. It is shared with other readers and must
// be treated as read-only; use Clone for a private copy.
func (s *Store) GetState() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns the state together with its version.
func (s *Store) Snapshot() (model.State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.version
}

// Subscribe registers l for all subsequent dispatches.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies e and notifies listeners.
func (s *Store) Dispatch(e Event) Result {
	return s.DispatchWith(func(model.State) Event { return e })
}

// DispatchWith builds the event from the current state under the write lock, so
// values derived from the state (such as the next invoice number) cannot race.
func (s *Store) DispatchWith(build func(model.State) Event) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := build(s.state)
	t := Reduce(s.state, e)
	if t.Applied {
		s.state = t.State
		s.version++
	}

	res := Result{
		Event:   e,
		State:   s.state,
		Signals: t.Signals,
		Applied: t.Applied,
		Version: s.version,
	}
	for _, l := range s.listeners {
		l(res)
	}
	return res
}
