// Package loader runs one keyed document fetch per mount and exposes the
// result as a {data, loading, error} state. Loaders never cache: every
// mount builds a new Loader and issues its own fetch.
package loader

import (
	"context"
	"errors"
	"log"
	"sync"

	"semaphore/booking/internal/docstore"
)

const ErrLoadFailed = "load_failed"

type State[T any] struct {
	Data    *T     `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type FetchFunc[T any] func(ctx context.Context) (*T, error)

type Loader[T any] struct {
	name  string
	fetch FetchFunc[T]

	// OnChange, when set, sees every state transition in order.
	OnChange func(State[T])

	mu    sync.Mutex
	state State[T]
}

func New[T any](name string, fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{name: name, fetch: fetch, state: State[T]{Loading: true}}
}

func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load runs the fetch once. A missing document leaves Data nil without an
// error. If ctx ends first the result is dropped and only Loading is cleared.
func (l *Loader[T]) Load(ctx context.Context) State[T] {
	l.update(func(s *State[T]) { s.Loading = true })

	data, err := l.fetch(ctx)
	if ctx.Err() != nil {
		return l.update(func(s *State[T]) { s.Loading = false })
	}

	return l.update(func(s *State[T]) {
		s.Loading = false
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			s.Data, s.Error = nil, ""
		case err != nil:
			log.Printf("%s load error: %v", l.name, err)
			s.Data, s.Error = nil, ErrLoadFailed
		default:
			s.Data, s.Error = data, ""
		}
	})
}

func (l *Loader[T]) update(fn func(*State[T])) State[T] {
	l.mu.Lock()
	fn(&l.state)
	state := l.state
	onChange := l.OnChange
	l.mu.Unlock()
	if onChange != nil {
		onChange(state)
	}
	return state
}
