package checklist

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("checklist not found")

// Source fetches a checklist by identifier from wherever it lives.
type Source interface {
	Fetch(ctx context.Context, id string) (*Checklist, error)
}

// Saver persists the edited values of a checklist.
type Saver interface {
	Save(ctx context.Context, id string, values FormValues) error
}

// LoadObserver receives the outcome of every fetch. metrics.Recorder implements it.
type LoadObserver interface {
	ObserveLoad(result string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, time.Duration) {}

// Loader populates State from a Source. Concurrent loads of the same identifier
// share a single fetch.
type Loader struct {
	source   Source
	state    *State
	logger   *zap.Logger
	observer LoadObserver
	group    singleflight.Group
	timeout  time.Duration
}

func NewLoader(source Source, state *State, logger *zap.Logger, observer LoadObserver) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Loader{
		source:   source,
		state:    state,
		logger:   logger.Named("checklist"),
		observer: observer,
		timeout:  time.Minute,
	}
}

func (l *Loader) State() *State {
	return l.state
}

// Request starts a fresh fetch of id in the background and returns immediately.
// The result lands in State; failures are only logged. Nothing cancels an
// in-flight request when a newer identifier is requested.
func (l *Loader) Request(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if _, err := l.Refresh(ctx, id); err != nil {
			l.logger.Warn("background load failed", zap.String("id", id), zap.Error(err))
		}
	}()
}

// Load returns the checklist from State, fetching it first when absent.
func (l *Loader) Load(ctx context.Context, id string) (*Checklist, error) {
	if c, ok := l.state.Get(id); ok {
		return c, nil
	}
	return l.Refresh(ctx, id)
}

// Refresh always fetches from the source and replaces the State entry.
func (l *Loader) Refresh(ctx context.Context, id string) (*Checklist, error) {
	v, err, shared := l.group.Do(id, func() (interface{}, error) {
		start := time.Now()
		c, err := l.source.Fetch(ctx, id)
		switch {
		case errors.Is(err, ErrNotFound):
			l.observer.ObserveLoad("not_found", time.Since(start))
			return nil, err
		case err != nil:
			l.observer.ObserveLoad("error", time.Since(start))
			return nil, err
		}
		l.observer.ObserveLoad("ok", time.Since(start))
		c.ID = id
		l.state.Put(c)
		l.logger.Debug("checklist loaded", zap.String("id", id), zap.Int("questions", len(c.Questions)))
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.logger.Debug("load shared with concurrent caller", zap.String("id", id))
	}
	if c, ok := l.state.Get(id); ok {
		return c, nil
	}
	return v.(*Checklist).Clone(), nil
}
