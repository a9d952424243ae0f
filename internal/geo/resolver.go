package geo

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before a search runs.
	DefaultDebounce = 300 * time.Millisecond
	// MinQueryRunes is the shortest query that triggers a search.
	MinQueryRunes = 3

	defaultLookupTimeout = 8 * time.Second
)

// ErrNoSuchCandidate is returned by Select for an index outside the current results.
var ErrNoSuchCandidate = errors.New("no such search result")

// Lookuper is the cache-backed search facility a Resolver drives.
type Lookuper interface {
	Lookup(ctx context.Context, query string) ([]Candidate, bool, error)
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Point is the currently chosen map position.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// State is a snapshot of a resolver session. Version increases with every change.
type State struct {
	Version   uint64      `json:"version"`
	Query     string      `json:"query"`
	Address   string      `json:"address"`
	Location  *Point      `json:"location,omitempty"`
	Results   []Candidate `json:"results"`
	Searching bool        `json:"searching"`
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithDebounce overrides the debounce delay.
func WithDebounce(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.delay = d }
}

// WithScheduler replaces the wall-clock timer, mainly for tests.
func WithScheduler(s Scheduler) ResolverOption {
	return func(r *Resolver) { r.schedule = s }
}

// WithListener registers fn to receive a snapshot after every state change. fn is called without
// the resolver lock held and may be called from timer goroutines.
func WithListener(fn func(State)) ResolverOption {
	return func(r *Resolver) { r.onChange = fn }
}

// WithLogger sets the logger used for swallowed lookup failures.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// Resolver is one search-as-you-type session. Searches are debounced through a single cancelable
// timer and results are applied only when they belong to the latest search; reverse lookups carry
// their own generation counter. Lookup failures are logged and leave the state untouched.
type Resolver struct {
	lookup   Lookuper
	delay    time.Duration
	schedule Scheduler
	onChange func(State)
	logger   *zap.Logger

	mu         sync.Mutex
	state      State
	pending    Timer
	searchSeq  uint64
	reverseSeq uint64
	closed     bool
}

// NewResolver creates a session bound to lookup.
func NewResolver(lookup Lookuper, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup:   lookup,
		delay:    DefaultDebounce,
		schedule: AfterFunc,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search records query as the typed address and (re)starts the debounce window.
func (r *Resolver) Search(query string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.cancelPendingLocked()
	r.searchSeq++
	seq := r.searchSeq
	r.state.Query = query
	r.state.Address = query

	if utf8.RuneCountInString(query) < MinQueryRunes {
		r.state.Results = nil
		r.state.Searching = false
		snap := r.changedLocked()
		r.mu.Unlock()
		r.notify(snap)
		return
	}

	r.pending = r.schedule(r.delay, func() { r.runSearch(seq, query) })
	snap := r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)
}

func (r *Resolver) runSearch(seq uint64, query string) {
	r.mu.Lock()
	if r.closed || seq != r.searchSeq {
		r.mu.Unlock()
		return
	}
	r.pending = nil
	r.state.Searching = true
	snap := r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)

	ctx, cancel := context.WithTimeout(context.Background(), defaultLookupTimeout)
	results, cached, err := r.lookup.Lookup(ctx, query)
	cancel()

	r.mu.Lock()
	// a newer keystroke may have arrived while the lookup ran
	if r.closed || seq != r.searchSeq {
		r.mu.Unlock()
		return
	}
	r.state.Searching = false
	if err != nil {
		r.logger.Warn("location search failed", zap.String("query", query), zap.Error(err))
	} else {
		r.state.Results = results
		r.logger.Debug("location search applied", zap.String("query", query), zap.Bool("cached", cached), zap.Int("results", len(results)))
	}
	snap = r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// ReverseGeocode moves the marker to (lat, lng) immediately and resolves its address. Only the
// response of the most recent call is applied.
func (r *Resolver) ReverseGeocode(ctx context.Context, lat, lng float64) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.reverseSeq++
	seq := r.reverseSeq
	r.state.Location = &Point{Latitude: lat, Longitude: lng}
	snap := r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)

	place, err := r.lookup.Reverse(ctx, lat, lng)

	r.mu.Lock()
	if r.closed || seq != r.reverseSeq {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.mu.Unlock()
		r.logger.Warn("reverse geocode failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		return
	}
	r.state.Address = place.Label
	snap = r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// Select adopts the result at index: coordinates and address are taken from it and the result
// list is cleared.
func (r *Resolver) Select(index int) (Candidate, error) {
	r.mu.Lock()
	if index < 0 || index >= len(r.state.Results) {
		r.mu.Unlock()
		return Candidate{}, ErrNoSuchCandidate
	}
	picked := r.state.Results[index]
	r.cancelPendingLocked()
	// invalidates any in-flight search and reverse lookup
	r.searchSeq++
	r.reverseSeq++
	r.state.Location = &Point{Latitude: picked.Latitude, Longitude: picked.Longitude}
	r.state.Address = picked.Label
	r.state.Results = nil
	r.state.Searching = false
	snap := r.changedLocked()
	r.mu.Unlock()
	r.notify(snap)
	return picked, nil
}

// Snapshot returns the current state.
func (r *Resolver) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Close cancels the pending search. Further calls are ignored.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelPendingLocked()
	r.closed = true
}

func (r *Resolver) cancelPendingLocked() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

func (r *Resolver) changedLocked() State {
	r.state.Version++
	return r.snapshotLocked()
}

func (r *Resolver) snapshotLocked() State {
	snap := r.state
	snap.Results = cloneCandidates(r.state.Results)
	if snap.Results == nil {
		snap.Results = []Candidate{}
	}
	if r.state.Location != nil {
		loc := *r.state.Location
		snap.Location = &loc
	}
	return snap
}

func (r *Resolver) notify(s State) {
	if r.onChange != nil {
		r.onChange(s)
	}
}
