package geo

import (
	"context"
	"sync"
	"time"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (m *manualTimer) Stop() { m.stopped = true }

// manualScheduler records timers instead of running them.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
	delays []time.Duration
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{fn: fn}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// fireActive runs every timer that was neither stopped nor already fired.
func (s *manualScheduler) fireActive() {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func (s *manualScheduler) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeGeocoder struct {
	mu             sync.Mutex
	searchCalls    []string
	reverseCalls   int
	results        map[string][]Candidate
	searchErr      error
	reverseErr     error
	onSearch       func(query string)
	reverseLabel   func(lat, lng float64) string
	reverseBlock   map[float64]chan struct{}
	reverseEntered chan float64
}

func (f *fakeGeocoder) Search(_ context.Context, query string) ([]Candidate, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	hook := f.onSearch
	err := f.searchErr
	res := f.results[query]
	f.mu.Unlock()
	if hook != nil {
		hook(query)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat, lng float64) (Place, error) {
	f.mu.Lock()
	f.reverseCalls++
	err := f.reverseErr
	var block chan struct{}
	if f.reverseBlock != nil {
		block = f.reverseBlock[lat]
	}
	entered := f.reverseEntered
	f.mu.Unlock()
	if entered != nil {
		entered <- lat
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return Place{}, err
	}
	label := "somewhere"
	if f.reverseLabel != nil {
		label = f.reverseLabel(lat, lng)
	}
	return Place{Label: label, Latitude: lat, Longitude: lng}, nil
}

func (f *fakeGeocoder) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}
