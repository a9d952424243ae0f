package geo

import (
	"sync"
	"time"
)

// Timer is a pending callback. Stop may be called any number of times.
type Timer interface {
	Stop()
}

// Scheduler runs fn once after d and returns a handle that cancels it.
type Scheduler func(d time.Duration, fn func()) Timer

type wallTimer struct {
	once sync.Once
	t    *time.Timer
}

func (w *wallTimer) Stop() {
	w.once.Do(func() { w.t.Stop() })
}

// AfterFunc schedules fn on the wall clock.
func AfterFunc(d time.Duration, fn func()) Timer {
	return &wallTimer{t: time.AfterFunc(d, fn)}
}
