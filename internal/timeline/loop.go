package timeline

import (
	"sync"
	"time"

	"github.com/ZacxDev/video-region-editor/internal/clock"
)

// Loop calls a tick function once per frame until stopped.
type Loop struct {
	clock    clock.Clock
	interval time.Duration
	tick     func()

	mu      sync.Mutex
	running bool
	ticker  clock.Ticker
	done    chan struct{}
	stopped chan struct{}
}

// NewLoop creates a stopped loop.
func NewLoop(c clock.Clock, interval time.Duration, tick func()) *Loop {
	if c == nil {
		c = clock.Real{}
	}
	return &Loop{clock: c, interval: interval, tick: tick}
}

// Start begins ticking. Starting a running loop does nothing.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.ticker = l.clock.NewTicker(l.interval)
	l.done = make(chan struct{})
	l.stopped = make(chan struct{})

	go l.run(l.ticker, l.done, l.stopped)
}

func (l *Loop) run(t clock.Ticker, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case <-done:
			return
		case <-t.C():
			select {
			case <-done:
				return
			default:
			}
			l.tick()
		}
	}
}

// Stop halts the loop and waits for an in-flight tick to finish. Safe to call
// on a stopped loop. Must not be called from inside tick.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.ticker.Stop()
	close(l.done)
	stopped := l.stopped
	l.mu.Unlock()

	<-stopped
}

// Running reports whether the loop is ticking.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}
