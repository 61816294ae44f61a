package session

import (
	"sync"
	"time"
)

const (
	sessionTickInterval = time.Second
	wordTickInterval    = 100 * time.Millisecond
)

// timerPair runs the session and word clocks as two independently
// cancelable tickers. Stopping the pair closes a shared quit channel;
// a tick already in flight still reaches the engine, which re-checks
// the phase under its lock and discards the stale fire.
type timerPair struct {
	mu   sync.Mutex
	eng  *Engine
	quit chan struct{}
}

func newTimerPair(eng *Engine) *timerPair {
	return &timerPair{eng: eng}
}

// start launches both tickers. No-op when already running.
func (t *timerPair) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit != nil {
		return
	}
	quit := make(chan struct{})
	t.quit = quit
	go t.run(quit, sessionTickInterval, t.eng.tickSecond)
	go t.run(quit, wordTickInterval, t.eng.tickWord)
}

// stop cancels both tickers. Idempotent and safe with none running.
func (t *timerPair) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit == nil {
		return
	}
	close(t.quit)
	t.quit = nil
}

func (t *timerPair) run(quit chan struct{}, interval time.Duration, fire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			fire()
		}
	}
}
