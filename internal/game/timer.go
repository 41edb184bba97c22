package game

import (
	"sync"
	"time"

	"learning-timer/internal/models"

	"github.com/jonboulle/clockwork"
)

const tickInterval = time.Second

// sessionTimer runs one countdown at a time. Every method must be called with
// mu held; tick callbacks acquire mu themselves.
type sessionTimer struct {
	mu       sync.Locker
	clock    clockwork.Clock
	seconds  int
	emit     func(Event)
	onExpire func()

	state   models.TimerState
	pending clockwork.Timer
	gen     uint64
}

func newSessionTimer(mu sync.Locker, clk clockwork.Clock, duration time.Duration, emit func(Event), onExpire func()) *sessionTimer {
	return &sessionTimer{
		mu:       mu,
		clock:    clk,
		seconds:  int(duration / time.Second),
		emit:     emit,
		onExpire: onExpire,
	}
}

// start supersedes any running countdown.
func (t *sessionTimer) start() {
	t.stop()

	if t.seconds <= 0 {
		t.state = models.TimerState{}
		t.emit(Event{Type: EventTimer, Payload: t.state})
		t.onExpire()
		return
	}

	t.state = models.TimerState{SecondsRemaining: t.seconds, Running: true}
	t.emit(Event{Type: EventTimer, Payload: t.state})
	t.schedule()
}

func (t *sessionTimer) stop() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.state.Running = false
}

func (t *sessionTimer) schedule() {
	gen := t.gen
	t.pending = t.clock.AfterFunc(tickInterval, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		// superseded by a newer start or stop
		if gen != t.gen || !t.state.Running {
			return
		}
		t.tick()
	})
}

func (t *sessionTimer) tick() {
	t.state.SecondsRemaining--
	if t.state.SecondsRemaining > 0 {
		t.emit(Event{Type: EventTimer, Payload: t.state})
		t.schedule()
		return
	}

	t.state = models.TimerState{SecondsRemaining: 0, Running: false}
	t.pending = nil
	t.emit(Event{Type: EventTimer, Payload: t.state})
	t.onExpire()
}

func (t *sessionTimer) snapshot() models.TimerState {
	return t.state
}
