package workflow

import (
	"sync"
	"time"
)

// DefaultNotificationDelay is how long an error stays visible.
const DefaultNotificationDelay = 6 * time.Second

// Timer is the part of *time.Timer the notifier uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier shows one error message at a time and hides it after a delay.
// A new message replaces the current one and restarts the delay.
//
// View callbacks run one at a time and always leave the view matching the
// notifier's state, even when a callback re-enters the notifier or another
// goroutine changes it meanwhile.
type Notifier struct {
	mu         sync.Mutex
	delay      time.Duration
	after      AfterFunc
	show       func(string)
	hide       func()
	timer      Timer
	generation uint64
	visible    bool
	message    string
	stopped    bool

	// view side, owned by the goroutine running sync
	messageGen  uint64
	viewGen     uint64
	viewVisible bool
	syncing     bool
	dirty       bool
}

// NewNotifier creates a notifier. A nil after uses time.AfterFunc.
func NewNotifier(delay time.Duration, show func(string), hide func(), after AfterFunc) *Notifier {
	if delay <= 0 {
		delay = DefaultNotificationDelay
	}
	if after == nil {
		after = realAfterFunc
	}
	return &Notifier{delay: delay, after: after, show: show, hide: hide}
}

// Show displays message and schedules its auto-hide. It does nothing after Stop.
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.generation++
	gen := n.generation
	if n.timer != nil {
		n.timer.Stop()
	}
	n.message = message
	n.messageGen = gen
	n.visible = true
	n.timer = n.after(n.delay, func() { n.expire(gen) })
	n.mu.Unlock()

	n.sync()
}

// Dismiss hides the message now.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.generation++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.visible = false
	n.mu.Unlock()

	n.sync()
}

// Stop cancels a pending auto-hide without touching the view. Later messages
// are dropped.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	n.generation++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// SetDelay changes the delay used by later messages.
func (n *Notifier) SetDelay(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultNotificationDelay
	}
	n.mu.Lock()
	n.delay = delay
	n.mu.Unlock()
}

// Visible reports whether a message is shown and which one.
func (n *Notifier) Visible() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.visible
}

// expire hides the message of generation gen unless a newer one replaced it.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || !n.visible {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	n.mu.Unlock()

	n.sync()
}

// sync brings the view in line with the current state. A call made while
// another sync runs only marks the state dirty; the running sync loops until
// nothing changed during its last view call.
func (n *Notifier) sync() {
	n.mu.Lock()
	if n.syncing {
		n.dirty = true
		n.mu.Unlock()
		return
	}
	n.syncing = true

	for {
		n.dirty = false
		var call func()
		switch {
		case n.visible && (!n.viewVisible || n.viewGen != n.messageGen):
			message := n.message
			call = func() { n.show(message) }
			n.viewVisible, n.viewGen = true, n.messageGen
		case !n.visible && n.viewVisible:
			call = n.hide
			n.viewVisible = false
		}
		if call == nil {
			break
		}
		n.mu.Unlock()
		call()
		n.mu.Lock()
		if !n.dirty {
			break
		}
	}

	n.syncing = false
	n.mu.Unlock()
}
