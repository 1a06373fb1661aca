package tracker

import (
	"fmt"
	"io"
	"sync"
)

// Kind identifies a notification.
type Kind string

const (
	// KindTimerFinished is sent when a countdown reaches zero.
	KindTimerFinished Kind = "timer_finished"

	// KindRewardGranted is sent when a completed task's points are granted.
	KindRewardGranted Kind = "reward_granted"

	// KindLevelUp is sent once per level threshold crossed.
	KindLevelUp Kind = "level_up"
)

// Notification is a user-facing message produced by a trigger.
type Notification struct {
	Kind   Kind   `json:"kind"`
	TaskID string `json:"task_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Points int    `json:"points,omitempty"`
	Level  int    `json:"level,omitempty"`
}

// String renders the notification as a single line.
func (n Notification) String() string {
	switch n.Kind {
	case KindTimerFinished:
		return fmt.Sprintf("Time's up: %s", n.Title)
	case KindRewardGranted:
		return fmt.Sprintf("+%d XP for %s", n.Points, n.Title)
	case KindLevelUp:
		return fmt.Sprintf("Level up! You reached level %d", n.Level)
	default:
		return string(n.Kind)
	}
}

// Notifier receives notifications. Implementations must not call back into
// the tracker; they run while the tracker's lock is held.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Notifiers fans a notification out to several notifiers in order.
type Notifiers []Notifier

// Notify forwards n to every non-nil notifier.
func (ns Notifiers) Notify(n Notification) {
	for _, notifier := range ns {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	w    io.Writer
	bell bool
	mu   sync.Mutex
}

// NewWriterNotifier returns a notifier writing to w, optionally ringing the
// terminal bell before each line.
func NewWriterNotifier(w io.Writer, bell bool) *WriterNotifier {
	return &WriterNotifier{w: w, bell: bell}
}

// Notify writes n.
func (wn *WriterNotifier) Notify(n Notification) {
	wn.mu.Lock()
	defer wn.mu.Unlock()
	prefix := ""
	if wn.bell {
		prefix = "\a"
	}
	fmt.Fprintf(wn.w, "%s%s\n", prefix, n)
}

// DefaultCollectorLimit is the number of notifications a long-lived
// Collector keeps for a reader that polls.
const DefaultCollectorLimit = 32

// Collector buffers notifications until they are drained. When Limit is
// positive only the newest Limit notifications are kept. The zero value is
// an unbounded collector.
type Collector struct {
	Limit int

	mu    sync.Mutex
	items []Notification
	ready chan struct{}
}

// NewCollector returns a collector keeping at most limit notifications.
func NewCollector(limit int) *Collector {
	return &Collector{Limit: limit}
}

// Notify buffers n and signals Ready.
func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
	if c.Limit > 0 && len(c.items) > c.Limit {
		c.items = append([]Notification(nil), c.items[len(c.items)-c.Limit:]...)
	}
	select {
	case c.readyLocked() <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives a value after Notify when the
// previous value has been consumed. Drain after receiving from it.
func (c *Collector) Ready() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyLocked()
}

func (c *Collector) readyLocked() chan struct{} {
	if c.ready == nil {
		c.ready = make(chan struct{}, 1)
	}
	return c.ready
}

// Drain returns and clears the buffered notifications.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}
