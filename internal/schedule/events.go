package schedule

import (
	"fmt"
	"sync"
	"time"
)

// EventType identifies what happened in the registry or scheduler.
type EventType string

const (
	EventThemeRegistered   EventType = "theme_registered"
	EventCleared           EventType = "cleared"
	EventThemeApplied      EventType = "theme_applied"
	EventIconThemeApplied  EventType = "icon_theme_applied"
	EventThemeUnregistered EventType = "theme_unregistered" // reserved; never emitted
	EventError             EventType = "error"
)

// Event is a single notification on the event stream.
type Event struct {
	Type EventType
	// Name is the theme label (or id when the theme has no label).
	Name string
	// When is the mapping time for registration events.
	When string
	At   time.Time
	Err  error
}

func (e Event) String() string {
	switch e.Type {
	case EventError:
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	case EventCleared:
		return string(e.Type)
	case EventThemeRegistered:
		return fmt.Sprintf("%s: %s at %s", e.Type, e.Name, e.When)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Name)
	}
}

// ValidationError reports a mapping rejected at registration.
type ValidationError struct {
	Time  string
	Theme string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid time format %s for %s", e.Time, e.Theme)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ApplyError reports a failed write to the settings store.
type ApplyError struct {
	Kind string // "theme" or "icon_theme"
	ID   string
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Bus is a push-only, multi-subscriber event stream. Each subscriber receives
// events in emission order. Publishing never blocks on a slow subscriber.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
	closed bool
}

type subscription struct {
	mu       sync.Mutex
	queue    []Event
	wake     chan struct{}
	out      chan Event
	done     chan struct{}
	draining bool
	stopped  bool
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Subscribe registers a new subscriber. The returned cancel func unsubscribes
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	s := &subscription{
		wake: make(chan struct{}, 1),
		out:  make(chan Event, buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.out)
		return s.out, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	go s.pump()

	var once sync.Once
	return s.out, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			s.stop()
		})
	}
}

// Publish delivers e to every current subscriber.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		s.push(e)
	}
}

// Close ends every subscription. Events queued before Close are still delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = map[int]*subscription{}
	b.mu.Unlock()

	for _, s := range subs {
		s.drainAndStop()
	}
}

func (s *subscription) push(e Event) {
	s.mu.Lock()
	s.queue = append(s.queue, e)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// stop discards anything still queued.
func (s *subscription) stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.queue = nil
	s.mu.Unlock()
	close(s.done)
}

// drainAndStop lets the pump flush the queue before closing the channel.
func (s *subscription) drainAndStop() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			draining := s.draining
			s.mu.Unlock()
			if draining {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- e:
		case <-s.done:
			return
		}
	}
}
