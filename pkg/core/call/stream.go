package call

import "sync"

// Stream is a multi-subscriber broadcast of session events.
//
// Publishing never blocks: every subscriber owns an unbounded FIFO drained
// by its own pump goroutine, so a slow consumer cannot stall the session's
// critical section. Subscribers only see events published after they
// subscribed; nothing is replayed.
type Stream struct {
	mu   sync.Mutex
	subs []*Subscription
}

// NewStream creates an empty event stream.
func NewStream() *Stream {
	return &Stream{}
}

// Subscribe registers a new observer. The subscription is live until Close
// is called on it; the stream itself has no terminal state.
func (s *Stream) Subscribe() *Subscription {
	sub := newSubscription(s)
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// Publish delivers event to every current subscriber in subscription order.
func (s *Stream) Publish(event Event) {
	if event == nil {
		return
	}
	s.mu.Lock()
	subs := make([]*Subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.push(event)
	}
}

func (s *Stream) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Subscription is a single observer's view of the stream.
type Subscription struct {
	stream *Stream

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool

	ch   chan Event
	done chan struct{}
}

func newSubscription(stream *Stream) *Subscription {
	sub := &Subscription{
		stream: stream,
		ch:     make(chan Event),
		done:   make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)
	go sub.pump()
	return sub
}

// Events yields this subscriber's events in publication order. The channel
// is closed after Close once the queue drains.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.cond.Signal()
	s.mu.Unlock()

	s.stream.remove(s)
}

func (s *Subscription) push(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, event)
	s.cond.Signal()
}

func (s *Subscription) pump() {
	defer close(s.ch)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.ch <- event:
		case <-s.done:
			return
		}
	}
}
