package review

import "sync"

// Publisher fans values out to subscribers and replays the latest value to
// new subscribers.
//
// Each subscription owns a one-slot mailbox. When a subscriber has not yet
// drained the previous value, the newer value replaces it, so a slow consumer
// always ends up with the latest one. Publish never blocks.
type Publisher[T any] struct {
	mu        sync.Mutex
	latest    T
	hasLatest bool
	subs      map[*Subscription[T]]struct{}
	closed    bool
}

// NewPublisher constructs an empty publisher.
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscription is a consumer's handle on a publisher.
type Subscription[T any] struct {
	pub  *Publisher[T]
	ch   chan T
	once sync.Once
}

// C returns the delivery channel. It is closed after Unsubscribe.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe stops delivery. Calling it more than once is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.pub.mu.Lock()
		defer s.pub.mu.Unlock()
		delete(s.pub.subs, s)
		close(s.ch)
	})
}

// Subscribe registers a new consumer. If a value was already published, it
// is waiting in the channel when Subscribe returns.
func (p *Publisher[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{pub: p, ch: make(chan T, 1)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	if p.hasLatest {
		sub.ch <- p.latest
	}
	p.subs[sub] = struct{}{}
	return sub
}

// Publish records v as the latest value and delivers it to every subscriber.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.latest = v
	p.hasLatest = true
	for sub := range p.subs {
		deliver(sub.ch, v)
	}
}

// Subscribers returns the number of active subscriptions.
func (p *Publisher[T]) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close unsubscribes everyone and drops further publishes.
func (p *Publisher[T]) Close() {
	p.mu.Lock()
	subs := make([]*Subscription[T], 0, len(p.subs))
	for sub := range p.subs {
		subs = append(subs, sub)
	}
	p.closed = true
	p.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// deliver must be called with the publisher lock held; the publisher is the
// only sender, so after draining a stale value the send cannot block.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
