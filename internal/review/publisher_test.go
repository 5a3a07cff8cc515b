package review

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_ReplaysLatest(t *testing.T) {
	pub := NewPublisher[int]()
	defer pub.Close()

	early := pub.Subscribe()
	defer early.Unsubscribe()
	select {
	case v := <-early.C():
		t.Fatalf("unexpected value %d before any publish", v)
	default:
	}

	pub.Publish(1)
	pub.Publish(2)

	late := pub.Subscribe()
	defer late.Unsubscribe()
	assert.Equal(t, 2, <-late.C())
	assert.Equal(t, 2, pub.Subscribers())
}

func TestPublisher_LatestWinsForSlowConsumer(t *testing.T) {
	pub := NewPublisher[int]()
	defer pub.Close()

	sub := pub.Subscribe()
	defer sub.Unsubscribe()

	for i := 1; i <= 10; i++ {
		pub.Publish(i)
	}
	assert.Equal(t, 10, <-sub.C())
	select {
	case v := <-sub.C():
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestPublisher_InOrderForDrainingConsumer(t *testing.T) {
	pub := NewPublisher[int]()
	defer pub.Close()

	sub := pub.Subscribe()
	defer sub.Unsubscribe()

	for i := 1; i <= 5; i++ {
		pub.Publish(i)
		assert.Equal(t, i, <-sub.C())
	}
}

func TestPublisher_UnsubscribeIsIdempotent(t *testing.T) {
	pub := NewPublisher[string]()
	defer pub.Close()

	sub := pub.Subscribe()
	require.Equal(t, 1, pub.Subscribers())

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 0, pub.Subscribers())

	pub.Publish("after")
	_, open := <-sub.C()
	assert.False(t, open, "channel should be closed after unsubscribe")
}

func TestPublisher_Close(t *testing.T) {
	pub := NewPublisher[int]()
	a := pub.Subscribe()
	b := pub.Subscribe()

	pub.Close()
	pub.Publish(1)

	for _, sub := range []*Subscription[int]{a, b} {
		_, open := <-sub.C()
		assert.False(t, open)
		sub.Unsubscribe()
	}

	afterClose := pub.Subscribe()
	_, open := <-afterClose.C()
	assert.False(t, open)
	assert.Equal(t, 0, pub.Subscribers())
}

func TestPublisher_ConcurrentConsumersSeeMonotonicValues(t *testing.T) {
	pub := NewPublisher[int]()
	const consumers = 8
	const publishes = 200

	var wg sync.WaitGroup
	subs := make([]*Subscription[int], consumers)
	for i := range subs {
		subs[i] = pub.Subscribe()
	}
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *Subscription[int]) {
			defer wg.Done()
			last := 0
			for v := range sub.C() {
				if v <= last {
					t.Errorf("value %d after %d", v, last)
					return
				}
				last = v
				if v == publishes {
					return
				}
			}
		}(sub)
	}

	for i := 1; i <= publishes; i++ {
		pub.Publish(i)
	}
	wg.Wait()
	pub.Close()
}
