// Package metered implements the bounded channel that hands events from many
// producers to a single consumer. Producers block while the channel is full and
// are released with ErrChannelClosed once the consumer closes it.
package metered

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrChannelClosed is returned by Send once the channel has been closed.
var ErrChannelClosed = errors.New("channel closed")

// LengthObserver is notified with the number of buffered items after every
// send and every drain. It must not block.
type LengthObserver func(int)

// Channel is a bounded multi-producer, single-consumer queue.
//
// Close never races with Send: a producer either enqueues before the channel is
// closed, in which case the item is visible to Drain, or observes the closure.
type Channel[T any] struct {
	items    chan T
	closed   chan struct{}
	mu       sync.RWMutex
	isClosed bool
	inflight sync.WaitGroup
	observer LengthObserver
}

// Option configures a Channel.
type Option func(*config)

type config struct {
	observer LengthObserver
}

// WithLengthObserver registers a callback receiving the channel length.
func WithLengthObserver(observer LengthObserver) Option {
	return func(c *config) {
		c.observer = observer
	}
}

// New creates a channel holding at most capacity items.
func New[T any](capacity int, opts ...Option) (*Channel[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("channel capacity must be positive, got %d", capacity)
	}
	cfg := config{observer: func(int) {}}
	for _, apply := range opts {
		apply(&cfg)
	}
	return &Channel[T]{
		items:    make(chan T, capacity),
		closed:   make(chan struct{}),
		observer: cfg.observer,
	}, nil
}

// Send enqueues the item, blocking while the channel is full. It returns
// ErrChannelClosed if the channel is closed before the item could be enqueued,
// and the context error if the context is done first.
func (c *Channel[T]) Send(ctx context.Context, item T) error {
	c.mu.RLock()
	if c.isClosed {
		c.mu.RUnlock()
		return ErrChannelClosed
	}
	c.inflight.Add(1)
	c.mu.RUnlock()
	defer c.inflight.Done()

	select {
	case c.items <- item:
		c.observer(len(c.items))
		return nil
	case <-c.closed:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Out returns the receiving end. Only the single consumer may read from it.
func (c *Channel[T]) Out() <-chan T {
	return c.items
}

// Closed returns a channel which is closed once Close was called.
func (c *Channel[T]) Closed() <-chan struct{} {
	return c.closed
}

// Len returns the number of buffered items.
func (c *Channel[T]) Len() int {
	return len(c.items)
}

// Cap returns the capacity.
func (c *Channel[T]) Cap() int {
	return cap(c.items)
}

// Close stops accepting items and releases blocked producers. Idempotent.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed {
		return
	}
	c.isClosed = true
	close(c.closed)
}

// Drain closes the channel, waits for all producers that were already inside
// Send to return, and returns the items left in the buffer in FIFO order.
// Must only be called by the consumer.
func (c *Channel[T]) Drain() []T {
	c.Close()
	c.inflight.Wait()

	var rest []T
	for {
		select {
		case item := <-c.items:
			rest = append(rest, item)
		default:
			c.observer(0)
			return rest
		}
	}
}
