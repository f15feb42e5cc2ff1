package sim

import (
	"context"
	"errors"
	"sync"

	"bots/world"
)

// DefaultDepth is the number of snapshots the channel buffers before the
// producer blocks.
const DefaultDepth = 8

var ErrChannelClosed = errors.New("snapshot channel closed by consumer")

// Channel moves snapshots from the simulation goroutine to the display. The
// producer blocks when Depth snapshots are queued; the consumer never blocks.
// A snapshot belongs to the consumer once received.
type Channel struct {
	queue  chan *world.Snapshot
	closed chan struct{}
	once   sync.Once
}

func NewChannel(depth int) *Channel {
	if depth < 1 {
		depth = 1
	}
	return &Channel{
		queue:  make(chan *world.Snapshot, depth),
		closed: make(chan struct{}),
	}
}

// Send queues s, blocking while the channel is full. It returns
// ErrChannelClosed once the consumer has gone away.
func (c *Channel) Send(ctx context.Context, s *world.Snapshot) error {
	select {
	case <-c.closed:
		return ErrChannelClosed
	default:
	}

	select {
	case c.queue <- s:
		return nil
	case <-c.closed:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryRecv returns the oldest queued snapshot. ok is false when nothing is
// queued, including after the producer has stopped.
func (c *Channel) TryRecv() (s *world.Snapshot, ok bool) {
	select {
	case s = <-c.queue:
		return s, true
	default:
		return nil, false
	}
}

// Close drops the consumer end. Blocked and future sends fail with
// ErrChannelClosed.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.closed)
	})
}

func (c *Channel) Len() int {
	return len(c.queue)
}

func (c *Channel) Cap() int {
	return cap(c.queue)
}
