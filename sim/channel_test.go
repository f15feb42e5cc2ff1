package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"bots/world"
)

func within(t *testing.T, d time.Duration, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("call did not return within %v", d)
	}
}

func TestChannelTryRecvNeverBlocks(t *testing.T) {
	ctx := context.Background()
	c := NewChannel(2)

	within(t, time.Second, func() {
		if _, ok := c.TryRecv(); ok {
			t.Error("TryRecv on empty channel reported an update")
		}
	})

	c.Send(ctx, &world.Snapshot{Tick: 0})
	c.Send(ctx, &world.Snapshot{Tick: 1})
	within(t, time.Second, func() {
		if s, ok := c.TryRecv(); !ok || s.Tick != 0 {
			t.Errorf(`TryRecv on full channel = %v, %v`, s, ok)
		}
	})

	c.Close()
	within(t, time.Second, func() {
		if s, ok := c.TryRecv(); !ok || s.Tick != 1 {
			t.Errorf(`TryRecv after close = %v, %v; want queued tick 1`, s, ok)
		}
		if _, ok := c.TryRecv(); ok {
			t.Error("TryRecv on closed, drained channel reported an update")
		}
	})
}

func TestChannelBlocksProducerAtDepth(t *testing.T) {
	for depth := 1; depth <= 8; depth++ {
		ctx := context.Background()
		c := NewChannel(depth)
		for i := 0; i < depth; i++ {
			if err := c.Send(ctx, &world.Snapshot{Tick: uint64(i)}); err != nil {
				t.Fatal(err)
			}
		}
		if c.Len() != depth {
			t.Fatalf(`Len() = %d, want %d`, c.Len(), depth)
		}

		sent := make(chan error, 1)
		go func() {
			sent <- c.Send(ctx, &world.Snapshot{Tick: uint64(depth)})
		}()

		select {
		case err := <-sent:
			t.Fatalf("depth %d: send past capacity returned %v without blocking", depth, err)
		case <-time.After(20 * time.Millisecond):
		}

		if s, ok := c.TryRecv(); !ok || s.Tick != 0 {
			t.Fatalf(`TryRecv = %v, %v`, s, ok)
		}
		select {
		case err := <-sent:
			if err != nil {
				t.Fatal(err)
			}
		case <-time.After(time.Second):
			t.Fatalf("depth %d: producer still blocked after a receive", depth)
		}
	}
}

func TestChannelPreservesOrder(t *testing.T) {
	ctx := context.Background()
	c := NewChannel(DefaultDepth)
	for i := 0; i < DefaultDepth; i++ {
		c.Send(ctx, &world.Snapshot{Tick: uint64(i)})
	}
	for i := 0; i < DefaultDepth; i++ {
		s, ok := c.TryRecv()
		if !ok || s.Tick != uint64(i) {
			t.Fatalf(`receive %d = %v, %v`, i, s, ok)
		}
	}
}

func TestChannelCloseUnblocksProducer(t *testing.T) {
	ctx := context.Background()
	c := NewChannel(1)
	c.Send(ctx, &world.Snapshot{})

	sent := make(chan error, 1)
	go func() {
		sent <- c.Send(ctx, &world.Snapshot{Tick: 1})
	}()
	time.Sleep(10 * time.Millisecond)
	c.Close()
	c.Close()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrChannelClosed) {
			t.Fatalf(`Send = %v, want ErrChannelClosed`, err)
		}
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after Close")
	}

	// Space is free but the consumer is gone.
	c.TryRecv()
	if err := c.Send(ctx, &world.Snapshot{}); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf(`Send after close = %v, want ErrChannelClosed`, err)
	}
}

func TestChannelSendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewChannel(1)
	c.Send(ctx, &world.Snapshot{})
	cancel()
	if err := c.Send(ctx, &world.Snapshot{}); !errors.Is(err, context.Canceled) {
		t.Fatalf(`Send = %v, want context.Canceled`, err)
	}
}

func TestNewChannelMinimumDepth(t *testing.T) {
	if got := NewChannel(0).Cap(); got != 1 {
		t.Fatalf(`Cap() = %d, want 1`, got)
	}
}
