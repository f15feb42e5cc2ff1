package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"bots/world"

	"github.com/charmbracelet/log"
)

// Recorder receives every snapshot before it is sent to the display.
type Recorder interface {
	Record(s *world.Snapshot) error
}

type Options struct {
	// TickRate is the number of ticks per second. Defaults to 60.
	TickRate int
	// MaxBacklog bounds how far behind the accumulator may fall. Zero keeps
	// it unbounded.
	MaxBacklog time.Duration
	Clock      Clock
	Recorder   Recorder
	// Notify is called on the simulation goroutine after each snapshot is
	// queued.
	Notify func(tick uint64)
	Logger *log.Logger
}

// Scheduler advances an Engine at a fixed rate on its own goroutine and
// publishes one snapshot per tick.
type Scheduler struct {
	engine  Engine
	channel *Channel
	pacer   *Pacer
	clock   Clock
	opts    Options
	logger  *log.Logger

	tick      uint64
	published atomic.Uint64
}

func NewScheduler(engine Engine, channel *Channel, opts Options) *Scheduler {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.Clock == nil {
		opts.Clock = WallClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{
		engine:  engine,
		channel: channel,
		pacer:   NewPacer(TickInterval(opts.TickRate), opts.MaxBacklog),
		clock:   opts.Clock,
		opts:    opts,
		logger:  logger.With("component", "scheduler"),
	}
}

// Published returns the number of snapshots queued so far, including the
// initial one.
func (s *Scheduler) Published() uint64 {
	return s.published.Load()
}

// Handle is a running scheduler.
type Handle struct {
	*Scheduler
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs the scheduler on a new goroutine until ctx is cancelled, the
// engine is exhausted, or publishing fails.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		Scheduler: s,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer cancel()
		h.err = s.run(ctx)
		if h.err != nil {
			s.logger.Error("simulation stopped", "tick", s.tick, "err", h.err)
		} else {
			s.logger.Info("simulation stopped", "tick", s.tick)
		}
	}()
	return h
}

// Stop cancels the scheduler and waits for its goroutine to exit.
func (h *Handle) Stop() error {
	h.cancel()
	return h.Wait()
}

// Wait blocks until the scheduler exits and returns why it failed, if it did.
// Cancellation and engine exhaustion are not failures.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (s *Scheduler) run(ctx context.Context) error {
	s.logger.Info("simulation started", "bots", s.engine.BotCount(), "rate", s.opts.TickRate, "depth", s.channel.Cap())

	// The initial placement is visible before the first tick.
	if err := s.publish(ctx); err != nil {
		return ignoreCancel(err)
	}

	previous := s.clock.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}

		now := s.clock.Now()
		elapsed := now.Sub(previous)
		previous = now
		if d := s.pacer.Step(elapsed); d > 0 {
			if err := s.clock.Sleep(ctx, d); err != nil {
				return ignoreCancel(err)
			}
		}

		if err := s.engine.Step(); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("engine exhausted", "tick", s.tick)
				return nil
			}
			return fmt.Errorf("tick %d: %w", s.tick+1, err)
		}
		s.tick++

		if err := s.publish(ctx); err != nil {
			return ignoreCancel(err)
		}
		if s.tick%uint64(s.opts.TickRate) == 0 {
			s.logger.Debug("tick", "tick", s.tick, "backlog", s.pacer.Accumulated(), "queued", s.channel.Len())
		}
	}
}

func (s *Scheduler) publish(ctx context.Context) error {
	snapshot := Capture(s.engine, s.tick)
	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.Record(snapshot); err != nil {
			return fmt.Errorf("record tick %d: %w", s.tick, err)
		}
	}
	if err := s.channel.Send(ctx, snapshot); err != nil {
		return err
	}
	s.published.Add(1)
	if s.opts.Notify != nil {
		s.opts.Notify(s.tick)
	}
	return nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
