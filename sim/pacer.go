package sim

import "time"

// Pacer is a fixed-timestep accumulator. Every loop iteration credits one
// target interval and debits the wall-clock time the iteration actually took;
// a positive balance is slept off before the next tick.
//
// Only one tick runs per iteration, so a negative balance after a stall makes
// the loop skip sleeps rather than run extra ticks. MaxBacklog bounds how
// negative the balance may get; zero leaves it unbounded.
type Pacer struct {
	Target     time.Duration
	MaxBacklog time.Duration

	accumulated time.Duration
}

func NewPacer(target, maxBacklog time.Duration) *Pacer {
	return &Pacer{
		Target:     target,
		MaxBacklog: maxBacklog,
	}
}

// TickInterval returns the target duration of one tick at rate ticks per second.
func TickInterval(rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(rate)
}

// Step folds elapsed into the accumulator and returns how long to sleep
// before the next tick.
func (p *Pacer) Step(elapsed time.Duration) time.Duration {
	p.accumulated += p.Target - elapsed
	if p.MaxBacklog > 0 && p.accumulated < -p.MaxBacklog {
		p.accumulated = -p.MaxBacklog
	}
	if p.accumulated > 0 {
		return p.accumulated
	}
	return 0
}

func (p *Pacer) Accumulated() time.Duration {
	return p.accumulated
}

func (p *Pacer) Reset() {
	p.accumulated = 0
}
