package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"bots/world"
)

type fakeWorld struct {
	mu      sync.Mutex
	budget  int
	bots    []string
	poses   []world.Pose
	placed  int
	steps   int
	limit   int
	stepErr error
	addErr  map[string]error
}

func (f *fakeWorld) AddBot(path string) error {
	if err := f.addErr[path]; err != nil {
		return err
	}
	f.bots = append(f.bots, path)
	return nil
}

func (f *fakeWorld) Place() error {
	f.placed++
	f.poses = make([]world.Pose, len(f.bots))
	for i := range f.poses {
		f.poses[i] = world.Pose{X: int32(i * 100), Y: int32(-i * 100), Heading: uint32(i)}
	}
	return nil
}

func (f *fakeWorld) Step() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limit > 0 && f.steps == f.limit {
		if f.stepErr != nil {
			return f.stepErr
		}
		return io.EOF
	}
	f.steps++
	for i := range f.poses {
		f.poses[i].X++
	}
	return nil
}

func (f *fakeWorld) Steps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.steps
}

func (f *fakeWorld) BotCount() int {
	return len(f.poses)
}

func (f *fakeWorld) Pose(i int) world.Pose {
	return f.poses[i]
}

func fakeFactory(f *fakeWorld) Factory {
	return func(cfg EngineConfig) (World, error) {
		f.budget = cfg.Budget
		return f, nil
	}
}

func TestBoot(t *testing.T) {
	f := &fakeWorld{}
	w, err := Boot(fakeFactory(f), EngineConfig{Budget: 1}, []string{"a.bot", "b.bot"})
	if err != nil {
		t.Fatal(err)
	}
	if w.BotCount() != 2 || f.placed != 1 || f.budget != 1 {
		t.Fatalf(`bots = %d, placed = %d, budget = %d`, w.BotCount(), f.placed, f.budget)
	}
}

func TestBootErrors(t *testing.T) {
	missing := errors.New("no such program")
	tests := []struct {
		name     string
		factory  Factory
		budget   int
		programs []string
		kind     world.StartupKind
		path     string
	}{
		{"no programs", fakeFactory(&fakeWorld{}), 1, nil, world.KindConfig, ""},
		{"zero budget", fakeFactory(&fakeWorld{}), 0, []string{"a.bot"}, world.KindConfig, ""},
		{"factory fails", func(EngineConfig) (World, error) {
			return nil, errors.New("bad config")
		}, 1, []string{"a.bot"}, world.KindEngine, ""},
		{"program fails", fakeFactory(&fakeWorld{addErr: map[string]error{"b.bot": missing}}), 1, []string{"a.bot", "b.bot"}, world.KindProgram, "b.bot"},
		{"typed error kept", fakeFactory(&fakeWorld{addErr: map[string]error{"a.bot": world.NewStartupError(world.KindConfig, "x", missing)}}), 1, []string{"a.bot"}, world.KindConfig, "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Boot(tc.factory, EngineConfig{Budget: tc.budget}, tc.programs)
			var startup *world.StartupError
			if !errors.As(err, &startup) {
				t.Fatalf(`Boot() = %v, want *world.StartupError`, err)
			}
			if startup.Kind != tc.kind || startup.Path != tc.path {
				t.Fatalf(`Boot() = %v (kind %v, path %q), want kind %v path %q`, err, startup.Kind, startup.Path, tc.kind, tc.path)
			}
		})
	}
}

func bootFake(t *testing.T, f *fakeWorld, bots int) World {
	t.Helper()
	programs := make([]string, bots)
	for i := range programs {
		programs[i] = fmt.Sprintf("bot%d.bot", i)
	}
	w, err := Boot(fakeFactory(f), EngineConfig{Budget: 1}, programs)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestSchedulerPublishesInitialSnapshot(t *testing.T) {
	f := &fakeWorld{}
	w := bootFake(t, f, 2)
	c := NewChannel(1)
	clock := NewManualClock(time.Unix(0, 0))

	h := NewScheduler(w, c, Options{Clock: clock}).Start(context.Background())
	defer h.Stop()

	var first *world.Snapshot
	deadline := time.After(time.Second)
	for first == nil {
		select {
		case <-deadline:
			t.Fatal("no initial snapshot")
		default:
		}
		first, _ = c.TryRecv()
		time.Sleep(time.Millisecond)
	}
	if first.Tick != 0 || first.Len() != 2 || first.Poses[1].X != 100 {
		t.Fatalf(`initial snapshot = %+v`, first)
	}
}

func TestSchedulerRunsUntilEngineExhausted(t *testing.T) {
	f := &fakeWorld{limit: 30}
	w := bootFake(t, f, 3)
	c := NewChannel(64)
	clock := NewManualClock(time.Unix(0, 0))

	var notified []uint64
	h := NewScheduler(w, c, Options{
		TickRate: 60,
		Clock:    clock,
		Notify:   func(tick uint64) { notified = append(notified, tick) },
	}).Start(context.Background())
	if err := h.Wait(); err != nil {
		t.Fatal(err)
	}

	if f.Steps() != 30 || h.Published() != 31 || len(notified) != 31 {
		t.Fatalf(`steps = %d, published = %d, notified = %d`, f.Steps(), h.Published(), len(notified))
	}
	for i := 0; i <= 30; i++ {
		s, ok := c.TryRecv()
		if !ok || s.Tick != uint64(i) || s.Len() != 3 || s.Poses[0].X != int32(i) {
			t.Fatalf(`snapshot %d = %+v, %v`, i, s, ok)
		}
	}
	// Every iteration sleeps one interval, including the last one that
	// found the engine exhausted.
	if got, want := clock.Slept(), 31*TickInterval(60); got != want {
		t.Fatalf(`slept %v, want %v`, got, want)
	}
}

func TestSchedulerEngineError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeWorld{limit: 2, stepErr: boom}
	w := bootFake(t, f, 1)
	h := NewScheduler(w, NewChannel(8), Options{Clock: NewManualClock(time.Unix(0, 0))}).Start(context.Background())
	if err := h.Wait(); !errors.Is(err, boom) {
		t.Fatalf(`Wait() = %v, want %v`, err, boom)
	}
}

func TestSchedulerStopsWhenConsumerCloses(t *testing.T) {
	w := bootFake(t, &fakeWorld{}, 1)
	c := NewChannel(2)
	h := NewScheduler(w, c, Options{Clock: NewManualClock(time.Unix(0, 0))}).Start(context.Background())

	c.Close()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler still running after consumer closed")
	}
	if err := h.Wait(); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf(`Wait() = %v, want ErrChannelClosed`, err)
	}
}

func TestSchedulerStopWhileBlocked(t *testing.T) {
	f := &fakeWorld{}
	w := bootFake(t, f, 1)
	c := NewChannel(2)
	h := NewScheduler(w, c, Options{Clock: NewManualClock(time.Unix(0, 0))}).Start(context.Background())

	// Initial snapshot plus one tick fill the channel; the third send blocks.
	deadline := time.Now().Add(time.Second)
	for c.Len() < c.Cap() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	if got := h.Published(); got != 2 {
		t.Fatalf(`published = %d, want 2 while blocked`, got)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- h.Stop() }()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf(`Stop() = %v`, err)
		}
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSchedulerWallClock(t *testing.T) {
	f := &fakeWorld{}
	w := bootFake(t, f, 1)
	c := NewChannel(128)
	h := NewScheduler(w, c, Options{TickRate: 100}).Start(context.Background())
	time.Sleep(105 * time.Millisecond)
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	// Roughly ten ticks in 100ms; allow generous slack for loaded machines.
	if steps := f.Steps(); steps < 3 || steps > 13 {
		t.Fatalf(`steps after 100ms at 100Hz = %d`, steps)
	}
}
