package replay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"bots/sim"
	"bots/world"
)

func frames() []*world.Snapshot {
	return []*world.Snapshot{
		{Tick: 0, Poses: []world.Pose{{X: 2500, Heading: 512}, {X: -2500}}},
		{Tick: 1, Poses: []world.Pose{{X: 2490, Heading: 512, Turret: 8}, {X: -2490, Turret: 1016}}},
		{Tick: 2, Poses: []world.Pose{{X: 2480, Y: -3, Heading: 516}, {X: -2480, Y: 3}}},
	}
}

func record(t *testing.T, w io.Writer, snapshots []*world.Snapshot) {
	t.Helper()
	r, err := NewRecorder(w)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range snapshots {
		if err := r.Record(s); err != nil {
			t.Fatal(err)
		}
	}
	if r.Count() != uint64(len(snapshots)) {
		t.Fatalf(`Count() = %d`, r.Count())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPlayerSteps(t *testing.T) {
	var buf bytes.Buffer
	want := frames()
	record(t, &buf, want)

	p, err := NewPlayer(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range want {
		if i > 0 {
			if err := p.Step(); err != nil {
				t.Fatalf(`Step() %d = %v`, i, err)
			}
		}
		if !p.Current().Equal(s) {
			t.Fatalf(`frame %d = %+v, want %+v`, i, p.Current(), s)
		}
		if p.BotCount() != 2 || p.Pose(1) != s.Poses[1] {
			t.Fatalf(`frame %d engine view = %d bots, pose %+v`, i, p.BotCount(), p.Pose(1))
		}
	}
	if err := p.Step(); !errors.Is(err, io.EOF) {
		t.Fatalf(`Step() after last frame = %v, want io.EOF`, err)
	}
}

func TestPlayerErrors(t *testing.T) {
	var valid bytes.Buffer
	record(t, &valid, frames())
	truncated := valid.Bytes()[:valid.Len()-2]

	var empty bytes.Buffer
	record(t, &empty, nil)

	if _, err := NewPlayer(bytes.NewReader([]byte("not a recording at all"))); err == nil {
		t.Error("bad magic accepted")
	}
	if _, err := NewPlayer(&empty); err == nil {
		t.Error("empty recording accepted")
	}

	p, err := NewPlayer(bytes.NewReader(truncated))
	if err != nil {
		t.Fatal(err)
	}
	p.Step()
	if err := p.Step(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf(`Step() on truncated frame = %v, want a non-EOF error`, err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.rec"))
	var startup *world.StartupError
	if !errors.As(err, &startup) || startup.Kind != world.KindEngine {
		t.Fatalf(`Open() = %v, want engine startup error`, err)
	}
}

func TestReplayThroughScheduler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.rec")
	rec, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	want := frames()
	for _, s := range want {
		rec.Record(s)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	c := sim.NewChannel(sim.DefaultDepth)
	h := sim.NewScheduler(p, c, sim.Options{Clock: sim.NewManualClock(time.Unix(0, 0))}).Start(context.Background())
	if err := h.Wait(); err != nil {
		t.Fatal(err)
	}

	for i, s := range want {
		got, ok := c.TryRecv()
		if !ok || !got.Equal(s) {
			t.Fatalf(`replayed frame %d = %+v, want %+v`, i, got, s)
		}
	}
	if _, ok := c.TryRecv(); ok {
		t.Fatal("replay produced extra frames")
	}
}
