package rig

import (
	"math"
	"testing"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
)

func testDriver(t *testing.T, kind physics.Kind, mode physics.MapMode) *Driver {
	t.Helper()
	p := physics.DefaultProps()
	p.Length = 100
	p.Frequency = 1.5
	p.AngleDamping = 0.2
	p.LengthDamping = 0.2
	d, err := NewDriver("out", "node", kind, mode, p)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewDriverUnknownKind(t *testing.T) {
	if _, err := NewDriver("p", "n", physics.Kind(42), physics.XY, physics.DefaultProps()); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestSubsteps(t *testing.T) {
	d := &Driver{MaxStep: 1.0 / 60.0, MaxSubsteps: 8}
	tests := []struct {
		dt   float64
		want int
	}{
		{1.0 / 60.0, 1},
		{1.0 / 120.0, 1},
		{1.0 / 30.0, 2},
		{0.05, 3},
		{10, 8},
	}
	for _, tt := range tests {
		n, h := d.substeps(tt.dt)
		if n != tt.want {
			t.Errorf("dt=%v: got %d substeps, want %d", tt.dt, n, tt.want)
		}
		if h > d.MaxStep*(1+1e-9) {
			t.Errorf("dt=%v: step %v exceeds max %v", tt.dt, h, d.MaxStep)
		}
	}

	var zero Driver
	if n, _ := zero.substeps(1.0 / 60.0); n != 1 {
		t.Errorf("zero driver should fall back to defaults, got %d substeps", n)
	}
}

// A long frame is the same as several short ones with the anchor
// interpolated in between.
func TestLongFrameMatchesSubsteps(t *testing.T) {
	for _, kind := range []physics.Kind{physics.KindRigidPendulum, physics.KindSpringPendulum} {
		env := physics.DefaultEnv()
		long := testDriver(t, kind, physics.XY)
		short := testDriver(t, kind, physics.XY)

		start := dynamo.Vec2{0, 0}
		long.Tick(start, env, 1.0/60.0)
		short.Tick(start, env, 1.0/60.0)

		end := dynamo.Vec2{60, -20}
		long.Tick(end, env, 4.0/60.0)
		for i := 1; i <= 4; i++ {
			a := end
			if i < 4 {
				a = start.Add(end.Sub(start).Mul(float64(i) / 4))
			}
			short.Tick(a, env, 1.0/60.0)
		}

		if !near(long.Output, short.Output, 1e-9) {
			t.Errorf("%v: long frame %v != substepped %v", kind, long.Output, short.Output)
		}
	}
}

func TestHugeFrameStaysFinite(t *testing.T) {
	d := testDriver(t, physics.KindSpringPendulum, physics.AngleLength)
	env := physics.DefaultEnv()
	d.Tick(dynamo.Vec2{}, env, 1.0/60.0)
	out := d.Tick(dynamo.Vec2{500, 500}, env, 30)
	if !dynamo.Finite(out) {
		t.Fatalf("output not finite: %v", out)
	}
	if d.Anchor != (dynamo.Vec2{500, 500}) {
		t.Errorf("anchor not recorded: %v", d.Anchor)
	}
}

func TestDriverHoldsOnBadInput(t *testing.T) {
	d := testDriver(t, physics.KindRigidPendulum, physics.AngleLength)
	env := physics.DefaultEnv()
	d.Tick(dynamo.Vec2{}, env, 1.0/60.0)
	d.Tick(dynamo.Vec2{30, 0}, env, 1.0/60.0)
	held := d.Output
	anchor := d.Anchor

	inputs := []struct {
		anchor dynamo.Vec2
		dt     float64
	}{
		{dynamo.Vec2{math.NaN(), 0}, 1.0 / 60.0},
		{dynamo.Vec2{0, math.Inf(-1)}, 1.0 / 60.0},
		{dynamo.Vec2{10, 10}, 0},
		{dynamo.Vec2{10, 10}, -1},
		{dynamo.Vec2{10, 10}, math.NaN()},
		// finite, but the pivot velocity overflows and the model refuses the step
		{dynamo.Vec2{1e308, -1e308}, 1.0 / 60.0},
	}
	if d.Held() {
		t.Fatal("good tick reported held")
	}
	for _, in := range inputs {
		if out := d.Tick(in.anchor, env, in.dt); out != held {
			t.Errorf("anchor=%v dt=%v: output changed to %v", in.anchor, in.dt, out)
		}
		if !d.Held() {
			t.Errorf("anchor=%v dt=%v: not reported held", in.anchor, in.dt)
		}
		if d.Anchor != anchor {
			t.Errorf("anchor=%v dt=%v: anchor history changed", in.anchor, in.dt)
		}
	}
}

func TestDriverReset(t *testing.T) {
	d := testDriver(t, physics.KindSpringPendulum, physics.XY)
	env := physics.DefaultEnv()
	d.Tick(dynamo.Vec2{}, env, 1.0/60.0)
	d.Tick(dynamo.Vec2{50, 0}, env, 1.0/60.0)
	d.Reset()

	if d.Output != (dynamo.Vec2{}) || d.Anchor != (dynamo.Vec2{}) {
		t.Errorf("reset left output=%v anchor=%v", d.Output, d.Anchor)
	}
	// first tick after reset has no history to interpolate from
	out := d.Tick(dynamo.Vec2{200, 0}, env, 1.0/60.0)
	if !near(out, dynamo.Vec2{}, 1e-9) {
		t.Errorf("expected rest after reset, got %v", out)
	}
}
