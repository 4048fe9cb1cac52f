package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/dangle/internal/dynamo"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(100, 100)

	if c.Grid[0][0] != blank|0x1|0x80 {
		t.Errorf("cell = %U", c.Grid[0][0])
	}
	if !c.IsSet(1, 3) || c.IsSet(2, 0) || c.IsSet(-1, 0) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear left dots")
	}
	if w, h := c.Dots(); w != 6 || h != 8 {
		t.Errorf("dots = %d x %d", w, h)
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Fatalf("diagonal dot %d missing", i)
		}
	}
	if got := strings.Count(c.String(), "\n"); got != 5 {
		t.Errorf("expected 5 rows, got %d", got)
	}
}

func TestViewportProject(t *testing.T) {
	v := Viewport{Min: dynamo.Vec2{0, 0}, Max: dynamo.Vec2{100, 50}}

	if x, y := v.Project(dynamo.Vec2{0, 0}, 101, 51); x != 0 || y != 0 {
		t.Errorf("min corner -> %d,%d", x, y)
	}
	if x, y := v.Project(dynamo.Vec2{100, 50}, 101, 51); x != 100 || y != 50 {
		t.Errorf("max corner -> %d,%d", x, y)
	}
	// a wide canvas centres the scene horizontally
	if x, _ := v.Project(dynamo.Vec2{0, 0}, 201, 51); x != 50 {
		t.Errorf("expected centred x=50, got %d", x)
	}
}

func TestViewportGrow(t *testing.T) {
	v := Viewport{Min: dynamo.Vec2{0, 0}, Max: dynamo.Vec2{0, 0}}
	v.Grow(dynamo.Vec2{10, -5}, 2)
	if v.Min != (dynamo.Vec2{0, -7}) || v.Max != (dynamo.Vec2{12, 0}) {
		t.Errorf("viewport = %+v", v)
	}
	before := v
	v.Grow(dynamo.Vec2{0, math.Inf(1)}, 1)
	if v != before {
		t.Error("non-finite point changed the viewport")
	}
}

func TestOffsetBar(t *testing.T) {
	if got := OffsetBar(1, 11); got != "[-----|-----]" {
		t.Errorf("identity bar = %q", got)
	}
	if got := OffsetBar(100, 11); !strings.HasSuffix(got, "|]") {
		t.Errorf("large offset bar = %q", got)
	}
	if got := OffsetBar(0, 11); !strings.HasPrefix(got, "[|") {
		t.Errorf("zero offset bar = %q", got)
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(ThemeCyberpunk.Name)
	seen := map[string]bool{}
	for range Themes {
		NextTheme()
		seen[CurrentTheme.Name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("cycled through %d of %d themes", len(seen), len(Themes))
	}
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to default")
	}
}
