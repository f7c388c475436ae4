package border

import (
	"testing"
)

func rectShape(id string) Shape {
	return Shape{Kind: KindRect, X: 0, Y: 0, W: 200, H: 100, ElementID: id, Role: RoleBorder}
}

func TestGeneratePathDeterministic(t *testing.T) {
	themes := []Theme{ThemeRough, ThemeCandy, ThemeWobbly, ThemeZigzag}
	st := Style{Color: "#000000", Width: 2}
	for _, theme := range themes {
		t.Run(string(theme), func(t *testing.T) {
			a := GeneratePath(rectShape("el-1"), theme, st)
			b := GeneratePath(rectShape("el-1"), theme, st)
			if len(a) == 0 {
				t.Fatalf("GeneratePath(%s) produced no commands", theme)
			}
			if len(a) != len(b) {
				t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("cmd %d differs: %+v vs %+v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestGeneratePathVariesByElement(t *testing.T) {
	st := Style{Color: "#000000", Width: 2}
	a := GeneratePath(rectShape("el-1"), ThemeRough, st)
	b := GeneratePath(rectShape("el-2"), ThemeRough, st)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("no commands generated")
	}
	same := len(a) == len(b)
	if same {
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different elements produced identical jitter")
	}
}

func TestGeneratePathVariesByGeometry(t *testing.T) {
	st := Style{Color: "#000000", Width: 2}
	a := GeneratePath(rectShape("el-1"), ThemeRough, st)
	moved := rectShape("el-1")
	moved.X = 50
	b := GeneratePath(moved, ThemeRough, st)
	if len(a) > 0 && len(b) > 0 && len(a) == len(b) && a[0] == b[0] {
		t.Error("moved shape reused the same first command")
	}
}

func TestGeneratePathNilForPlainThemes(t *testing.T) {
	st := Style{Color: "#000000", Width: 2}
	for _, theme := range []Theme{ThemeDefault, ThemeGlow, ThemeDashed, Theme("no-such-theme"), Theme("")} {
		if got := GeneratePath(rectShape("el"), theme, st); got != nil {
			t.Errorf("GeneratePath(%q) = %d cmds, want nil (plain primitive fallback)", theme, len(got))
		}
	}
}

func TestCandyPathHasGaps(t *testing.T) {
	st := Style{Color: "#000000", Width: 2}
	moves := func(cmds []PathCmd) int {
		n := 0
		for _, c := range cmds {
			if c.Op == OpMoveTo {
				n++
			}
		}
		return n
	}
	candy := GeneratePath(rectShape("el"), ThemeCandy, st)
	if got := moves(candy); got < 2 {
		t.Errorf("candy path has %d MoveTo ops, want gaps (>= 2)", got)
	}
	wobbly := GeneratePath(rectShape("el"), ThemeWobbly, st)
	if got := moves(wobbly); got != 1 {
		t.Errorf("wobbly path has %d MoveTo ops, want a single unbroken trace", got)
	}
}

func TestGeneratePathLineShapes(t *testing.T) {
	s := Shape{Kind: KindLine, X: 0, Y: 0, X2: 300, Y2: 0, ElementID: "l1", Role: RoleLine}
	st := Style{Color: "#000000", Width: 1}
	cmds := GeneratePath(s, ThemeWobbly, st)
	if len(cmds) < 2 {
		t.Fatalf("len(cmds) = %d, want >= 2", len(cmds))
	}
	if cmds[0].Op != OpMoveTo {
		t.Errorf("first op = %v, want MoveTo", cmds[0].Op)
	}
	// The wobble stays within a few pixels of the nominal line.
	for i, c := range cmds {
		if c.Y > 12 || c.Y < -12 {
			t.Errorf("cmd %d strays to y=%v", i, c.Y)
		}
	}
}

func TestStrokeProps(t *testing.T) {
	shape := rectShape("el")
	st := Style{Color: "#ff0000", Width: 4, Fill: "#ffffff"}

	t.Run("plain carries style through", func(t *testing.T) {
		p := StrokeProps(shape, ThemeDefault, st)
		if p.Stroke != "#ff0000" || p.StrokeWidth != 4 || p.Fill != "#ffffff" {
			t.Errorf("got %+v", p)
		}
		if p.Dash != nil || p.ShadowColor != "" {
			t.Errorf("plain theme should not add dash or shadow: %+v", p)
		}
	})

	t.Run("glow sets shadow", func(t *testing.T) {
		p := StrokeProps(shape, ThemeGlow, st)
		if p.ShadowColor != "#ff0000" {
			t.Errorf("ShadowColor = %q, want stroke color", p.ShadowColor)
		}
		if p.ShadowBlur != 10 {
			t.Errorf("ShadowBlur = %v, want 10 (width 4 x 2.5)", p.ShadowBlur)
		}
	})

	t.Run("glow blur floor", func(t *testing.T) {
		thin := Style{Color: "#ff0000", Width: 1}
		p := StrokeProps(shape, ThemeGlow, thin)
		if p.ShadowBlur != 4 {
			t.Errorf("ShadowBlur = %v, want floor of 4", p.ShadowBlur)
		}
	})

	t.Run("dashed sets pattern", func(t *testing.T) {
		p := StrokeProps(shape, ThemeDashed, st)
		if len(p.Dash) != 2 || p.Dash[0] != 12 || p.Dash[1] != 8 {
			t.Errorf("Dash = %v, want [12 8]", p.Dash)
		}
	})

	t.Run("hand-drawn themes round caps", func(t *testing.T) {
		for _, theme := range []Theme{ThemeRough, ThemeCandy, ThemeWobbly} {
			p := StrokeProps(shape, theme, st)
			if !p.RoundCap || !p.RoundJoin {
				t.Errorf("%s: caps = %v joins = %v, want rounded", theme, p.RoundCap, p.RoundJoin)
			}
		}
	})
}

func TestSeedStableAcrossRoles(t *testing.T) {
	a := rectShape("el")
	b := rectShape("el")
	if seed(a) != seed(b) {
		t.Error("identical shapes produced different seeds")
	}
	b.Role = RoleFrame
	if seed(a) == seed(b) {
		t.Error("different roles should produce different seeds")
	}
}

func TestOutlineClosure(t *testing.T) {
	pts := rectPoints(rectShape("el"), 14)
	if len(pts) < 4 {
		t.Fatalf("len(pts) = %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if first != last {
		t.Errorf("rect outline not closed: first %v last %v", first, last)
	}
}
