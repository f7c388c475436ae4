// Package border generates the themed strokes used for element
// borders, ruled lines, and image frames. A theme turns a geometric
// shape into path data plus stroke properties; path generation is
// deterministic for a given element and geometry, because the
// compositor rebuilds the whole page from scratch on every pass and
// hand-drawn jitter must not shimmer between passes.
package border

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"
)

// Kind is the geometric shape class a theme renders.
type Kind uint8

// Shape kinds.
const (
	KindRect Kind = iota
	KindCircle
	KindLine
)

// Role distinguishes the stroke's purpose; it feeds the determinism
// seed and selects per-role roughness.
type Role string

// Stroke roles.
const (
	RoleBorder Role = "border"
	RoleLine   Role = "line"
	RoleFrame  Role = "frame"
)

// Shape describes the geometry handed to a theme.
type Shape struct {
	Kind      Kind
	X, Y      float64 // rect/circle bounds origin; line start
	W, H      float64 // rect/circle bounds; unused for lines
	X2, Y2    float64 // line end
	ElementID string
	Role      Role
}

// Theme is a named stroke-rendering style.
type Theme string

// Border themes.
const (
	ThemeDefault Theme = "default"
	ThemeRough   Theme = "rough"
	ThemeGlow    Theme = "glow"
	ThemeCandy   Theme = "candy"
	ThemeWobbly  Theme = "wobbly"
	ThemeZigzag  Theme = "zigzag"
	ThemeDashed  Theme = "dashed"
)

// Style carries the resolved stroke inputs.
type Style struct {
	Color string
	Width float64
	Fill  string
}

// Op is a path command opcode.
type Op uint8

// Path opcodes.
const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpClose
)

// PathCmd is one path command. CX, CY are the control point of a quad.
type PathCmd struct {
	Op     Op
	X, Y   float64
	CX, CY float64
}

// Props are the stroke properties accompanying a generated path (or a
// plain primitive fallback). Glow is expressed as a shadow color and
// blur radius that the compositor emulates with layered strokes.
type Props struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	RoundCap    bool
	RoundJoin   bool
	Dash        []float64
	ShadowColor string
	ShadowBlur  float64
}

// Roughness constants. Borders are intentionally rougher than ruled
// lines so the hand-drawn look reads at page scale.
const (
	borderRoughness = 2.5
	lineRoughness   = 1.2
)

// GeneratePath produces path data for a shape under a theme. A nil
// return means the theme draws nothing special and the caller must
// fall back to the plain primitive with the same stroke properties, so
// rendering never silently drops an element.
func GeneratePath(s Shape, theme Theme, st Style) []PathCmd {
	switch theme {
	case ThemeRough:
		return roughPath(s, st)
	case ThemeCandy:
		return wavePath(s, st, waveParams{amplitude: 2.2, wavelength: 9, randomness: 0.8, intensity: 1.4, holed: true})
	case ThemeWobbly:
		return wavePath(s, st, waveParams{amplitude: 3.5, wavelength: 26, randomness: 0.4, intensity: 1.0})
	case ThemeZigzag:
		return zigzagPath(s, st)
	default:
		// default, glow, dashed, and unknown themes stroke the plain
		// primitive; their character lives in Props.
		return nil
	}
}

// StrokeProps returns the stroke properties for a shape under a theme.
func StrokeProps(s Shape, theme Theme, st Style) Props {
	p := Props{
		Stroke:      st.Color,
		StrokeWidth: st.Width,
		Fill:        st.Fill,
	}
	switch theme {
	case ThemeRough, ThemeWobbly, ThemeCandy:
		p.RoundCap = true
		p.RoundJoin = true
	case ThemeGlow:
		p.ShadowColor = st.Color
		p.ShadowBlur = math.Max(4, st.Width*2.5)
	case ThemeDashed:
		p.Dash = []float64{st.Width * 3, st.Width * 2}
	case ThemeZigzag:
		p.RoundJoin = true
	}
	return p
}

// seed hashes the element id, role, and rounded geometry so identical
// inputs always produce the identical path.
func seed(s Shape) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.ElementID))
	h.Write([]byte{byte(s.Kind)})
	h.Write([]byte(s.Role))
	for _, v := range []float64{s.X, s.Y, s.W, s.H, s.X2, s.Y2} {
		h.Write([]byte(strconv.FormatInt(int64(math.Round(v*10)), 36)))
	}
	return h.Sum64()
}

// rng returns the deterministic random source for a shape.
func rng(s Shape) *rand.Rand {
	sd := seed(s)
	return rand.New(rand.NewPCG(sd, sd^0x9e3779b97f4a7c15))
}
