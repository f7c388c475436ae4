package border

import (
	"math"
	"math/rand/v2"
)

// outline returns the shape's perimeter as a polyline with roughly
// uniform segment spacing. The polyline is open for lines and closed
// (last point repeats the first) for rects and circles.
func outline(s Shape, spacing float64) []point {
	if spacing < 2 {
		spacing = 2
	}
	switch s.Kind {
	case KindLine:
		return segmentize(point{s.X, s.Y}, point{s.X2, s.Y2}, spacing, nil)
	case KindCircle:
		return circlePoints(s, spacing)
	default:
		return rectPoints(s, spacing)
	}
}

type point struct{ x, y float64 }

// segmentize appends evenly spaced points from a to b, including both
// endpoints.
func segmentize(a, b point, spacing float64, dst []point) []point {
	dx, dy := b.x-a.x, b.y-a.y
	dist := math.Hypot(dx, dy)
	n := int(dist / spacing)
	if n < 1 {
		n = 1
	}
	if len(dst) == 0 {
		dst = append(dst, a)
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		dst = append(dst, point{a.x + dx*t, a.y + dy*t})
	}
	return dst
}

// rectPoints walks the rectangle perimeter clockwise from the top-left
// corner.
func rectPoints(s Shape, spacing float64) []point {
	corners := []point{
		{s.X, s.Y},
		{s.X + s.W, s.Y},
		{s.X + s.W, s.Y + s.H},
		{s.X, s.Y + s.H},
		{s.X, s.Y},
	}
	var pts []point
	for i := 0; i < len(corners)-1; i++ {
		pts = segmentize(corners[i], corners[i+1], spacing, pts)
	}
	return pts
}

// circlePoints samples the ellipse inscribed in the shape bounds.
func circlePoints(s Shape, spacing float64) []point {
	cx, cy := s.X+s.W/2, s.Y+s.H/2
	rx, ry := s.W/2, s.H/2
	circumference := math.Pi * (3*(rx+ry) - math.Sqrt((3*rx+ry)*(rx+3*ry)))
	n := int(circumference / spacing)
	if n < 8 {
		n = 8
	}
	pts := make([]point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, point{cx + rx*math.Cos(a), cy + ry*math.Sin(a)})
	}
	return pts
}

// roughPath renders the hand-drawn theme: the perimeter jittered by a
// seeded random walk, drawn twice with independent jitter so the
// stroke doubles the way a quick pen pass does.
func roughPath(s Shape, st Style) []PathCmd {
	roughness := lineRoughness
	if s.Role == RoleBorder || s.Role == RoleFrame {
		roughness = borderRoughness
	}
	r := rng(s)
	var cmds []PathCmd
	for pass := 0; pass < 2; pass++ {
		pts := outline(s, 14)
		if len(pts) < 2 {
			return nil
		}
		cmds = append(cmds, jitterPolyline(pts, roughness, r)...)
	}
	return cmds
}

// jitterPolyline emits a polyline as quad segments whose control points
// wander by the given roughness.
func jitterPolyline(pts []point, roughness float64, r *rand.Rand) []PathCmd {
	jit := func(v float64) float64 { return v + (r.Float64()*2-1)*roughness }
	cmds := make([]PathCmd, 0, len(pts))
	cmds = append(cmds, PathCmd{Op: OpMoveTo, X: jit(pts[0].x), Y: jit(pts[0].y)})
	for i := 1; i < len(pts); i++ {
		mid := point{(pts[i-1].x + pts[i].x) / 2, (pts[i-1].y + pts[i].y) / 2}
		cmds = append(cmds, PathCmd{
			Op: OpQuadTo,
			CX: jit(mid.x), CY: jit(mid.y),
			X: jit(pts[i].x), Y: jit(pts[i].y),
		})
	}
	return cmds
}

// waveParams tune the candy and wobbly themes.
type waveParams struct {
	amplitude  float64 // wave height in pixels
	wavelength float64 // distance between crests
	randomness float64 // 0..1 amount of seeded perturbation
	intensity  float64 // amplitude multiplier
	holed      bool    // leave gaps between waves
}

// wavePath renders a sine-like wobble along the perimeter, displacing
// each sample along its normal. Candy uses a short wavelength with high
// randomness; wobbly a long one with low randomness.
func wavePath(s Shape, st Style, wp waveParams) []PathCmd {
	spacing := wp.wavelength / 2
	pts := outline(s, spacing)
	if len(pts) < 2 {
		return nil
	}
	r := rng(s)
	amp := wp.amplitude * wp.intensity
	cmds := []PathCmd{}
	dist := 0.0
	for i := range pts {
		if i > 0 {
			dist += math.Hypot(pts[i].x-pts[i-1].x, pts[i].y-pts[i-1].y)
		}
		nx, ny := normalAt(pts, i)
		phase := dist / wp.wavelength * 2 * math.Pi
		d := math.Sin(phase) * amp
		d += (r.Float64()*2 - 1) * amp * wp.randomness
		p := point{pts[i].x + nx*d, pts[i].y + ny*d}
		if i == 0 {
			cmds = append(cmds, PathCmd{Op: OpMoveTo, X: p.x, Y: p.y})
			continue
		}
		if wp.holed && i%4 == 3 {
			cmds = append(cmds, PathCmd{Op: OpMoveTo, X: p.x, Y: p.y})
			continue
		}
		cmds = append(cmds, PathCmd{Op: OpLineTo, X: p.x, Y: p.y})
	}
	return cmds
}

// normalAt approximates the outward normal at sample i.
func normalAt(pts []point, i int) (nx, ny float64) {
	var a, b point
	switch {
	case i == 0:
		a, b = pts[0], pts[1]
	case i == len(pts)-1:
		a, b = pts[len(pts)-2], pts[len(pts)-1]
	default:
		a, b = pts[i-1], pts[i+1]
	}
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return -dy / l, dx / l
}

// zigzagPath renders a triangular wave along the perimeter.
func zigzagPath(s Shape, st Style) []PathCmd {
	amp := math.Max(3, st.Width*1.5)
	const wavelength = 12.0
	pts := outline(s, wavelength/2)
	if len(pts) < 2 {
		return nil
	}
	cmds := []PathCmd{{Op: OpMoveTo, X: pts[0].x, Y: pts[0].y}}
	for i := 1; i < len(pts); i++ {
		nx, ny := normalAt(pts, i)
		d := amp
		if i%2 == 0 {
			d = -amp
		}
		cmds = append(cmds, PathCmd{Op: OpLineTo, X: pts[i].x + nx*d, Y: pts[i].y + ny*d})
	}
	return cmds
}
