package background

import (
	"github.com/gogpu/gg"
)

// RenderTile rasterizes one pattern cell. The compositor turns the
// cell into an image pattern and fills the canvas with it. Unknown
// pattern ids render as a plain cell in the background color, so a
// stale pattern reference degrades to a solid fill instead of a hole.
func RenderTile(t *Tile) *gg.Context {
	size := int(t.Size)
	if size < 4 {
		size = 4
	}
	dc := gg.NewContext(size, size)
	dc.ClearWithColor(gg.Hex(t.Background))
	dc.SetColor(gg.Hex(t.Foreground).Color())
	dc.SetLineWidth(t.StrokeWidth)
	s := float64(size)

	switch t.Pattern {
	case "dots":
		r := max(t.StrokeWidth, s/8)
		dc.DrawCircle(s/2, s/2, r)
		dc.Fill()
	case "grid":
		dc.DrawLine(s/2, 0, s/2, s)
		dc.Stroke()
		dc.DrawLine(0, s/2, s, s/2)
		dc.Stroke()
	case "diagonal":
		// Two passes so the stroke tiles seamlessly across the cell edge.
		dc.DrawLine(-s/2, s, s, -s/2)
		dc.Stroke()
		dc.DrawLine(0, s*1.5, s*1.5, 0)
		dc.Stroke()
	case "checker":
		dc.DrawRectangle(0, 0, s/2, s/2)
		dc.Fill()
		dc.DrawRectangle(s/2, s/2, s/2, s/2)
		dc.Fill()
	}
	return dc
}
