package layout

// RuledLineYs produces the vertical positions of the ruled lines for a
// box, reproducing the editor's "write-ahead" ruled paper: one line
// under every laid-out slot, continuing at the same fixed increment
// down to within one line height of the box's bottom edge regardless of
// how much text there is. Lines never extend past the bottom edge, so
// overflowing content clips exactly like it does on the live canvas.
func RuledLineYs(lineHeight, boxHeight, padding float64) []float64 {
	if lineHeight <= 0 || boxHeight-padding <= 0 {
		return nil
	}
	var ys []float64
	limit := boxHeight - padding
	for y := padding + lineHeight; y <= limit+eps; y += lineHeight {
		ys = append(ys, y)
	}
	return ys
}

// eps absorbs the floating point drift of repeated line increments.
const eps = 1e-6
