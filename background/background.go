// Package background resolves a page background into concrete fill
// instructions: a solid color, a repeating procedural tile, or a fitted
// raster image. The resolution is pure geometry; the compositor
// executes the returned instructions against the canvas, and the
// asynchronous image fetch happens elsewhere. A background whose image
// is still loading renders as transparent, and one whose image failed
// renders as solid white, so a bad asset can never break a page.
package background

import (
	"fmt"

	"github.com/gogpu/pageproof/model"
)

// Kind discriminates the resolved fill.
type Kind uint8

// Fill kinds.
const (
	KindNone Kind = iota
	KindColor
	KindPattern
	KindImage
)

// Fill is the resolved instruction set for painting a page background.
type Fill struct {
	Kind    Kind
	Color   string
	Opacity float64
	Tile    *Tile
	Image   *ImageFill
}

// Tile describes one procedural pattern cell.
type Tile struct {
	Pattern     string
	Foreground  string
	Background  string
	Size        float64
	StrokeWidth float64
}

// ImageFill describes how a background image is placed.
type ImageFill struct {
	Src        string
	Repeat     bool
	Mirror     bool
	UnderColor string // painted behind the image when non-empty
	Opacity    float64
}

// Placement is the destination rectangle of a placed image (or of one
// tile when repeating).
type Placement struct {
	X, Y, W, H float64
}

// MirrorX reflects the placement across the canvas's vertical center
// line. Mirroring re-anchors the X offset; applying it twice yields
// the original placement.
func (p Placement) MirrorX(canvasW float64) Placement {
	p.X = canvasW - p.X - p.W
	return p
}

// PaletteFunc substitutes symbolic palette color references.
type PaletteFunc func(value string) string

// Resolve converts a background plus transform into fill instructions
// for a canvas of the given size. The palette function may be nil.
func Resolve(bg *model.Background, tr *model.BackgroundTransform, canvasW, canvasH float64, palette PaletteFunc) (Fill, error) {
	if bg == nil {
		return Fill{Kind: KindNone}, nil
	}
	if palette == nil {
		palette = func(v string) string { return v }
	}
	switch bg.Type {
	case model.BackgroundColor:
		c := bg.Color
		return Fill{Kind: KindColor, Color: palette(c.Value), Opacity: c.Opacity}, nil
	case model.BackgroundPattern:
		p := bg.Pattern
		size := p.Size
		if size <= 0 {
			size = 24
		}
		sw := p.StrokeWidth
		if sw <= 0 {
			sw = 1.5
		}
		return Fill{
			Kind:    KindPattern,
			Opacity: p.Opacity,
			Tile: &Tile{
				Pattern:     p.Value,
				Foreground:  palette(p.ForegroundColor),
				Background:  palette(p.BackgroundColor),
				Size:        size,
				StrokeWidth: sw,
			},
		}, nil
	case model.BackgroundImage:
		img := bg.Image
		under := ""
		if img.ColorEnabled {
			under = palette(img.Color)
		}
		f := Fill{
			Kind:    KindImage,
			Opacity: img.Opacity,
			Image: &ImageFill{
				Src:        img.Src,
				Repeat:     img.Repeat,
				Mirror:     tr != nil && tr.Mirror,
				UnderColor: under,
				Opacity:    img.Opacity,
			},
		}
		return f, nil
	default:
		return Fill{}, fmt.Errorf("background: unknown type %q", bg.Type)
	}
}

// PlaceOptions are the inputs of the placement math.
type PlaceOptions struct {
	Mode                model.ImageSizeMode
	Anchor              model.Anchor
	ContainWidthPercent float64 // 0 means 100
	Transform           model.BackgroundTransform
}

// Place computes the destination rectangle for a background image of
// intrinsic size imgW×imgH on a canvasW×canvasH canvas.
//
// The composition order is fixed: the size-mode scale first, multiplied
// by the transform scale, then the offset ratios (as fractions of the
// canvas dimensions), and the mirror re-anchoring last. Mirror and
// repeat are orthogonal and compose for every mode.
func Place(imgW, imgH, canvasW, canvasH float64, o PlaceOptions) Placement {
	if imgW <= 0 || imgH <= 0 {
		return Placement{W: canvasW, H: canvasH}
	}
	var p Placement
	switch o.Mode {
	case model.SizeStretch:
		p = Placement{W: canvasW, H: canvasH}
	case model.SizeContain:
		scale := min(canvasW/imgW, canvasH/imgH)
		pct := o.ContainWidthPercent
		if pct <= 0 {
			pct = 100
		}
		scale *= pct / 100
		p = anchorPlacement(imgW*scale, imgH*scale, canvasW, canvasH, o.Anchor)
	default: // cover
		scale := max(canvasW/imgW, canvasH/imgH)
		w, h := imgW*scale, imgH*scale
		p = Placement{X: (canvasW - w) / 2, Y: (canvasH - h) / 2, W: w, H: h}
	}

	if s := o.Transform.Scale; s > 0 && s != 1 {
		// Scale about the placement center so the anchor point drifts
		// the way the editor's zoom control does.
		cx, cy := p.X+p.W/2, p.Y+p.H/2
		p.W *= s
		p.H *= s
		p.X = cx - p.W/2
		p.Y = cy - p.H/2
	}
	p.X += o.Transform.OffsetRatioX * canvasW
	p.Y += o.Transform.OffsetRatioY * canvasH
	if o.Transform.Mirror {
		p = p.MirrorX(canvasW)
	}
	return p
}

// anchorPlacement positions a w×h rectangle at one of the five anchors.
func anchorPlacement(w, h, canvasW, canvasH float64, a model.Anchor) Placement {
	p := Placement{W: w, H: h}
	switch a {
	case model.AnchorTopLeft:
		// origin
	case model.AnchorTopRight:
		p.X = canvasW - w
	case model.AnchorBottomLeft:
		p.Y = canvasH - h
	case model.AnchorBottomRight:
		p.X = canvasW - w
		p.Y = canvasH - h
	default: // center
		p.X = (canvasW - w) / 2
		p.Y = (canvasH - h) / 2
	}
	return p
}
