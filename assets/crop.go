package assets

import (
	"image"

	"github.com/disintegration/imaging"
)

// CropRect crops a persisted crop rectangle (source-image pixels) out
// of an image. Out-of-range rectangles are clamped; a degenerate
// result returns the original image.
func CropRect(img image.Image, x, y, w, h float64) image.Image {
	b := img.Bounds()
	r := image.Rect(int(x), int(y), int(x+w), int(y+h)).Intersect(b)
	if r.Empty() {
		return img
	}
	return imaging.Crop(img, r)
}

// CropToAspect derives a crop from a named anchor when no crop
// rectangle was persisted: the largest sub-rectangle of the source
// matching the target aspect ratio, taken at the anchor.
func CropToAspect(img image.Image, targetW, targetH float64, anchor string) image.Image {
	if targetW <= 0 || targetH <= 0 {
		return img
	}
	b := img.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	if srcW <= 0 || srcH <= 0 {
		return img
	}
	target := targetW / targetH
	cropW, cropH := srcW, srcH
	if srcW/srcH > target {
		cropW = srcH * target
	} else {
		cropH = srcW / target
	}
	return imaging.CropAnchor(img, int(cropW), int(cropH), anchorOf(anchor))
}

// Mirror flips an image horizontally.
func Mirror(img image.Image) image.Image {
	return imaging.FlipH(img)
}

// anchorOf maps the editor's anchor names onto imaging anchors.
func anchorOf(name string) imaging.Anchor {
	switch name {
	case "top-left":
		return imaging.TopLeft
	case "top", "top-center":
		return imaging.Top
	case "top-right":
		return imaging.TopRight
	case "left", "center-left":
		return imaging.Left
	case "right", "center-right":
		return imaging.Right
	case "bottom-left":
		return imaging.BottomLeft
	case "bottom", "bottom-center":
		return imaging.Bottom
	case "bottom-right":
		return imaging.BottomRight
	default:
		return imaging.Center
	}
}
