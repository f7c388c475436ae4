package model

import (
	"encoding/json"
	"fmt"
)

// BackgroundType discriminates the background union.
type BackgroundType string

// Background type tags.
const (
	BackgroundColor   BackgroundType = "color"
	BackgroundPattern BackgroundType = "pattern"
	BackgroundImage   BackgroundType = "image"
)

// ImageSizeMode controls how a background image is scaled to the canvas.
type ImageSizeMode string

// Image size modes.
const (
	SizeCover   ImageSizeMode = "cover"
	SizeContain ImageSizeMode = "contain"
	SizeStretch ImageSizeMode = "stretch"
)

// Anchor names one of the five placement anchors for a contained
// background image: the four corners plus the center.
type Anchor string

// Placement anchors.
const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
)

// Background is a closed union: exactly one of Color, Pattern, Image is
// non-nil, selected by Type.
type Background struct {
	Type    BackgroundType
	Color   *ColorBackground
	Pattern *PatternBackground
	Image   *ImageBackground
}

// ColorBackground is a solid color fill.
type ColorBackground struct {
	Value   string
	Opacity float64
}

// PatternBackground is a repeating procedural tile.
type PatternBackground struct {
	Value           string // pattern id: dots, grid, diagonal, checker
	ForegroundColor string
	BackgroundColor string
	Size            float64
	StrokeWidth     float64
	Opacity         float64
}

// ImageBackground is a fitted or tiled raster image.
type ImageBackground struct {
	Src                 string
	Size                ImageSizeMode
	Position            Anchor
	ContainWidthPercent float64
	Repeat              bool
	ColorEnabled        bool // paint Color behind the image
	Color               string
	Opacity             float64
}

// BackgroundTransform applies uniformly on top of any background type:
// extra scale, offsets as ratios of the canvas dimensions, and a
// horizontal mirror.
type BackgroundTransform struct {
	Scale        float64 `json:"scale,omitempty"`
	OffsetRatioX float64 `json:"offsetRatioX,omitempty"`
	OffsetRatioY float64 `json:"offsetRatioY,omitempty"`
	Mirror       bool    `json:"mirror,omitempty"`
}

// backgroundDoc is the flat wire shape of a background.
type backgroundDoc struct {
	Type                     BackgroundType `json:"type"`
	Value                    string         `json:"value,omitempty"`
	Opacity                  *float64       `json:"opacity,omitempty"`
	PatternForegroundColor   string         `json:"patternForegroundColor,omitempty"`
	PatternBackgroundColor   string         `json:"patternBackgroundColor,omitempty"`
	PatternSize              float64        `json:"patternSize,omitempty"`
	PatternStrokeWidth       float64        `json:"patternStrokeWidth,omitempty"`
	ImageSrc                 string         `json:"imageSrc,omitempty"`
	ImageSize                ImageSizeMode  `json:"imageSize,omitempty"`
	ImagePosition            Anchor         `json:"imagePosition,omitempty"`
	ImageContainWidthPercent float64        `json:"imageContainWidthPercent,omitempty"`
	ImageRepeat              bool           `json:"imageRepeat,omitempty"`
	BackgroundColorEnabled   bool           `json:"backgroundColorEnabled,omitempty"`
	BackgroundColor          string         `json:"backgroundColor,omitempty"`
}

// UnmarshalJSON decodes the flat wire form into the union, populating
// exactly one variant.
func (b *Background) UnmarshalJSON(data []byte) error {
	var doc backgroundDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	opacity := 1.0
	if doc.Opacity != nil {
		opacity = *doc.Opacity
	}
	*b = Background{Type: doc.Type}
	switch doc.Type {
	case BackgroundColor:
		b.Color = &ColorBackground{Value: doc.Value, Opacity: opacity}
	case BackgroundPattern:
		b.Pattern = &PatternBackground{
			Value:           doc.Value,
			ForegroundColor: doc.PatternForegroundColor,
			BackgroundColor: doc.PatternBackgroundColor,
			Size:            doc.PatternSize,
			StrokeWidth:     doc.PatternStrokeWidth,
			Opacity:         opacity,
		}
	case BackgroundImage:
		size := doc.ImageSize
		if size == "" {
			size = SizeCover
		}
		pos := doc.ImagePosition
		if pos == "" {
			pos = AnchorCenter
		}
		b.Image = &ImageBackground{
			Src:                 doc.ImageSrc,
			Size:                size,
			Position:            pos,
			ContainWidthPercent: doc.ImageContainWidthPercent,
			Repeat:              doc.ImageRepeat,
			ColorEnabled:        doc.BackgroundColorEnabled,
			Color:               doc.BackgroundColor,
			Opacity:             opacity,
		}
	default:
		return fmt.Errorf("model: unknown background type %q", doc.Type)
	}
	return nil
}

// MarshalJSON encodes the active variant back to the flat wire form.
func (b *Background) MarshalJSON() ([]byte, error) {
	doc := backgroundDoc{Type: b.Type}
	switch b.Type {
	case BackgroundColor:
		if b.Color == nil {
			return nil, fmt.Errorf("model: color background with nil payload")
		}
		doc.Value = b.Color.Value
		doc.Opacity = &b.Color.Opacity
	case BackgroundPattern:
		if b.Pattern == nil {
			return nil, fmt.Errorf("model: pattern background with nil payload")
		}
		doc.Value = b.Pattern.Value
		doc.PatternForegroundColor = b.Pattern.ForegroundColor
		doc.PatternBackgroundColor = b.Pattern.BackgroundColor
		doc.PatternSize = b.Pattern.Size
		doc.PatternStrokeWidth = b.Pattern.StrokeWidth
		doc.Opacity = &b.Pattern.Opacity
	case BackgroundImage:
		if b.Image == nil {
			return nil, fmt.Errorf("model: image background with nil payload")
		}
		doc.ImageSrc = b.Image.Src
		doc.ImageSize = b.Image.Size
		doc.ImagePosition = b.Image.Position
		doc.ImageContainWidthPercent = b.Image.ContainWidthPercent
		doc.ImageRepeat = b.Image.Repeat
		doc.BackgroundColorEnabled = b.Image.ColorEnabled
		doc.BackgroundColor = b.Image.Color
		doc.Opacity = &b.Image.Opacity
	default:
		return nil, fmt.Errorf("model: unknown background type %q", b.Type)
	}
	return json.Marshal(doc)
}
