package model

import (
	"encoding/json"
	"fmt"
)

// Kind identifies an element variant.
type Kind string

// Element kinds. Shape elements use their shape name as the wire tag.
const (
	KindText        Kind = "text"
	KindFreeText    Kind = "free_text"
	KindQnA         Kind = "qna"
	KindImage       Kind = "image"
	KindSticker     Kind = "sticker"
	KindRect        Kind = "rect"
	KindCircle      Kind = "circle"
	KindLine        Kind = "line"
	KindPolygon     Kind = "polygon"
	KindQRCode      Kind = "qr_code"
	KindPlaceholder Kind = "placeholder"
	KindBrush       Kind = "brush-multicolor"
)

// Element is the closed element union. Concrete variants embed
// ElementBase and carry only their own fields.
type Element interface {
	Base() *ElementBase
	Kind() Kind
}

// ElementBase holds the geometry shared by every element. Width and
// Height are pre-scale: the effective on-canvas size is Width*ScaleX by
// Height*ScaleY. Rotation is in degrees and always pivots around the
// element's center.
type ElementBase struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	ScaleX   float64  `json:"scaleX,omitempty"`
	ScaleY   float64  `json:"scaleY,omitempty"`
	Rotation float64  `json:"rotation,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`
}

// Base implements Element.
func (b *ElementBase) Base() *ElementBase { return b }

// EffectiveWidth returns Width*ScaleX.
func (b *ElementBase) EffectiveWidth() float64 { return b.Width * b.ScaleX }

// EffectiveHeight returns Height*ScaleY.
func (b *ElementBase) EffectiveHeight() float64 { return b.Height * b.ScaleY }

// EffectiveOpacity returns the element opacity, defaulting to 1.
func (b *ElementBase) EffectiveOpacity() float64 {
	if b.Opacity == nil {
		return 1
	}
	return *b.Opacity
}

// normalize applies wire defaults that encoding/json cannot express.
func (b *ElementBase) normalize() {
	if b.ScaleX == 0 {
		b.ScaleX = 1
	}
	if b.ScaleY == 0 {
		b.ScaleY = 1
	}
}

// Point is a 2D coordinate in element-local space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecorStyle groups the optional ruled-line, border, and background
// decorations that text-bearing elements share.
type DecorStyle struct {
	RuledLines        bool    `json:"ruledLines,omitempty"`
	RuledLineColor    string  `json:"ruledLineColor,omitempty"`
	RuledLineWidth    float64 `json:"ruledLineWidth,omitempty"`
	BorderEnabled     bool    `json:"borderEnabled,omitempty"`
	BorderTheme       string  `json:"borderTheme,omitempty"`
	BorderColor       string  `json:"borderColor,omitempty"`
	BorderWidth       float64 `json:"borderWidth,omitempty"`
	BackgroundEnabled bool    `json:"backgroundEnabled,omitempty"`
	BackgroundColor   string  `json:"backgroundColor,omitempty"`
	BackgroundOpacity float64 `json:"backgroundOpacity,omitempty"`
}

// TextElement is a single rich-text block. Text may contain HTML
// markup; print rendering reduces it to plain text.
type TextElement struct {
	ElementBase
	Text             string  `json:"text"`
	FontFamily       string  `json:"fontFamily,omitempty"`
	FontSize         float64 `json:"fontSize,omitempty"`
	FontColor        string  `json:"fontColor,omitempty"`
	Bold             bool    `json:"bold,omitempty"`
	Italic           bool    `json:"italic,omitempty"`
	Align            string  `json:"align,omitempty"`
	ParagraphSpacing string  `json:"paragraphSpacing,omitempty"`
	Padding          float64 `json:"padding,omitempty"`
	DecorStyle
}

// Kind implements Element.
func (*TextElement) Kind() Kind { return KindText }

// FreeTextElement is a text block placed outside the page's layout
// template. It renders like TextElement.
type FreeTextElement struct {
	TextElement
}

// Kind implements Element.
func (*FreeTextElement) Kind() Kind { return KindFreeText }

// QnASettings is the per-half styling of a QnA element.
type QnASettings struct {
	FontFamily       string  `json:"fontFamily,omitempty"`
	FontSize         float64 `json:"fontSize,omitempty"`
	FontColor        string  `json:"fontColor,omitempty"`
	Bold             bool    `json:"bold,omitempty"`
	Italic           bool    `json:"italic,omitempty"`
	ParagraphSpacing string  `json:"paragraphSpacing,omitempty"`
}

// QnAElement is a paired question/answer block.
type QnAElement struct {
	ElementBase
	QuestionID       string       `json:"questionId,omitempty"`
	QuestionText     string       `json:"questionText,omitempty"`
	AnswerText       string       `json:"answerText,omitempty"`
	UserID           string       `json:"userId,omitempty"`
	LayoutVariant    string       `json:"layoutVariant,omitempty"` // inline | block
	QuestionPosition string       `json:"questionPosition,omitempty"`
	BlockGap         float64      `json:"blockGap,omitempty"`
	Padding          float64      `json:"padding,omitempty"`
	Align            string       `json:"align,omitempty"`
	IndividualStyles bool         `json:"individualStyles,omitempty"`
	QuestionSettings *QnASettings `json:"questionSettings,omitempty"`
	AnswerSettings   *QnASettings `json:"answerSettings,omitempty"`
	DecorStyle
}

// Kind implements Element.
func (*QnAElement) Kind() Kind { return KindQnA }

// ImageElement is a placed raster image with an optional crop and an
// optional themed frame.
type ImageElement struct {
	ElementBase
	Src        string  `json:"src"`
	CropX      float64 `json:"cropX,omitempty"`
	CropY      float64 `json:"cropY,omitempty"`
	CropWidth  float64 `json:"cropWidth,omitempty"`
	CropHeight float64 `json:"cropHeight,omitempty"`
	CropAnchor string  `json:"cropAnchor,omitempty"` // used when no crop rect persisted
	FrameTheme string  `json:"frameTheme,omitempty"`
	FrameColor string  `json:"frameColor,omitempty"`
	FrameWidth float64 `json:"frameWidth,omitempty"`
}

// Kind implements Element.
func (*ImageElement) Kind() Kind { return KindImage }

// HasCrop reports whether a crop rectangle was persisted.
func (e *ImageElement) HasCrop() bool { return e.CropWidth > 0 && e.CropHeight > 0 }

// StickerElement is a decorative image. Stickers never draw frames but
// may carry a caption rendered below the image.
type StickerElement struct {
	ElementBase
	Src          string  `json:"src"`
	Caption      string  `json:"caption,omitempty"`
	CaptionSize  float64 `json:"captionSize,omitempty"`
	CaptionColor string  `json:"captionColor,omitempty"`
}

// Kind implements Element.
func (*StickerElement) Kind() Kind { return KindSticker }

// ShapeElement is a geometric primitive (rect, circle, line, polygon)
// with an optional stroke theme. Rect alone honors independent
// background and border opacities, baked into the colors at draw time.
type ShapeElement struct {
	ElementBase
	Shape             Kind    `json:"-"`
	Stroke            string  `json:"stroke,omitempty"`
	StrokeWidth       float64 `json:"strokeWidth,omitempty"`
	Fill              string  `json:"fill,omitempty"`
	Theme             string  `json:"theme,omitempty"`
	BackgroundOpacity float64 `json:"backgroundOpacity,omitempty"`
	BorderOpacity     float64 `json:"borderOpacity,omitempty"`
	Points            []Point `json:"points,omitempty"`
}

// Kind implements Element.
func (e *ShapeElement) Kind() Kind { return e.Shape }

// QRCodeElement renders a QR code bitmap for a value.
type QRCodeElement struct {
	ElementBase
	QRValue           string `json:"qrValue"`
	QRForegroundColor string `json:"qrForegroundColor,omitempty"`
	QRBackgroundColor string `json:"qrBackgroundColor,omitempty"`
}

// Kind implements Element.
func (*QRCodeElement) Kind() Kind { return KindQRCode }

// PlaceholderElement marks an unfilled image slot. It never renders in
// exported output.
type PlaceholderElement struct {
	ElementBase
	SlotCategory string `json:"slotCategory,omitempty"`
}

// Kind implements Element.
func (*PlaceholderElement) Kind() Kind { return KindPlaceholder }

// BrushElement is a freehand multi-color stroke recorded by the editor
// as a point sequence with one color per segment run.
type BrushElement struct {
	ElementBase
	Points      []Point  `json:"points,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	StrokeWidth float64  `json:"strokeWidth,omitempty"`
}

// Kind implements Element.
func (*BrushElement) Kind() Kind { return KindBrush }

// UnknownElement preserves an element the decoder did not recognize.
// The renderer skips it.
type UnknownElement struct {
	ElementBase
	Type string
	Raw  json.RawMessage
}

// Kind implements Element.
func (e *UnknownElement) Kind() Kind { return Kind(e.Type) }

// MarshalJSON re-emits the original wire form so a decode/encode cycle
// preserves elements this version does not understand.
func (e *UnknownElement) MarshalJSON() ([]byte, error) {
	return e.Raw, nil
}

// typeTag is the minimal probe used to dispatch element decoding.
type typeTag struct {
	Type string `json:"type"`
}

// DecodeElement decodes one element from its wire form, dispatching on
// the "type" tag. Unknown tags produce an UnknownElement, not an error.
func DecodeElement(raw json.RawMessage) (Element, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("model: element type tag: %w", err)
	}
	var el Element
	switch Kind(tag.Type) {
	case KindText:
		el = &TextElement{}
	case KindFreeText:
		el = &FreeTextElement{}
	case KindQnA:
		el = &QnAElement{}
	case KindImage:
		el = &ImageElement{}
	case KindSticker:
		el = &StickerElement{}
	case KindRect, KindCircle, KindLine, KindPolygon:
		el = &ShapeElement{Shape: Kind(tag.Type)}
	case KindQRCode:
		el = &QRCodeElement{}
	case KindPlaceholder:
		el = &PlaceholderElement{}
	case KindBrush:
		el = &BrushElement{}
	default:
		u := &UnknownElement{Type: tag.Type, Raw: append(json.RawMessage(nil), raw...)}
		if err := json.Unmarshal(raw, &u.ElementBase); err != nil {
			return nil, err
		}
		u.normalize()
		return u, nil
	}
	if err := json.Unmarshal(raw, el); err != nil {
		return nil, fmt.Errorf("model: decode %s element: %w", tag.Type, err)
	}
	el.Base().normalize()
	return el, nil
}

// EncodeElement encodes one element back to its wire form with the
// "type" tag inlined.
func EncodeElement(el Element) (json.RawMessage, error) {
	body, err := json.Marshal(el)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(string(el.Kind()))
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
