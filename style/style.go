// Package style resolves the visual style of page elements. Styles
// cascade with a fixed precedence: explicit element fields win over the
// page theme, which wins over the book theme, which wins over the theme
// bundle's tool defaults, which win over package defaults. Each style
// category has exactly one resolver function returning a fully resolved
// immutable record, so rendering code never merges partial style maps.
package style

import "strings"

// ToolType selects the tool-specific default bundle inside a theme.
type ToolType string

// Tool types.
const (
	ToolText    ToolType = "text"
	ToolQnA     ToolType = "qna"
	ToolImage   ToolType = "image"
	ToolSticker ToolType = "sticker"
	ToolShape   ToolType = "shape"
	ToolQRCode  ToolType = "qr_code"
)

// Spacing is a named paragraph spacing amount.
type Spacing string

// Paragraph spacing names.
const (
	SpacingSmall  Spacing = "small"
	SpacingMedium Spacing = "medium"
	SpacingLarge  Spacing = "large"
)

// Multiplier returns the line-height multiplier for a spacing name.
// Unknown names resolve to small (1.0).
func (s Spacing) Multiplier() float64 {
	switch s {
	case SpacingMedium:
		return 1.2
	case SpacingLarge:
		return 1.5
	default:
		return 1.0
	}
}

// Default font sizes when neither element nor theme provide one. The
// question half of a QnA pair is conventionally slightly smaller than
// the answer half.
const (
	DefaultQuestionFontSize = 45.0
	DefaultAnswerFontSize   = 50.0
	DefaultFontSize         = 50.0
)

// ToolDefaults is one theme's default values for a tool.
type ToolDefaults struct {
	FontFamily       string
	FontSize         float64
	FontColor        string
	ParagraphSpacing Spacing

	BorderTheme string
	BorderColor string
	BorderWidth float64

	BackgroundColor   string
	BackgroundOpacity float64

	RuledLineColor string
	RuledLineWidth float64
}

// Theme is a named bundle of per-tool defaults.
type Theme struct {
	ID    string
	Tools map[ToolType]ToolDefaults
}

// ThemeStore is a read-only theme registry.
type ThemeStore struct {
	themes map[string]*Theme
}

// NewThemeStore builds a store from theme bundles.
func NewThemeStore(themes ...*Theme) *ThemeStore {
	s := &ThemeStore{themes: make(map[string]*Theme, len(themes))}
	for _, t := range themes {
		s.themes[t.ID] = t
	}
	return s
}

// Defaults returns the tool defaults of a theme. The zero value is
// returned when the theme or tool is unknown.
func (s *ThemeStore) Defaults(themeID string, tool ToolType) ToolDefaults {
	if s == nil {
		return ToolDefaults{}
	}
	t, ok := s.themes[themeID]
	if !ok {
		return ToolDefaults{}
	}
	return t.Tools[tool]
}

// Palette is a named ordered color list. Theme defaults may reference
// palette slots symbolically as "@1" .. "@n".
type Palette struct {
	ID     string
	Colors []string
}

// PaletteStore is a read-only palette registry.
type PaletteStore struct {
	palettes map[string]*Palette
}

// NewPaletteStore builds a store from palettes.
func NewPaletteStore(palettes ...*Palette) *PaletteStore {
	s := &PaletteStore{palettes: make(map[string]*Palette, len(palettes))}
	for _, p := range palettes {
		s.palettes[p.ID] = p
	}
	return s
}

// ResolveColor substitutes a symbolic palette reference ("@1"-based)
// with the palette color. Non-symbolic values pass through unchanged,
// as do references into a missing palette or slot.
func (s *PaletteStore) ResolveColor(paletteID, value string) string {
	if !strings.HasPrefix(value, "@") {
		return value
	}
	if s == nil {
		return value
	}
	p, ok := s.palettes[paletteID]
	if !ok {
		return value
	}
	idx := 0
	for _, r := range value[1:] {
		if r < '0' || r > '9' {
			return value
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < 1 || idx > len(p.Colors) {
		return value
	}
	return p.Colors[idx-1]
}
