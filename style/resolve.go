package style

import "github.com/gogpu/pageproof/model"

// TextStyle is a fully resolved text style. Colors are concrete hex
// values; symbolic palette references have been substituted.
type TextStyle struct {
	FontFamily       string
	FontSize         float64
	FontColor        string
	Bold             bool
	Italic           bool
	Align            string
	ParagraphSpacing Spacing
	Opacity          float64
}

// BorderStyle is a fully resolved border style.
type BorderStyle struct {
	Enabled bool
	Theme   string
	Color   string
	Width   float64
}

// RuledLineStyle is a fully resolved ruled-line style.
type RuledLineStyle struct {
	Enabled bool
	Color   string
	Width   float64
}

// BackgroundStyle is a fully resolved element background style.
type BackgroundStyle struct {
	Enabled bool
	Color   string
	Opacity float64
}

// Resolver resolves element styles against theme and palette stores.
type Resolver struct {
	Themes   *ThemeStore
	Palettes *PaletteStore
}

// color substitutes palette references and falls back in order.
func (r *Resolver) color(paletteID string, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if r.Palettes != nil {
			return r.Palettes.ResolveColor(paletteID, c)
		}
		return c
	}
	return ""
}

// defaults returns the effective tool defaults for a page: the page
// theme overrides the book theme.
func (r *Resolver) defaults(book *model.Book, page *model.Page, tool ToolType) ToolDefaults {
	if r.Themes == nil || book == nil {
		return ToolDefaults{}
	}
	return r.Themes.Defaults(book.ThemeFor(page), tool)
}

// paletteID returns the effective palette id for a page.
func (r *Resolver) paletteID(book *model.Book, page *model.Page) string {
	if book == nil {
		return ""
	}
	return book.PaletteFor(page)
}

// Text resolves the style of a plain text element.
func (r *Resolver) Text(book *model.Book, page *model.Page, el *model.TextElement) TextStyle {
	def := r.defaults(book, page, ToolText)
	pal := r.paletteID(book, page)
	st := TextStyle{
		FontFamily:       firstOf(el.FontFamily, def.FontFamily),
		FontSize:         firstPositive(el.FontSize, def.FontSize, DefaultFontSize),
		FontColor:        firstOf(r.color(pal, el.FontColor, def.FontColor), "#000000"),
		Bold:             el.Bold,
		Italic:           el.Italic,
		Align:            firstOf(el.Align, "left"),
		ParagraphSpacing: firstSpacing(Spacing(el.ParagraphSpacing), def.ParagraphSpacing),
		Opacity:          el.EffectiveOpacity(),
	}
	return st
}

// QnA resolves the question and answer halves of a QnA element. When
// the element's individual styles flag is off, the question half
// mirrors the answer settings so the pair speaks with a single visual
// voice; only the default 45/50 size split survives when no explicit
// size is set.
func (r *Resolver) QnA(book *model.Book, page *model.Page, el *model.QnAElement) (question, answer TextStyle) {
	def := r.defaults(book, page, ToolQnA)
	pal := r.paletteID(book, page)

	questionSet := el.QuestionSettings
	if !el.IndividualStyles {
		questionSet = el.AnswerSettings
	}
	answer = r.half(def, pal, el, el.AnswerSettings, DefaultAnswerFontSize)
	question = r.half(def, pal, el, questionSet, DefaultQuestionFontSize)
	return question, answer
}

// half resolves one half of a QnA pair from its settings block. The
// precedence is settings > theme defaults > the documented fallback
// size for that half.
func (r *Resolver) half(def ToolDefaults, pal string, el *model.QnAElement, set *model.QnASettings, fallbackSize float64) TextStyle {
	st := TextStyle{
		FontFamily:       def.FontFamily,
		FontSize:         firstPositive(def.FontSize, fallbackSize),
		FontColor:        firstOf(r.color(pal, def.FontColor), "#000000"),
		Align:            firstOf(el.Align, "left"),
		ParagraphSpacing: firstSpacing(def.ParagraphSpacing),
		Opacity:          el.EffectiveOpacity(),
	}
	if set == nil {
		return st
	}
	st.FontFamily = firstOf(set.FontFamily, st.FontFamily)
	st.FontSize = firstPositive(set.FontSize, st.FontSize)
	st.FontColor = firstOf(r.color(pal, set.FontColor), st.FontColor)
	st.Bold = set.Bold
	st.Italic = set.Italic
	st.ParagraphSpacing = firstSpacing(Spacing(set.ParagraphSpacing), st.ParagraphSpacing)
	return st
}

// Border resolves a decorated element's border style.
func (r *Resolver) Border(book *model.Book, page *model.Page, decor *model.DecorStyle, tool ToolType) BorderStyle {
	def := r.defaults(book, page, tool)
	pal := r.paletteID(book, page)
	return BorderStyle{
		Enabled: decor.BorderEnabled,
		Theme:   firstOf(decor.BorderTheme, def.BorderTheme, "default"),
		Color:   firstOf(r.color(pal, decor.BorderColor, def.BorderColor), "#000000"),
		Width:   firstPositive(decor.BorderWidth, def.BorderWidth, 2),
	}
}

// RuledLines resolves a decorated element's ruled-line style.
func (r *Resolver) RuledLines(book *model.Book, page *model.Page, decor *model.DecorStyle, tool ToolType) RuledLineStyle {
	def := r.defaults(book, page, tool)
	pal := r.paletteID(book, page)
	return RuledLineStyle{
		Enabled: decor.RuledLines,
		Color:   firstOf(r.color(pal, decor.RuledLineColor, def.RuledLineColor), "#b9b9b9"),
		Width:   firstPositive(decor.RuledLineWidth, def.RuledLineWidth, 1),
	}
}

// Background resolves a decorated element's background style.
func (r *Resolver) Background(book *model.Book, page *model.Page, decor *model.DecorStyle, tool ToolType) BackgroundStyle {
	def := r.defaults(book, page, tool)
	pal := r.paletteID(book, page)
	op := decor.BackgroundOpacity
	if op == 0 {
		op = firstPositive(def.BackgroundOpacity, 1)
	}
	return BackgroundStyle{
		Enabled: decor.BackgroundEnabled,
		Color:   firstOf(r.color(pal, decor.BackgroundColor, def.BackgroundColor), "#ffffff"),
		Opacity: op,
	}
}

// ImageFrame resolves an image element's frame style. A frame renders
// only when the element names a frame theme.
func (r *Resolver) ImageFrame(book *model.Book, page *model.Page, el *model.ImageElement) BorderStyle {
	def := r.defaults(book, page, ToolImage)
	pal := r.paletteID(book, page)
	return BorderStyle{
		Enabled: el.FrameTheme != "",
		Theme:   firstOf(el.FrameTheme, def.BorderTheme, "default"),
		Color:   firstOf(r.color(pal, el.FrameColor, def.BorderColor), "#000000"),
		Width:   firstPositive(el.FrameWidth, def.BorderWidth, 4),
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstSpacing(values ...Spacing) Spacing {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return SpacingSmall
}
