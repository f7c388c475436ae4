// Package layout measures and positions text for page elements. It is
// the headless counterpart of the editor's on-canvas text flow: given a
// resolved style, a box, and padding it produces absolutely positioned
// text runs, the line slots they occupy (including blank ones, which
// ruled lines still underline), and the total content height.
//
// All functions are pure with respect to their inputs; measurement goes
// through the gg text faces so layout and rasterization share one
// metrics source.
package layout

import (
	"strings"

	"github.com/gogpu/gg/text"
)

// BaselineNudgeRatio shifts every baseline down by this fraction of the
// font size so glyphs sit visually centered on their ruled line. The
// value is tuned against the Go font metrics used by the gg text
// stack; a different shaping engine needs its own value, which is why
// this is a variable and not a constant.
var BaselineNudgeRatio = 0.08

// Style is the layout-facing slice of a resolved text style.
type Style struct {
	Face        text.Face
	Size        float64
	Color       string
	Opacity     float64
	SpacingMult float64
}

// LineHeight returns the slot height for this style alone.
func (s Style) LineHeight() float64 {
	m := s.SpacingMult
	if m <= 0 {
		m = 1
	}
	return s.Size * m
}

// Run is one positioned text fragment. Y is the baseline.
type Run struct {
	Text  string
	X, Y  float64
	Style Style
}

// Line is one occupied line slot. Y is the slot's bottom edge, which is
// also where a ruled line underlining the slot is drawn.
type Line struct {
	Y      float64
	Height float64
	Blank  bool
}

// Result is a finished layout.
type Result struct {
	Runs          []Run
	Lines         []Line
	ContentHeight float64
}

// Options is the common layout box description.
type Options struct {
	Width   float64
	Height  float64
	Padding float64
	Align   string // left | center | right
}

// available returns the inner width the text may occupy.
func (o Options) available() float64 {
	w := o.Width - 2*o.Padding
	if w < 0 {
		return 0
	}
	return w
}

// token is a measured word with its style.
type token struct {
	text  string
	width float64
	style Style
	space float64 // advance of one space in this style
}

// tokenize splits a paragraph into measured word tokens.
func tokenize(s string, st Style) []token {
	words := strings.Fields(s)
	toks := make([]token, 0, len(words))
	space := advance(" ", st)
	for _, w := range words {
		toks = append(toks, token{
			text:  w,
			width: advance(w, st),
			style: st,
			space: space,
		})
	}
	return toks
}

// advance measures the horizontal advance of a fragment.
func advance(s string, st Style) float64 {
	if st.Face == nil {
		// Crude fallback keeps layout total rather than exact when no
		// face is available (e.g. in pure geometry tests).
		return float64(len(s)) * st.Size * 0.5
	}
	return st.Face.Advance(s)
}

// baselineFor converts a slot bottom edge into a baseline position:
// glyphs sit slightly above the ruled line, nudged by the tunable
// ratio so they center within the slot.
func baselineFor(slotBottom float64, st Style) float64 {
	return slotBottom - st.Size*BaselineNudgeRatio
}

// LayoutText lays out plain text in a box using greedy word wrapping:
// words accumulate while the running width stays within the available
// width, and the first overflowing word starts a new line. Hard
// newlines split paragraphs; an empty paragraph occupies a blank line
// slot.
func LayoutText(s string, st Style, opts Options) Result {
	lineHeight := st.LineHeight()
	flow := newFlow(opts, lineHeight)
	for _, para := range splitParagraphs(s) {
		toks := tokenize(para, st)
		if len(toks) == 0 {
			flow.blankLine()
			continue
		}
		flow.words(toks)
		flow.endParagraph()
	}
	return flow.finish()
}

// splitParagraphs normalizes line endings and splits on hard newlines.
func splitParagraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// flow is the incremental line filler shared by the plain and QnA
// layouts.
type flow struct {
	opts       Options
	lineHeight float64

	cur     []token
	curW    float64
	slotY   float64 // bottom edge of the next slot
	runs    []Run
	lines   []Line
	started bool
}

func newFlow(opts Options, lineHeight float64) *flow {
	return &flow{
		opts:       opts,
		lineHeight: lineHeight,
		slotY:      opts.Padding + lineHeight,
	}
}

// words feeds measured tokens into the flow, breaking greedily.
func (f *flow) words(toks []token) {
	avail := f.opts.available()
	for _, t := range toks {
		w := t.width
		if len(f.cur) > 0 {
			w += t.space
		}
		if len(f.cur) > 0 && f.curW+w > avail {
			f.flushLine(false)
			f.cur = append(f.cur, t)
			f.curW = t.width
			continue
		}
		f.cur = append(f.cur, t)
		f.curW += w
	}
}

// endParagraph flushes any pending words to close the paragraph.
func (f *flow) endParagraph() {
	if len(f.cur) > 0 {
		f.flushLine(false)
	}
}

// blankLine emits an empty slot. Ruled lines still underline it.
func (f *flow) blankLine() {
	f.flushLine(true)
}

// flushLine materializes the accumulated tokens as runs on one slot.
func (f *flow) flushLine(blank bool) {
	x := f.opts.Padding + f.alignOffset()
	for _, t := range f.cur {
		f.runs = append(f.runs, Run{
			Text:  t.text,
			X:     x,
			Y:     baselineFor(f.slotY, t.style),
			Style: t.style,
		})
		x += t.width + t.space
	}
	f.lines = append(f.lines, Line{Y: f.slotY, Height: f.lineHeight, Blank: blank && len(f.cur) == 0})
	f.cur = f.cur[:0]
	f.curW = 0
	f.slotY += f.lineHeight
}

// alignOffset shifts a finished line for center/right alignment.
func (f *flow) alignOffset() float64 {
	rest := f.opts.available() - f.curW
	if rest <= 0 {
		return 0
	}
	switch f.opts.Align {
	case "center":
		return rest / 2
	case "right":
		return rest
	}
	return 0
}

// finish closes the flow and computes the content height.
func (f *flow) finish() Result {
	if len(f.cur) > 0 {
		f.flushLine(false)
	}
	h := 0.0
	for _, l := range f.lines {
		h += l.Height
	}
	return Result{Runs: f.runs, Lines: f.lines, ContentHeight: h}
}
