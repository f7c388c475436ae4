package layout

import "errors"

// Variant selects how a question/answer pair shares the element box.
type Variant string

// QnA layout variants.
const (
	// VariantInline flows question and answer through shared line
	// slots, the answer continuing right after the question.
	VariantInline Variant = "inline"
	// VariantBlock gives question and answer disjoint sub-rectangles.
	VariantBlock Variant = "block"
)

// Position places the question sub-rectangle in the block variant.
type Position string

// Question positions for the block variant.
const (
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// QnAOptions extends Options with the pair-specific controls.
type QnAOptions struct {
	Options
	Variant          Variant
	QuestionPosition Position
	Gap              float64
}

// ErrEmptyPair reports a QnA pair with no question and no answer text.
// Such a pair is skipped entirely; callers log it rather than treating
// it as a failure.
var ErrEmptyPair = errors.New("layout: empty question/answer pair")

// LayoutQnA lays out a question/answer pair. One empty half is
// permitted and still occupies layout space so ruled lines can target
// it; a completely empty pair returns ErrEmptyPair.
func LayoutQnA(question, answer string, qs, as Style, opts QnAOptions) (Result, error) {
	if question == "" && answer == "" {
		return Result{}, ErrEmptyPair
	}
	if opts.Variant == VariantBlock {
		return layoutBlock(question, answer, qs, as, opts), nil
	}
	return layoutInline(question, answer, qs, as, opts), nil
}

// layoutInline flows both halves through shared slots. The slot height
// is the larger of the two line heights: max font size scaled by the
// larger paragraph-spacing multiplier.
func layoutInline(question, answer string, qs, as Style, opts QnAOptions) Result {
	lineHeight := inlineLineHeight(qs, as)
	f := newFlow(opts.Options, lineHeight)

	qParas := splitParagraphs(question)
	aParas := splitParagraphs(answer)

	// The answer continues on the question's last line; only explicit
	// newlines inside either half break lines.
	for i, para := range qParas {
		f.words(tokenize(para, qs))
		if i < len(qParas)-1 {
			f.endParagraph()
			if para == "" {
				f.blankLine()
			}
		}
	}
	for i, para := range aParas {
		f.words(tokenize(para, as))
		if i < len(aParas)-1 {
			f.endParagraph()
			if para == "" {
				f.blankLine()
			}
		}
	}
	f.endParagraph()
	return f.finish()
}

// inlineLineHeight computes the shared slot height for the inline
// variant.
func inlineLineHeight(qs, as Style) float64 {
	size := qs.Size
	if as.Size > size {
		size = as.Size
	}
	mult := qs.SpacingMult
	if as.SpacingMult > mult {
		mult = as.SpacingMult
	}
	if mult <= 0 {
		mult = 1
	}
	return size * mult
}

// layoutBlock lays the halves out in disjoint sub-rectangles arranged
// by the question position, separated by the configured gap.
func layoutBlock(question, answer string, qs, as Style, opts QnAOptions) Result {
	qRect, aRect := splitRects(opts)

	qRes := LayoutText(question, qs, qRect.Options)
	aRes := LayoutText(answer, as, aRect.Options)

	offsetResult(&qRes, qRect.offsetX, qRect.offsetY)
	offsetResult(&aRes, aRect.offsetX, aRect.offsetY)

	merged := Result{
		Runs:  append(qRes.Runs, aRes.Runs...),
		Lines: append(qRes.Lines, aRes.Lines...),
	}
	// Content height spans from the box top to the lowest occupied slot.
	for _, l := range merged.Lines {
		if l.Y > merged.ContentHeight {
			merged.ContentHeight = l.Y
		}
	}
	return merged
}

// blockRect is a sub-rectangle with its offset inside the element box.
type blockRect struct {
	Options
	offsetX, offsetY float64
}

// splitRects divides the element box between question and answer.
func splitRects(opts QnAOptions) (q, a blockRect) {
	gap := opts.Gap
	if gap < 0 {
		gap = 0
	}
	inner := opts.Options
	switch opts.QuestionPosition {
	case PositionRight:
		w := (opts.Width - gap) / 2
		q = blockRect{Options: sized(inner, w, opts.Height), offsetX: w + gap}
		a = blockRect{Options: sized(inner, w, opts.Height)}
	case PositionTop:
		h := (opts.Height - gap) / 2
		q = blockRect{Options: sized(inner, opts.Width, h)}
		a = blockRect{Options: sized(inner, opts.Width, h), offsetY: h + gap}
	case PositionBottom:
		h := (opts.Height - gap) / 2
		q = blockRect{Options: sized(inner, opts.Width, h), offsetY: h + gap}
		a = blockRect{Options: sized(inner, opts.Width, h)}
	default: // left
		w := (opts.Width - gap) / 2
		q = blockRect{Options: sized(inner, w, opts.Height)}
		a = blockRect{Options: sized(inner, w, opts.Height), offsetX: w + gap}
	}
	return q, a
}

func sized(o Options, w, h float64) Options {
	o.Width = w
	o.Height = h
	return o
}

// offsetResult translates a sub-layout into element coordinates.
func offsetResult(r *Result, dx, dy float64) {
	for i := range r.Runs {
		r.Runs[i].X += dx
		r.Runs[i].Y += dy
	}
	for i := range r.Lines {
		r.Lines[i].Y += dy
	}
}
