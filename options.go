package pageproof

import (
	"net/http"
	"time"

	"github.com/gogpu/pageproof/style"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r := pageproof.New(
//	    pageproof.WithThemes(themes),
//	    pageproof.WithFlushDelay(50*time.Millisecond),
//	)
type Option func(*config)

// QuestionLookup resolves a question id to its text.
type QuestionLookup func(questionID string) (string, bool)

// AnswerLookup resolves a (question id, user id) pair to answer text.
type AnswerLookup func(questionID, userID string) (string, bool)

// SourceResolver rewrites an image reference (slug, category path, or
// already-usable URL) into a fetchable URL. The identity resolver is
// used when none is configured.
type SourceResolver func(src string) string

// config holds the resolved Renderer configuration.
type config struct {
	flushDelay     time.Duration
	httpClient     *http.Client
	fonts          *FontRegistry
	themes         *style.ThemeStore
	palettes       *style.PaletteStore
	questionLookup QuestionLookup
	answerLookup   AnswerLookup
	resolveSource  SourceResolver
}

// defaultFlushDelay is the short settle pause between the last painted
// node and the completion signal, mirroring the one extra frame the
// editor waits before a screenshot.
const defaultFlushDelay = 30 * time.Millisecond

// defaultConfig returns the default renderer configuration.
func defaultConfig() config {
	return config{
		flushDelay:    defaultFlushDelay,
		resolveSource: func(src string) string { return src },
	}
}

// WithFlushDelay sets the settle pause before the completion signal.
func WithFlushDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.flushDelay = d
		}
	}
}

// WithHTTPClient sets the client used for image fetches. Callers that
// rasterize behind a proxy or need custom timeouts inject one here.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithFonts sets the font registry. Without this option the built-in
// Go faces are used.
func WithFonts(fonts *FontRegistry) Option {
	return func(c *config) { c.fonts = fonts }
}

// WithThemes sets the theme store consulted for element defaults.
func WithThemes(themes *style.ThemeStore) Option {
	return func(c *config) { c.themes = themes }
}

// WithPalettes sets the palette store used to substitute symbolic
// color references.
func WithPalettes(palettes *style.PaletteStore) Option {
	return func(c *config) { c.palettes = palettes }
}

// WithQuestionLookup overrides the question text lookup. Without it,
// questions resolve from the book's own question collection.
func WithQuestionLookup(fn QuestionLookup) Option {
	return func(c *config) { c.questionLookup = fn }
}

// WithAnswerLookup overrides the answer text lookup. Without it,
// answers resolve from the book's own answer collection.
func WithAnswerLookup(fn AnswerLookup) Option {
	return func(c *config) { c.answerLookup = fn }
}

// WithSourceResolver sets the image source resolver used for element
// and background image references.
func WithSourceResolver(fn SourceResolver) Option {
	return func(c *config) {
		if fn != nil {
			c.resolveSource = fn
		}
	}
}
