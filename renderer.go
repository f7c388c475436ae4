package pageproof

import (
	"context"
	"image"

	"github.com/gogpu/pageproof/assets"
	"github.com/gogpu/pageproof/model"
	"github.com/gogpu/pageproof/style"
)

// Renderer composites pages. It is immutable after New and safe for
// concurrent use; each render pass gets its own Session.
type Renderer struct {
	cfg      config
	fonts    *FontRegistry
	loader   *assets.Loader
	resolver *style.Resolver
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	fonts := cfg.fonts
	if fonts == nil {
		var err error
		fonts, err = NewFontRegistry()
		if err != nil {
			// The built-in faces are embedded; failing to parse them is
			// a build problem, not a render problem. Layout falls back
			// to approximate metrics.
			Logger().Warn("built-in fonts unavailable", "err", err)
			fonts = emptyFontRegistry()
		}
	}
	return &Renderer{
		cfg:      cfg,
		fonts:    fonts,
		loader:   assets.NewLoader(cfg.httpClient, Logger()),
		resolver: &style.Resolver{Themes: cfg.themes, Palettes: cfg.palettes},
	}
}

// RenderPage is the convenience one-shot: begin a session, wait for
// completion, close, and return the finished frame.
func (r *Renderer) RenderPage(ctx context.Context, book *model.Book, page *model.Page, width, height int) (image.Image, error) {
	sess := r.Begin(book, page, width, height)
	defer sess.Close()
	return sess.Wait(ctx)
}

// questionText resolves a QnA element's question text.
func (r *Renderer) questionText(book *model.Book, el *model.QnAElement) string {
	if el.QuestionText != "" {
		return el.QuestionText
	}
	if r.cfg.questionLookup != nil {
		if s, ok := r.cfg.questionLookup(el.QuestionID); ok {
			return s
		}
		return ""
	}
	if q, ok := book.Question(el.QuestionID); ok {
		return q.Text
	}
	return ""
}

// answerText resolves a QnA element's answer text for the page's user.
func (r *Renderer) answerText(book *model.Book, page *model.Page, el *model.QnAElement) string {
	if el.AnswerText != "" {
		return el.AnswerText
	}
	userID := el.UserID
	if userID == "" {
		userID, _ = book.UserForPage(page.ID)
	}
	if r.cfg.answerLookup != nil {
		if s, ok := r.cfg.answerLookup(el.QuestionID, userID); ok {
			return s
		}
		return ""
	}
	if a, ok := book.AnswerFor(el.QuestionID, userID); ok {
		return a.Text
	}
	return ""
}
