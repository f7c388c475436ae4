// Package model defines the page/book document model consumed by the
// compositor. Documents arrive as JSON produced by the editing
// application; this package decodes them into closed Go types so that
// rendering code can dispatch exhaustively instead of probing loosely
// typed field bags.
package model

import "encoding/json"

// Book is the top-level document. It owns pages and supplies defaults
// (theme, palette, layout template) for pages that do not set their own.
type Book struct {
	ID               string  `json:"id"`
	Pages            []*Page `json:"pages,omitempty"`
	ThemeID          string  `json:"themeId,omitempty"`
	ColorPaletteID   string  `json:"colorPaletteId,omitempty"`
	LayoutTemplateID string  `json:"layoutTemplateId,omitempty"`

	Questions       []Question       `json:"questions,omitempty"`
	Answers         []Answer         `json:"answers,omitempty"`
	PageAssignments []PageAssignment `json:"pageAssignments,omitempty"`
}

// Question is an entry of the book's question collection.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Answer is a user's answer to a question.
type Answer struct {
	QuestionID string `json:"questionId"`
	UserID     string `json:"userId,omitempty"`
	Text       string `json:"text"`
}

// PageAssignment maps a page to the user whose answers it shows.
type PageAssignment struct {
	PageID string `json:"pageId"`
	UserID string `json:"userId"`
}

// Question looks up a question by id.
func (b *Book) Question(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// AnswerFor looks up an answer by (question id, user id). An empty
// userID matches an answer with no user, falling back to the first
// answer recorded for the question.
func (b *Book) AnswerFor(questionID, userID string) (Answer, bool) {
	var first *Answer
	for i := range b.Answers {
		a := &b.Answers[i]
		if a.QuestionID != questionID {
			continue
		}
		if a.UserID == userID {
			return *a, true
		}
		if first == nil {
			first = a
		}
	}
	if userID == "" && first != nil {
		return *first, true
	}
	return Answer{}, false
}

// UserForPage returns the user assigned to a page, if any.
func (b *Book) UserForPage(pageID string) (string, bool) {
	for _, pa := range b.PageAssignments {
		if pa.PageID == pageID {
			return pa.UserID, true
		}
	}
	return "", false
}

// ThemeFor returns the effective theme id for a page: the page's own
// theme when set, otherwise the book default.
func (b *Book) ThemeFor(p *Page) string {
	if p != nil && p.ThemeID != "" {
		return p.ThemeID
	}
	return b.ThemeID
}

// PaletteFor returns the effective palette id for a page.
func (b *Book) PaletteFor(p *Page) string {
	if p != nil && p.ColorPaletteID != "" {
		return p.ColorPaletteID
	}
	return b.ColorPaletteID
}

// Page is a single renderable page. The element slice order is the
// authoritative z-order baseline: lower index renders further back,
// unless an element carries an explicit ZIndex override.
type Page struct {
	ID                  string               `json:"id"`
	PageNumber          int                  `json:"pageNumber"`
	Background          *Background          `json:"background,omitempty"`
	BackgroundTransform *BackgroundTransform `json:"backgroundTransform,omitempty"`
	Elements            []Element            `json:"-"`
	ThemeID             string               `json:"themeId,omitempty"`
	ColorPaletteID      string               `json:"colorPaletteId,omitempty"`
	LayoutTemplateID    string               `json:"layoutTemplateId,omitempty"`
}

// pageDoc mirrors Page on the wire, holding elements as raw messages so
// they can be dispatched on their type tag.
type pageDoc struct {
	ID                  string               `json:"id"`
	PageNumber          int                  `json:"pageNumber"`
	Background          *Background          `json:"background,omitempty"`
	BackgroundTransform *BackgroundTransform `json:"backgroundTransform,omitempty"`
	Elements            []json.RawMessage    `json:"elements,omitempty"`
	ThemeID             string               `json:"themeId,omitempty"`
	ColorPaletteID      string               `json:"colorPaletteId,omitempty"`
	LayoutTemplateID    string               `json:"layoutTemplateId,omitempty"`
}

// UnmarshalJSON decodes a page, dispatching each element on its "type"
// tag. Elements of unknown type decode to an UnknownElement stub so a
// document from a newer editor degrades to a skipped element rather
// than a decode failure.
func (p *Page) UnmarshalJSON(data []byte) error {
	var doc pageDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.ID = doc.ID
	p.PageNumber = doc.PageNumber
	p.Background = doc.Background
	p.BackgroundTransform = doc.BackgroundTransform
	p.ThemeID = doc.ThemeID
	p.ColorPaletteID = doc.ColorPaletteID
	p.LayoutTemplateID = doc.LayoutTemplateID
	p.Elements = p.Elements[:0]
	for _, raw := range doc.Elements {
		el, err := DecodeElement(raw)
		if err != nil {
			return err
		}
		p.Elements = append(p.Elements, el)
	}
	return nil
}

// MarshalJSON encodes a page with its elements inlined.
func (p *Page) MarshalJSON() ([]byte, error) {
	doc := pageDoc{
		ID:                  p.ID,
		PageNumber:          p.PageNumber,
		Background:          p.Background,
		BackgroundTransform: p.BackgroundTransform,
		ThemeID:             p.ThemeID,
		ColorPaletteID:      p.ColorPaletteID,
		LayoutTemplateID:    p.LayoutTemplateID,
	}
	for _, el := range p.Elements {
		raw, err := EncodeElement(el)
		if err != nil {
			return nil, err
		}
		doc.Elements = append(doc.Elements, raw)
	}
	return json.Marshal(doc)
}

// DecodeBook parses a book document.
func DecodeBook(data []byte) (*Book, error) {
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DecodePage parses a single page document.
func DecodePage(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
