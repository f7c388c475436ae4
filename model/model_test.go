package model

import (
	"encoding/json"
	"testing"
)

func TestDecodePageElementDispatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"text", `{"type":"text","id":"t1","x":10,"y":20,"width":100,"height":50,"text":"hi"}`, KindText},
		{"free text", `{"type":"free_text","id":"f1","text":"hi"}`, KindFreeText},
		{"qna", `{"type":"qna","id":"q1","questionId":"Q"}`, KindQnA},
		{"image", `{"type":"image","id":"i1","src":"a.png"}`, KindImage},
		{"sticker", `{"type":"sticker","id":"s1","src":"b.png"}`, KindSticker},
		{"rect", `{"type":"rect","id":"r1"}`, KindRect},
		{"circle", `{"type":"circle","id":"c1"}`, KindCircle},
		{"line", `{"type":"line","id":"l1"}`, KindLine},
		{"polygon", `{"type":"polygon","id":"p1"}`, KindPolygon},
		{"qr", `{"type":"qr_code","id":"qr1","qrValue":"x"}`, KindQRCode},
		{"placeholder", `{"type":"placeholder","id":"ph1"}`, KindPlaceholder},
		{"brush", `{"type":"brush-multicolor","id":"b1"}`, KindBrush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := DecodeElement(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("DecodeElement() error = %v", err)
			}
			if el.Kind() != tt.want {
				t.Errorf("Kind() = %q, want %q", el.Kind(), tt.want)
			}
		})
	}
}

func TestDecodeElementUnknownType(t *testing.T) {
	raw := `{"type":"hologram","id":"h1","x":5,"width":10,"height":10,"custom":true}`
	el, err := DecodeElement(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("DecodeElement() error = %v", err)
	}
	u, ok := el.(*UnknownElement)
	if !ok {
		t.Fatalf("DecodeElement() = %T, want *UnknownElement", el)
	}
	if u.Type != "hologram" {
		t.Errorf("Type = %q, want %q", u.Type, "hologram")
	}
	if u.Base().X != 5 {
		t.Errorf("X = %v, want 5", u.Base().X)
	}

	// Re-encoding must emit the original document unchanged.
	out, err := EncodeElement(u)
	if err != nil {
		t.Fatalf("EncodeElement() error = %v", err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if got["custom"] != want["custom"] || got["type"] != want["type"] {
		t.Errorf("round-trip = %v, want %v", got, want)
	}
}

func TestElementBaseDefaults(t *testing.T) {
	el, err := DecodeElement(json.RawMessage(`{"type":"text","id":"t","width":100,"height":40,"text":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	b := el.Base()
	if b.ScaleX != 1 || b.ScaleY != 1 {
		t.Errorf("scale defaults = (%v, %v), want (1, 1)", b.ScaleX, b.ScaleY)
	}
	if got := b.EffectiveOpacity(); got != 1 {
		t.Errorf("EffectiveOpacity() = %v, want 1", got)
	}
	if got := b.EffectiveWidth(); got != 100 {
		t.Errorf("EffectiveWidth() = %v, want 100", got)
	}
}

func TestElementBaseEffectiveScale(t *testing.T) {
	raw := `{"type":"image","id":"i","width":100,"height":40,"scaleX":2,"scaleY":0.5,"opacity":0.3,"src":"a"}`
	el, err := DecodeElement(json.RawMessage(raw))
	if err != nil {
		t.Fatal(err)
	}
	b := el.Base()
	if got := b.EffectiveWidth(); got != 200 {
		t.Errorf("EffectiveWidth() = %v, want 200", got)
	}
	if got := b.EffectiveHeight(); got != 20 {
		t.Errorf("EffectiveHeight() = %v, want 20", got)
	}
	if got := b.EffectiveOpacity(); got != 0.3 {
		t.Errorf("EffectiveOpacity() = %v, want 0.3", got)
	}
}

func TestDecodePage(t *testing.T) {
	raw := `{
		"id": "p1",
		"background": {"type": "color", "value": "#ff0000", "opacity": 0.5},
		"elements": [
			{"type": "text", "id": "t1", "text": "hello"},
			{"type": "warp", "id": "w1"}
		]
	}`
	page, err := DecodePage([]byte(raw))
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}
	if page.ID != "p1" {
		t.Errorf("ID = %q, want %q", page.ID, "p1")
	}
	if len(page.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(page.Elements))
	}
	if page.Elements[0].Kind() != KindText {
		t.Errorf("Elements[0].Kind() = %q, want text", page.Elements[0].Kind())
	}
	if _, ok := page.Elements[1].(*UnknownElement); !ok {
		t.Errorf("Elements[1] = %T, want *UnknownElement", page.Elements[1])
	}
	if page.Background == nil || page.Background.Type != BackgroundColor {
		t.Fatal("background not decoded as color")
	}
	if page.Background.Color.Opacity != 0.5 {
		t.Errorf("background opacity = %v, want 0.5", page.Background.Color.Opacity)
	}
}

func TestBackgroundUnion(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, b *Background)
	}{
		{
			"color defaults opaque",
			`{"type":"color","value":"#abc"}`,
			func(t *testing.T, b *Background) {
				if b.Color == nil || b.Color.Opacity != 1 {
					t.Fatalf("color = %+v, want opacity 1", b.Color)
				}
			},
		},
		{
			"pattern",
			`{"type":"pattern","value":"dots","patternForegroundColor":"#111","patternSize":32}`,
			func(t *testing.T, b *Background) {
				if b.Pattern == nil {
					t.Fatal("pattern payload nil")
				}
				if b.Pattern.Value != "dots" || b.Pattern.Size != 32 {
					t.Errorf("pattern = %+v", b.Pattern)
				}
			},
		},
		{
			"image defaults cover center",
			`{"type":"image","imageSrc":"bg.png"}`,
			func(t *testing.T, b *Background) {
				if b.Image == nil {
					t.Fatal("image payload nil")
				}
				if b.Image.Size != SizeCover {
					t.Errorf("Size = %q, want cover", b.Image.Size)
				}
				if b.Image.Position != AnchorCenter {
					t.Errorf("Position = %q, want center", b.Image.Position)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Background
			if err := json.Unmarshal([]byte(tt.raw), &b); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			tt.check(t, &b)
		})
	}
}

func TestBackgroundRoundTrip(t *testing.T) {
	in := Background{
		Type: BackgroundImage,
		Image: &ImageBackground{
			Src:          "bg.png",
			Size:         SizeContain,
			Position:     AnchorBottomRight,
			Repeat:       true,
			ColorEnabled: true,
			Color:        "#fafafa",
			Opacity:      0.8,
		},
	}
	data, err := json.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	var out Background
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if *out.Image != *in.Image {
		t.Errorf("round-trip image = %+v, want %+v", out.Image, in.Image)
	}
}

func TestBookLookups(t *testing.T) {
	book := Book{
		Questions: []Question{{ID: "q1", Text: "What?"}},
		Answers: []Answer{
			{QuestionID: "q1", UserID: "u1", Text: "first"},
			{QuestionID: "q1", UserID: "u2", Text: "second"},
		},
		PageAssignments: []PageAssignment{{PageID: "p1", UserID: "u2"}},
	}

	q, ok := book.Question("q1")
	if !ok || q.Text != "What?" {
		t.Errorf("Question(q1) = %+v, %v", q, ok)
	}
	if _, ok := book.Question("missing"); ok {
		t.Error("Question(missing) should not be found")
	}

	a, ok := book.AnswerFor("q1", "u2")
	if !ok || a.Text != "second" {
		t.Errorf("AnswerFor(q1, u2) = %+v, %v", a, ok)
	}

	// Empty user falls back to the first recorded answer.
	a, ok = book.AnswerFor("q1", "")
	if !ok || a.Text != "first" {
		t.Errorf("AnswerFor(q1, \"\") = %+v, %v", a, ok)
	}

	user, ok := book.UserForPage("p1")
	if !ok || user != "u2" {
		t.Errorf("UserForPage(p1) = %q, %v", user, ok)
	}
}

func TestThemeAndPaletteOverrides(t *testing.T) {
	book := Book{ThemeID: "book-theme", ColorPaletteID: "book-pal"}
	plain := Page{ID: "p1"}
	override := Page{ID: "p2", ThemeID: "page-theme", ColorPaletteID: "page-pal"}

	if got := book.ThemeFor(&plain); got != "book-theme" {
		t.Errorf("ThemeFor(plain) = %q, want book-theme", got)
	}
	if got := book.ThemeFor(&override); got != "page-theme" {
		t.Errorf("ThemeFor(override) = %q, want page-theme", got)
	}
	if got := book.PaletteFor(&override); got != "page-pal" {
		t.Errorf("PaletteFor(override) = %q, want page-pal", got)
	}
}
