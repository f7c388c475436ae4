package pageproof

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/pageproof/model"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func baseEl(id string, x, y, w, h float64) model.ElementBase {
	return model.ElementBase{ID: id, X: x, Y: y, Width: w, Height: h, ScaleX: 1, ScaleY: 1}
}

func dataURIPNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// rgb8 reads a pixel as 8-bit channels.
func rgb8(img image.Image, x, y int) (r, g, b uint32) {
	r16, g16, b16, _ := img.At(x, y).RGBA()
	return r16 >> 8, g16 >> 8, b16 >> 8
}

func within(v uint32, want uint32, tol uint32) bool {
	d := int(v) - int(want)
	if d < 0 {
		d = -d
	}
	return uint32(d) <= tol
}

func renderTestPage(t *testing.T, book *model.Book, page *model.Page, w, h int) image.Image {
	t.Helper()
	r := New(WithFlushDelay(0))
	img, err := r.RenderPage(testCtx(t), book, page, w, h)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	return img
}

func TestEmptyPageCompletes(t *testing.T) {
	img := renderTestPage(t, &model.Book{}, &model.Page{ID: "empty"}, 64, 64)
	// An empty page is still a finished white frame.
	r, g, b := rgb8(img, 32, 32)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("pixel = (%d, %d, %d), want white", r, g, b)
	}
}

func TestOnCompleteFiresExactlyOnce(t *testing.T) {
	r := New(WithFlushDelay(0))
	sess := r.Begin(&model.Book{}, &model.Page{ID: "p"}, 32, 32)
	defer sess.Close()

	var calls atomic.Int32
	sess.OnComplete(func(image.Image) { calls.Add(1) })
	sess.OnComplete(func(image.Image) { calls.Add(1) })

	if _, err := sess.Wait(testCtx(t)); err != nil {
		t.Fatal(err)
	}
	// Let any duplicate invocation surface.
	time.Sleep(10 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Errorf("callback invocations = %d, want 2 (one per registration)", got)
	}

	// A callback registered after completion runs immediately.
	done := make(chan struct{})
	sess.OnComplete(func(image.Image) { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("late OnComplete never fired")
	}
}

func TestSessionStateStableAfterWait(t *testing.T) {
	r := New(WithFlushDelay(0))
	sess := r.Begin(&model.Book{}, &model.Page{ID: "p"}, 32, 32)
	defer sess.Close()
	if _, err := sess.Wait(testCtx(t)); err != nil {
		t.Fatal(err)
	}
	if got := sess.currentState(); got != stateStable {
		t.Errorf("state = %v, want stable", got)
	}
}

func TestColorBackgroundBlends(t *testing.T) {
	opacity := 0.5
	page := &model.Page{
		ID: "p",
		Background: &model.Background{
			Type:  model.BackgroundColor,
			Color: &model.ColorBackground{Value: "#ff0000", Opacity: opacity},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 100, 100)
	// Half-opaque red over the white stage reads as a pink.
	r, g, b := rgb8(img, 50, 50)
	if !within(r, 255, 2) || !within(g, 128, 4) || !within(b, 128, 4) {
		t.Errorf("pixel = (%d, %d, %d), want ~(255, 128, 128)", r, g, b)
	}
}

func TestImageElementRenders(t *testing.T) {
	blue := color.RGBA{B: 255, A: 255}
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.ImageElement{
				ElementBase: baseEl("img1", 10, 10, 40, 40),
				Src:         dataURIPNG(t, 8, 8, blue),
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 64, 64)
	r, g, b := rgb8(img, 30, 30)
	if !within(b, 255, 4) || !within(r, 0, 4) || !within(g, 0, 4) {
		t.Errorf("pixel inside image = (%d, %d, %d), want blue", r, g, b)
	}
	// Outside the element stays white.
	r, g, b = rgb8(img, 5, 5)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("pixel outside image = (%d, %d, %d), want white", r, g, b)
	}
}

func TestFailedImagePaintsPlaceholderAndCompletes(t *testing.T) {
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.ImageElement{
				ElementBase: baseEl("broken", 8, 8, 32, 32),
				Src:         "data:image/png;base64,not-a-real-image",
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 48, 48)
	// The neutral placeholder fills the element box.
	r, g, b := rgb8(img, 24, 24)
	if !within(r, 0xe8, 4) || !within(g, 0xe8, 4) || !within(b, 0xe8, 4) {
		t.Errorf("pixel = (%d, %d, %d), want placeholder grey", r, g, b)
	}
}

func TestPaintContainsNodePanic(t *testing.T) {
	r := New(WithFlushDelay(0))
	s := r.Begin(&model.Book{}, &model.Page{ID: "p"}, 20, 20)
	t.Cleanup(func() { s.Close() })
	if _, err := s.Wait(testCtx(t)); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	bad := &Node{ElementID: "bad", Role: RoleBorder, Opacity: 1}
	bad.draw = func(*gg.Context, *Node) { panic("draw blew up") }
	good := &Node{ElementID: "good", Role: RoleBorder, Opacity: 1, Seq: 1}
	good.draw = func(dc *gg.Context, _ *Node) {
		dc.SetColor(gg.Hex("#ff0000").Color())
		dc.DrawRectangle(0, 0, 20, 20)
		dc.Fill()
	}
	s.paint(reconcile([]*Node{bad, good}))

	red, g, b := rgb8(s.Image(), 10, 10)
	if !within(red, 0xff, 4) || !within(g, 0, 4) || !within(b, 0, 4) {
		t.Errorf("pixel = (%d, %d, %d), want red from the node after the panicking one", red, g, b)
	}
}

func TestSceneBuildPanicRecordsFaultAndCompletes(t *testing.T) {
	// A background claiming type image without an image payload is
	// malformed beyond defaulting; the build boundary swallows the
	// panic and the pass still delivers a blank frame.
	page := &model.Page{
		ID:         "p",
		Background: &model.Background{Type: model.BackgroundImage},
	}
	r := New(WithFlushDelay(0))
	s := r.Begin(&model.Book{}, page, 10, 10)
	t.Cleanup(func() { s.Close() })
	img, err := s.Wait(testCtx(t))
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if s.Fault() == nil {
		t.Error("Fault() = nil, want the recorded build panic")
	}
	red, g, b := rgb8(img, 5, 5)
	if !within(red, 0xff, 2) || !within(g, 0xff, 2) || !within(b, 0xff, 2) {
		t.Errorf("pixel = (%d, %d, %d), want blank white", red, g, b)
	}
}

func TestRenderBoundarySignalsCompletion(t *testing.T) {
	r := New(WithFlushDelay(0))
	s := &Session{
		r:      r,
		book:   &model.Book{},
		page:   &model.Page{ID: "p"},
		width:  8,
		height: 8,
		dc:     gg.NewContext(8, 8),
		done:   make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	t.Cleanup(s.cancel)

	func() {
		defer s.boundary("render pass")
		panic("stage lost")
	}()

	select {
	case <-s.done:
	default:
		t.Fatal("completion did not fire after a render pass panic")
	}
	if s.Fault() == nil {
		t.Error("Fault() = nil, want the recorded panic")
	}
}

func TestQRCodeElementRenders(t *testing.T) {
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.QRCodeElement{
				ElementBase: baseEl("qr1", 0, 0, 64, 64),
				QRValue:     "https://example.com/book/1",
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 64, 64)
	// A QR bitmap has both dark and light modules inside the box.
	var dark, light bool
	for y := 0; y < 64; y += 2 {
		for x := 0; x < 64; x += 2 {
			r, _, _ := rgb8(img, x, y)
			if r < 64 {
				dark = true
			}
			if r > 192 {
				light = true
			}
		}
	}
	if !dark || !light {
		t.Errorf("dark=%v light=%v, want both", dark, light)
	}
}

func TestRectShapeBakesOpacities(t *testing.T) {
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.ShapeElement{
				ElementBase:       baseEl("r1", 10, 10, 40, 40),
				Shape:             model.KindRect,
				Fill:              "#0000ff",
				BackgroundOpacity: 0.5,
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 64, 64)
	r, g, b := rgb8(img, 30, 30)
	// Half-opaque blue over white blends to a light blue.
	if !within(b, 255, 4) || !within(r, 128, 6) || !within(g, 128, 6) {
		t.Errorf("pixel = (%d, %d, %d), want ~(128, 128, 255)", r, g, b)
	}
}

func TestTextElementPaintsGlyphs(t *testing.T) {
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.TextElement{
				ElementBase: baseEl("t1", 0, 0, 200, 100),
				Text:        "<b>Hello</b>",
				FontSize:    48,
				FontColor:   "#000000",
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 200, 100)
	// Some pixel within the text box must be dark.
	found := false
	for y := 0; y < 100 && !found; y++ {
		for x := 0; x < 200 && !found; x++ {
			r, _, _ := rgb8(img, x, y)
			if r < 128 {
				found = true
			}
		}
	}
	if !found {
		t.Error("no glyph pixels painted")
	}
}

func TestQnAScenario(t *testing.T) {
	book := &model.Book{
		Questions:       []model.Question{{ID: "q1", Text: "Name?"}},
		Answers:         []model.Answer{{QuestionID: "q1", UserID: "u1", Text: "Ada"}},
		PageAssignments: []model.PageAssignment{{PageID: "p", UserID: "u1"}},
	}
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.QnAElement{
				ElementBase: baseEl("qna1", 0, 0, 400, 150),
				QuestionID:  "q1",
				Padding:     8,
				DecorStyle:  model.DecorStyle{RuledLines: true},
			},
		},
	}
	img := renderTestPage(t, book, page, 400, 150)
	// Glyphs and ruled lines both leave non-white pixels.
	nonWhite := 0
	for y := 0; y < 150; y += 3 {
		for x := 0; x < 400; x += 3 {
			r, g, b := rgb8(img, x, y)
			if r < 250 || g < 250 || b < 250 {
				nonWhite++
			}
		}
	}
	if nonWhite < 20 {
		t.Errorf("non-white samples = %d, want a rendered QnA block", nonWhite)
	}
}

func TestEmptyQnASkipped(t *testing.T) {
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.QnAElement{
				ElementBase: baseEl("qna1", 0, 0, 100, 50),
				QuestionID:  "missing",
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 100, 50)
	r, g, b := rgb8(img, 50, 25)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("pixel = (%d, %d, %d), want untouched white", r, g, b)
	}
}

func TestCloseBeforeCompletionSuppressesSignal(t *testing.T) {
	// A server that never responds keeps the session in flight.
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.ImageElement{
				ElementBase: baseEl("slow", 0, 0, 10, 10),
				Src:         srv.URL + "/never.png",
			},
		},
	}
	r := New(WithFlushDelay(0), WithHTTPClient(srv.Client()))
	sess := r.Begin(&model.Book{}, page, 16, 16)

	var fired atomic.Bool
	sess.OnComplete(func(image.Image) { fired.Store(true) })
	sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := sess.Wait(ctx); err == nil {
		t.Error("Wait() on a closed session should error")
	}
	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("completion fired after Close")
	}
}

func TestRotationZeroPivotEquivalence(t *testing.T) {
	page := func() *model.Page {
		return &model.Page{
			ID: "p",
			Elements: []model.Element{
				&model.ShapeElement{
					ElementBase: baseEl("r1", 12, 7, 30, 20),
					Shape:       model.KindRect,
					Fill:        "#ff0000",
					Stroke:      "#000000",
					StrokeWidth: 2,
				},
			},
		}
	}

	direct := renderTestPage(t, &model.Book{}, page(), 64, 48)

	forcePivot = true
	defer func() { forcePivot = false }()
	pivoted := renderTestPage(t, &model.Book{}, page(), 64, 48)

	// At rotation zero the pivot transform must be a no-op: pixel for
	// pixel identical output.
	b := direct.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if direct.At(x, y) != pivoted.At(x, y) {
				t.Fatalf("pixel (%d, %d) differs: %v vs %v", x, y, direct.At(x, y), pivoted.At(x, y))
			}
		}
	}
}

func TestRotatedElementMovesPixels(t *testing.T) {
	mk := func(rot float64) *model.Page {
		el := &model.ShapeElement{
			ElementBase: baseEl("r1", 20, 20, 40, 10),
			Shape:       model.KindRect,
			Fill:        "#000000",
		}
		el.Rotation = rot
		return &model.Page{ID: "p", Elements: []model.Element{el}}
	}
	flat := renderTestPage(t, &model.Book{}, mk(0), 80, 80)
	turned := renderTestPage(t, &model.Book{}, mk(90), 80, 80)

	diff := false
	for y := 0; y < 80 && !diff; y++ {
		for x := 0; x < 80 && !diff; x++ {
			if flat.At(x, y) != turned.At(x, y) {
				diff = true
			}
		}
	}
	if !diff {
		t.Error("90 degree rotation produced identical output")
	}
}

func TestEncodePNG(t *testing.T) {
	r := New(WithFlushDelay(0))
	sess := r.Begin(&model.Book{}, &model.Page{ID: "p"}, 16, 16)
	defer sess.Close()
	if _, err := sess.Wait(testCtx(t)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := sess.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("decoded bounds = %v, want 16x16", b)
	}
}

func TestZOrderOverride(t *testing.T) {
	// The later element would normally cover the earlier one; a higher
	// explicit z-index on the first inverts that.
	zTop := 10
	page := &model.Page{
		ID: "p",
		Elements: []model.Element{
			&model.ShapeElement{
				ElementBase: func() model.ElementBase {
					b := baseEl("red", 0, 0, 40, 40)
					b.ZIndex = &zTop
					return b
				}(),
				Shape: model.KindRect,
				Fill:  "#ff0000",
			},
			&model.ShapeElement{
				ElementBase: baseEl("blue", 0, 0, 40, 40),
				Shape:       model.KindRect,
				Fill:        "#0000ff",
			},
		},
	}
	img := renderTestPage(t, &model.Book{}, page, 40, 40)
	r, _, b := rgb8(img, 20, 20)
	if !within(r, 255, 4) || !within(b, 0, 4) {
		t.Errorf("pixel = r%d b%d, want red on top via z-index override", r, b)
	}
}
