package pageproof

import (
	"context"
	"html"
	"image"
	"math"

	"github.com/gogpu/gg"
	strip "github.com/grokify/html-strip-tags-go"

	"github.com/gogpu/pageproof/assets"
	"github.com/gogpu/pageproof/background"
	"github.com/gogpu/pageproof/border"
	"github.com/gogpu/pageproof/layout"
	"github.com/gogpu/pageproof/model"
	"github.com/gogpu/pageproof/style"
)

// forcePivot routes even unrotated elements through the rotation pivot
// transform. Enabled only by tests to verify the direct and pivot
// paths paint identical pixels at rotation zero.
var forcePivot bool

// buildScene walks the page and materializes its node list. Elements
// build in array order; their final stacking order is decided later by
// the reconciler.
func (s *Session) buildScene() {
	s.buildBackground()
	for i, el := range s.page.Elements {
		s.buildElement(i, el)
	}
}

// addNode registers a node in the scene.
func (s *Session) addNode(n *Node) *Node {
	n.Seq = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return n
}

// zIndexOf returns an element's stacking index: its array position
// unless an explicit z-index override is set.
func zIndexOf(i int, b *model.ElementBase) int {
	if b.ZIndex != nil {
		return *b.ZIndex
	}
	return i
}

// elementNode creates a node carrying an element's geometry and
// opacity.
func elementNode(z int, b *model.ElementBase, role Role) *Node {
	return &Node{
		ElementID: b.ID,
		Z:         z,
		Role:      role,
		Opacity:   b.EffectiveOpacity(),
		X:         b.X,
		Y:         b.Y,
		W:         b.EffectiveWidth(),
		H:         b.EffectiveHeight(),
	}
}

func (s *Session) buildElement(i int, el model.Element) {
	z := zIndexOf(i, el.Base())
	switch e := el.(type) {
	case *model.TextElement:
		s.buildText(z, e)
	case *model.FreeTextElement:
		s.buildText(z, &e.TextElement)
	case *model.QnAElement:
		s.buildQnA(z, e)
	case *model.ImageElement:
		s.buildImage(z, e)
	case *model.StickerElement:
		s.buildSticker(z, e)
	case *model.ShapeElement:
		s.buildShape(z, e)
	case *model.QRCodeElement:
		s.buildQRCode(z, e)
	case *model.BrushElement:
		s.buildBrush(z, e)
	case *model.PlaceholderElement:
		Logger().Debug("skipping placeholder element", "session", s.id.String(), "element", e.ID)
	case *model.UnknownElement:
		Logger().Warn("skipping unknown element", "session", s.id.String(), "element", e.ID, "type", e.Type)
	default:
		Logger().Warn("skipping unhandled element", "session", s.id.String(), "element", el.Base().ID, "type", el.Kind())
	}
}

// plainText reduces rich text to the plain text the print pipeline
// renders: markup stripped, entities unescaped.
func plainText(s string) string {
	return html.UnescapeString(strip.StripTags(s))
}

// withElement runs draw inside an element's local coordinate space:
// origin at the element's top-left corner, pre-scale units. Rotation
// pivots around the element's effective center.
func withElement(dc *gg.Context, b *model.ElementBase, draw func()) {
	dc.Push()
	defer dc.Pop()
	if b.Rotation != 0 || forcePivot {
		cx := b.X + b.EffectiveWidth()/2
		cy := b.Y + b.EffectiveHeight()/2
		dc.RotateAbout(b.Rotation*math.Pi/180, cx, cy)
	}
	dc.Translate(b.X, b.Y)
	dc.Scale(b.ScaleX, b.ScaleY)
	draw()
}

// hexAlpha converts a hex color to an RGBA with the alpha baked in.
func hexAlpha(hex string, alpha float64) gg.RGBA {
	c := gg.Hex(hex)
	if alpha < 1 {
		c.A *= alpha
	}
	return c
}

// opacityOr1 treats an absent (zero) opacity field as fully opaque.
func opacityOr1(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Page background.

func (s *Session) buildBackground() {
	pal := s.paletteFunc()
	fill, err := background.Resolve(s.page.Background, s.page.BackgroundTransform, float64(s.width), float64(s.height), pal)
	if err != nil {
		Logger().Warn("background resolve failed", "session", s.id.String(), "page", s.page.ID, "err", err)
		return
	}
	switch fill.Kind {
	case background.KindNone:
		return
	case background.KindColor:
		s.addColorBackground(fill)
	case background.KindPattern:
		s.addPatternBackground(fill)
	case background.KindImage:
		s.addImageBackground(fill)
	}
}

func (s *Session) paletteFunc() background.PaletteFunc {
	pal := s.book.PaletteFor(s.page)
	store := s.r.resolver.Palettes
	return func(v string) string {
		if store == nil {
			return v
		}
		return store.ResolveColor(pal, v)
	}
}

func backgroundNode(opacity float64) *Node {
	return &Node{PageBackground: true, Role: RoleBackground, Opacity: opacityOr1(opacity)}
}

func (s *Session) addColorBackground(fill background.Fill) {
	n := backgroundNode(1)
	color := hexAlpha(fill.Color, opacityOr1(fill.Opacity))
	n.draw = func(dc *gg.Context, _ *Node) {
		dc.SetColor(color.Color())
		dc.DrawRectangle(0, 0, float64(s.width), float64(s.height))
		dc.Fill()
	}
	s.addNode(n)
}

func (s *Session) addPatternBackground(fill background.Fill) {
	n := backgroundNode(fill.Opacity)
	tile := fill.Tile
	n.draw = func(dc *gg.Context, _ *Node) {
		cell := background.RenderTile(tile)
		defer cell.Close()
		buf := gg.ImageBufFromImage(cell.Image())
		pattern := dc.CreateImagePattern(buf, 0, 0, cell.Width(), cell.Height())
		dc.SetFillPattern(pattern)
		dc.DrawRectangle(0, 0, float64(s.width), float64(s.height))
		dc.Fill()
	}
	s.addNode(n)
}

func (s *Session) addImageBackground(fill background.Fill) {
	img := fill.Image
	bg := s.page.Background.Image
	var tr model.BackgroundTransform
	if s.page.BackgroundTransform != nil {
		tr = *s.page.BackgroundTransform
	}
	n := backgroundNode(fill.Opacity)
	n.draw = func(dc *gg.Context, node *Node) {
		canvasW, canvasH := float64(s.width), float64(s.height)
		if img.UnderColor != "" {
			dc.SetColor(gg.Hex(img.UnderColor).Color())
			dc.DrawRectangle(0, 0, canvasW, canvasH)
			dc.Fill()
		}
		src := node.Image()
		if src == nil {
			// Still loading or failed. A failed page background paints
			// white, never a hole.
			if node.Failed() {
				dc.SetColor(gg.White.Color())
				dc.DrawRectangle(0, 0, canvasW, canvasH)
				dc.Fill()
			}
			return
		}
		if img.Mirror {
			src = assets.Mirror(src)
		}
		b := src.Bounds()
		p := background.Place(float64(b.Dx()), float64(b.Dy()), canvasW, canvasH, background.PlaceOptions{
			Mode:                bg.Size,
			Anchor:              bg.Position,
			ContainWidthPercent: bg.ContainWidthPercent,
			Transform:           tr,
		})
		buf := gg.ImageBufFromImage(src)
		if img.Repeat {
			drawRepeated(dc, buf, p, canvasW, canvasH)
			return
		}
		dc.DrawImageEx(buf, gg.DrawImageOptions{X: p.X, Y: p.Y, DstWidth: p.W, DstHeight: p.H, Opacity: 1})
	}
	s.addNode(n)
	src := s.r.cfg.resolveSource(img.Src)
	s.track(n, func(ctx context.Context) (image.Image, error) {
		return s.r.loader.FetchImage(ctx, src)
	})
}

// drawRepeated tiles a placed image across the canvas, phase-aligned
// with the base placement.
func drawRepeated(dc *gg.Context, buf *gg.ImageBuf, p background.Placement, canvasW, canvasH float64) {
	if p.W <= 0 || p.H <= 0 {
		return
	}
	startX := math.Mod(p.X, p.W)
	if startX > 0 {
		startX -= p.W
	}
	startY := math.Mod(p.Y, p.H)
	if startY > 0 {
		startY -= p.H
	}
	for y := startY; y < canvasH; y += p.H {
		for x := startX; x < canvasW; x += p.W {
			dc.DrawImageEx(buf, gg.DrawImageOptions{X: x, Y: y, DstWidth: p.W, DstHeight: p.H, Opacity: 1})
		}
	}
}

// Text and QnA.

// layoutStyle converts a resolved text style into its layout slice,
// attaching the measured face.
func (s *Session) layoutStyle(st style.TextStyle) layout.Style {
	return layout.Style{
		Face:        s.r.fonts.Face(st.FontFamily, st.Bold, st.Italic, st.FontSize),
		Size:        st.FontSize,
		Color:       st.FontColor,
		Opacity:     1,
		SpacingMult: st.ParagraphSpacing.Multiplier(),
	}
}

func (s *Session) buildText(z int, el *model.TextElement) {
	st := s.r.resolver.Text(s.book, s.page, el)
	ls := s.layoutStyle(st)
	res := layout.LayoutText(plainText(el.Text), ls, layout.Options{
		Width:   el.Width,
		Height:  el.Height,
		Padding: el.Padding,
		Align:   st.Align,
	})
	s.addDecorNodes(z, &el.ElementBase, &el.DecorStyle, style.ToolText, ls.LineHeight(), el.Padding)
	s.addRunsNode(z, &el.ElementBase, res.Runs)
}

func (s *Session) buildQnA(z int, el *model.QnAElement) {
	question := plainText(s.r.questionText(s.book, el))
	answer := plainText(s.r.answerText(s.book, s.page, el))

	qs, as := s.r.resolver.QnA(s.book, s.page, el)
	lqs, las := s.layoutStyle(qs), s.layoutStyle(as)

	variant := layout.Variant(el.LayoutVariant)
	if variant == "" {
		variant = layout.VariantInline
	}
	res, err := layout.LayoutQnA(question, answer, lqs, las, layout.QnAOptions{
		Options: layout.Options{
			Width:   el.Width,
			Height:  el.Height,
			Padding: el.Padding,
			Align:   qs.Align,
		},
		Variant:          variant,
		QuestionPosition: layout.Position(el.QuestionPosition),
		Gap:              el.BlockGap,
	})
	if err != nil {
		Logger().Debug("skipping empty qna element", "session", s.id.String(), "element", el.ID, "question", el.QuestionID)
		return
	}

	lineHeight := las.LineHeight()
	if len(res.Lines) > 0 {
		lineHeight = res.Lines[0].Height
	}
	s.addDecorNodes(z, &el.ElementBase, &el.DecorStyle, style.ToolQnA, lineHeight, el.Padding)
	s.addRunsNode(z, &el.ElementBase, res.Runs)
}

// addDecorNodes emits the background, ruled-line, and border nodes a
// decorated text block carries. Ruled lines cover the whole box, not
// just the occupied slots, so an answer shorter than its box still
// gets the lined-paper look.
func (s *Session) addDecorNodes(z int, base *model.ElementBase, decor *model.DecorStyle, tool style.ToolType, lineHeight, padding float64) {
	if bg := s.r.resolver.Background(s.book, s.page, decor, tool); bg.Enabled {
		n := elementNode(z, base, RoleBackground)
		color := hexAlpha(bg.Color, bg.Opacity)
		n.draw = func(dc *gg.Context, _ *Node) {
			withElement(dc, base, func() {
				dc.SetColor(color.Color())
				dc.DrawRectangle(0, 0, base.Width, base.Height)
				dc.Fill()
			})
		}
		s.addNode(n)
	}
	if rl := s.r.resolver.RuledLines(s.book, s.page, decor, tool); rl.Enabled && lineHeight > 0 {
		n := elementNode(z, base, RoleRuledLine)
		ys := layout.RuledLineYs(lineHeight, base.Height, padding)
		n.draw = func(dc *gg.Context, _ *Node) {
			withElement(dc, base, func() {
				dc.SetColor(gg.Hex(rl.Color).Color())
				dc.SetLineWidth(rl.Width)
				for _, y := range ys {
					dc.DrawLine(padding, y, base.Width-padding, y)
					dc.Stroke()
				}
			})
		}
		s.addNode(n)
	}
	if bd := s.r.resolver.Border(s.book, s.page, decor, tool); bd.Enabled {
		n := elementNode(z, base, RoleBorder)
		shape := border.Shape{
			Kind: border.KindRect,
			W:    base.Width, H: base.Height,
			ElementID: base.ID,
			Role:      border.RoleBorder,
		}
		theme := border.Theme(bd.Theme)
		st := border.Style{Color: bd.Color, Width: bd.Width}
		n.draw = func(dc *gg.Context, _ *Node) {
			withElement(dc, base, func() {
				strokeThemed(dc, shape, theme, st)
			})
		}
		s.addNode(n)
	}
}

// addRunsNode emits the text node painting positioned runs.
func (s *Session) addRunsNode(z int, base *model.ElementBase, runs []layout.Run) {
	if len(runs) == 0 {
		return
	}
	n := elementNode(z, base, RoleText)
	n.draw = func(dc *gg.Context, _ *Node) {
		withElement(dc, base, func() {
			for _, run := range runs {
				if run.Style.Face == nil {
					continue
				}
				dc.SetFont(run.Style.Face)
				dc.SetColor(gg.Hex(run.Style.Color).Color())
				dc.DrawString(run.Text, run.X, run.Y)
			}
		})
	}
	s.addNode(n)
}

// Images and stickers.

func (s *Session) buildImage(z int, el *model.ImageElement) {
	n := elementNode(z, el.Base(), RoleImage)
	n.draw = func(dc *gg.Context, node *Node) {
		withElement(dc, &el.ElementBase, func() {
			drawLoadedImage(dc, node, el.Width, el.Height)
		})
	}
	s.addNode(n)

	src := s.r.cfg.resolveSource(el.Src)
	s.track(n, func(ctx context.Context) (image.Image, error) {
		img, err := s.r.loader.FetchImage(ctx, src)
		if err != nil {
			return nil, err
		}
		if el.HasCrop() {
			return assets.CropRect(img, el.CropX, el.CropY, el.CropWidth, el.CropHeight), nil
		}
		return assets.CropToAspect(img, el.EffectiveWidth(), el.EffectiveHeight(), el.CropAnchor), nil
	})

	if frame := s.r.resolver.ImageFrame(s.book, s.page, el); frame.Enabled {
		fn := elementNode(z, el.Base(), RoleFrame)
		fn.FramePart = true
		shape := border.Shape{
			Kind: border.KindRect,
			W:    el.Width, H: el.Height,
			ElementID: el.ID,
			Role:      border.RoleFrame,
		}
		theme := border.Theme(frame.Theme)
		st := border.Style{Color: frame.Color, Width: frame.Width}
		fn.draw = func(dc *gg.Context, _ *Node) {
			withElement(dc, &el.ElementBase, func() {
				strokeThemed(dc, shape, theme, st)
			})
		}
		s.addNode(fn)
	}
}

// drawLoadedImage paints a node's resolved image into the element box,
// or the neutral placeholder when the load failed.
func drawLoadedImage(dc *gg.Context, node *Node, w, h float64) {
	if node.Failed() {
		dc.SetColor(gg.Hex("#e8e8e8").Color())
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		dc.SetColor(gg.Hex("#c0c0c0").Color())
		dc.SetLineWidth(1)
		dc.DrawRectangle(0, 0, w, h)
		dc.Stroke()
		return
	}
	img := node.Image()
	if img == nil {
		return
	}
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{DstWidth: w, DstHeight: h, Opacity: 1})
}

func (s *Session) buildSticker(z int, el *model.StickerElement) {
	n := elementNode(z, el.Base(), RoleImage)
	n.draw = func(dc *gg.Context, node *Node) {
		withElement(dc, &el.ElementBase, func() {
			drawLoadedImage(dc, node, el.Width, el.Height)
		})
	}
	s.addNode(n)

	src := s.r.cfg.resolveSource(el.Src)
	s.track(n, func(ctx context.Context) (image.Image, error) {
		return s.r.loader.FetchImage(ctx, src)
	})

	if el.Caption == "" {
		return
	}
	size := el.CaptionSize
	if size <= 0 {
		size = 16
	}
	color := el.CaptionColor
	if color == "" {
		color = "#000000"
	}
	face := s.r.fonts.Face(DefaultFontFamily, false, false, size)
	cn := elementNode(z, el.Base(), RoleText)
	cn.draw = func(dc *gg.Context, _ *Node) {
		if face == nil {
			return
		}
		withElement(dc, &el.ElementBase, func() {
			dc.SetFont(face)
			dc.SetColor(gg.Hex(color).Color())
			dc.DrawStringAnchored(el.Caption, el.Width/2, el.Height+size*1.2, 0.5, 0.5)
		})
	}
	s.addNode(cn)
}

// Shapes.

func (s *Session) buildShape(z int, el *model.ShapeElement) {
	n := elementNode(z, el.Base(), RoleBorder)
	switch el.Shape {
	case model.KindRect:
		n.draw = s.rectDraw(el)
	case model.KindCircle:
		n.draw = s.circleDraw(el)
	case model.KindLine:
		n.draw = s.lineDraw(el)
	case model.KindPolygon:
		n.draw = s.polygonDraw(el)
	default:
		Logger().Warn("skipping unknown shape", "session", s.id.String(), "element", el.ID, "shape", el.Shape)
		return
	}
	s.addNode(n)
}

// rectDraw honors the rect's independent background and border
// opacities by baking them into the colors, so the rect's fill and
// stroke fade independently while the element layer stays opaque.
func (s *Session) rectDraw(el *model.ShapeElement) func(*gg.Context, *Node) {
	shape := border.Shape{
		Kind: border.KindRect,
		W:    el.Width, H: el.Height,
		ElementID: el.ID,
		Role:      border.RoleBorder,
	}
	theme := border.Theme(el.Theme)
	fill := ""
	if el.Fill != "" {
		fill = el.Fill
	}
	st := border.Style{Color: el.Stroke, Width: strokeWidthOf(el), Fill: fill}
	bgAlpha := opacityOr1(el.BackgroundOpacity)
	bdAlpha := opacityOr1(el.BorderOpacity)
	return func(dc *gg.Context, _ *Node) {
		withElement(dc, &el.ElementBase, func() {
			if fill != "" {
				dc.SetColor(hexAlpha(fill, bgAlpha).Color())
				dc.DrawRectangle(0, 0, el.Width, el.Height)
				dc.Fill()
			}
			if el.Stroke != "" {
				faded := st
				faded.Fill = ""
				strokeThemedAlpha(dc, shape, theme, faded, bdAlpha)
			}
		})
	}
}

func (s *Session) circleDraw(el *model.ShapeElement) func(*gg.Context, *Node) {
	shape := border.Shape{
		Kind: border.KindCircle,
		W:    el.Width, H: el.Height,
		ElementID: el.ID,
		Role:      border.RoleBorder,
	}
	theme := border.Theme(el.Theme)
	st := border.Style{Color: el.Stroke, Width: strokeWidthOf(el)}
	return func(dc *gg.Context, _ *Node) {
		withElement(dc, &el.ElementBase, func() {
			if el.Fill != "" {
				dc.SetColor(gg.Hex(el.Fill).Color())
				dc.DrawEllipse(el.Width/2, el.Height/2, el.Width/2, el.Height/2)
				dc.Fill()
			}
			if el.Stroke != "" {
				strokeThemed(dc, shape, theme, st)
			}
		})
	}
}

func (s *Session) lineDraw(el *model.ShapeElement) func(*gg.Context, *Node) {
	x1, y1, x2, y2 := 0.0, 0.0, el.Width, el.Height
	if len(el.Points) >= 2 {
		x1, y1 = el.Points[0].X, el.Points[0].Y
		x2, y2 = el.Points[1].X, el.Points[1].Y
	}
	shape := border.Shape{
		Kind: border.KindLine,
		X:    x1, Y: y1, X2: x2, Y2: y2,
		ElementID: el.ID,
		Role:      border.RoleBorder,
	}
	theme := border.Theme(el.Theme)
	st := border.Style{Color: el.Stroke, Width: strokeWidthOf(el)}
	return func(dc *gg.Context, _ *Node) {
		withElement(dc, &el.ElementBase, func() {
			strokeThemed(dc, shape, theme, st)
		})
	}
}

func (s *Session) polygonDraw(el *model.ShapeElement) func(*gg.Context, *Node) {
	width := strokeWidthOf(el)
	return func(dc *gg.Context, _ *Node) {
		if len(el.Points) < 2 {
			return
		}
		withElement(dc, &el.ElementBase, func() {
			dc.ClearPath()
			dc.MoveTo(el.Points[0].X, el.Points[0].Y)
			for _, p := range el.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.ClosePath()
			if el.Fill != "" {
				dc.SetColor(gg.Hex(el.Fill).Color())
				dc.FillPreserve()
			}
			if el.Stroke != "" {
				dc.SetColor(gg.Hex(el.Stroke).Color())
				dc.SetLineWidth(width)
				dc.SetLineJoin(gg.LineJoinRound)
				dc.Stroke()
			}
			dc.ClearPath()
		})
	}
}

func strokeWidthOf(el *model.ShapeElement) float64 {
	if el.StrokeWidth > 0 {
		return el.StrokeWidth
	}
	return 2
}

// QR codes.

func (s *Session) buildQRCode(z int, el *model.QRCodeElement) {
	if el.QRValue == "" {
		Logger().Debug("skipping qr element without value", "session", s.id.String(), "element", el.ID)
		return
	}
	n := elementNode(z, el.Base(), RoleImage)
	n.draw = func(dc *gg.Context, node *Node) {
		withElement(dc, &el.ElementBase, func() {
			drawLoadedImage(dc, node, el.Width, el.Height)
		})
	}
	s.addNode(n)

	fg := gg.Hex(firstHex(el.QRForegroundColor, "#000000")).Color()
	bg := gg.Hex(firstHex(el.QRBackgroundColor, "#ffffff")).Color()
	side := assets.QRSide(math.Min(el.EffectiveWidth(), el.EffectiveHeight()))
	s.trackQR(n, func(context.Context) (image.Image, error) {
		return assets.QRImage(el.QRValue, fg, bg, side)
	})
}

func firstHex(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Brush strokes.

func (s *Session) buildBrush(z int, el *model.BrushElement) {
	if len(el.Points) < 2 {
		return
	}
	n := elementNode(z, el.Base(), RoleBorder)
	width := el.StrokeWidth
	if width <= 0 {
		width = 4
	}
	n.draw = func(dc *gg.Context, _ *Node) {
		withElement(dc, &el.ElementBase, func() {
			dc.SetLineWidth(width)
			dc.SetLineCap(gg.LineCapRound)
			for i := 0; i < len(el.Points)-1; i++ {
				dc.SetColor(gg.Hex(brushColorAt(el.Colors, i)).Color())
				p, q := el.Points[i], el.Points[i+1]
				dc.DrawLine(p.X, p.Y, q.X, q.Y)
				dc.Stroke()
			}
		})
	}
	s.addNode(n)
}

// brushColorAt returns the color of segment i. The editor records one
// color per segment run; a short color list clamps to its last entry.
func brushColorAt(colors []string, i int) string {
	if len(colors) == 0 {
		return "#000000"
	}
	if i >= len(colors) {
		return colors[len(colors)-1]
	}
	return colors[i]
}

// Themed stroke execution.

// strokeThemed strokes a shape under its theme: a generated path when
// the theme produces one, the plain primitive otherwise.
func strokeThemed(dc *gg.Context, shape border.Shape, theme border.Theme, st border.Style) {
	strokeThemedAlpha(dc, shape, theme, st, 1)
}

func strokeThemedAlpha(dc *gg.Context, shape border.Shape, theme border.Theme, st border.Style, alpha float64) {
	cmds := border.GeneratePath(shape, theme, st)
	props := border.StrokeProps(shape, theme, st)

	trace := func() {
		dc.ClearPath()
		if cmds != nil {
			execPath(dc, cmds)
			return
		}
		tracePrimitive(dc, shape)
	}

	if props.ShadowColor != "" {
		drawGlow(dc, trace, props, alpha)
	}

	applyStrokeProps(dc, props)
	dc.SetColor(hexAlpha(props.Stroke, alpha).Color())
	trace()
	dc.Stroke()
	dc.ClearDash()
	dc.ClearPath()
}

// drawGlow emulates a blurred shadow with layered strokes of growing
// width and falling alpha underneath the main stroke.
func drawGlow(dc *gg.Context, trace func(), props border.Props, alpha float64) {
	const layers = 4
	for i := layers; i >= 1; i-- {
		t := float64(i) / layers
		c := hexAlpha(props.ShadowColor, alpha*0.15*(1-t+0.25))
		dc.SetColor(c.Color())
		dc.SetLineWidth(props.StrokeWidth + props.ShadowBlur*2*t)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		trace()
		dc.Stroke()
	}
}

func applyStrokeProps(dc *gg.Context, props border.Props) {
	dc.SetLineWidth(props.StrokeWidth)
	if props.RoundCap {
		dc.SetLineCap(gg.LineCapRound)
	} else {
		dc.SetLineCap(gg.LineCapButt)
	}
	if props.RoundJoin {
		dc.SetLineJoin(gg.LineJoinRound)
	} else {
		dc.SetLineJoin(gg.LineJoinMiter)
	}
	if len(props.Dash) > 0 {
		dc.SetDash(props.Dash...)
	} else {
		dc.ClearDash()
	}
}

// execPath replays generated path commands onto the context.
func execPath(dc *gg.Context, cmds []border.PathCmd) {
	for _, c := range cmds {
		switch c.Op {
		case border.OpMoveTo:
			dc.MoveTo(c.X, c.Y)
		case border.OpLineTo:
			dc.LineTo(c.X, c.Y)
		case border.OpQuadTo:
			dc.QuadraticTo(c.CX, c.CY, c.X, c.Y)
		case border.OpClose:
			dc.ClosePath()
		}
	}
}

// tracePrimitive traces the plain geometry for themes without path
// generation.
func tracePrimitive(dc *gg.Context, shape border.Shape) {
	switch shape.Kind {
	case border.KindRect:
		dc.DrawRectangle(shape.X, shape.Y, shape.W, shape.H)
	case border.KindCircle:
		dc.DrawEllipse(shape.X+shape.W/2, shape.Y+shape.H/2, shape.W/2, shape.H/2)
	case border.KindLine:
		dc.MoveTo(shape.X, shape.Y)
		dc.LineTo(shape.X2, shape.Y2)
	}
}
