// Package pageproof composites book pages into print-faithful rasters.
//
// The compositor reproduces, headlessly, the exact visual output of the
// interactive canvas editor: question/answer text flow, ruled lines,
// themed hand-drawn borders, fitted backgrounds, images, stickers, and
// QR codes, stacked in a deterministic z-order. A caller feeds it a
// decoded page document plus theme and palette lookups and receives a
// finished frame once the render session signals completion:
//
//	r := pageproof.New(
//	    pageproof.WithThemes(themes),
//	    pageproof.WithPalettes(palettes),
//	)
//	sess := r.Begin(book, page, 1240, 1754)
//	defer sess.Close()
//	img, err := sess.Wait(ctx)
//
// Element images and QR bitmaps load asynchronously; the session tracks
// every pending load, waits for all of them to settle (a failed load
// renders a neutral placeholder, never an error), reorders the scene so
// the final stacking is independent of load completion order, paints,
// and then fires the completion signal exactly once.
//
// Rasterization is delegated to github.com/gogpu/gg's software
// renderer; pageproof itself produces no file formats.
package pageproof
