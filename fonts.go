package pageproof

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontFamily is the family used when an element names no font
// or names one the registry does not know.
const DefaultFontFamily = "Go"

// fontKey identifies one face variant of a family.
type fontKey struct {
	family string
	bold   bool
	italic bool
}

// FontRegistry maps font families to loaded font sources and caches
// the faces cut from them. The built-in Go faces are always present so
// layout never runs without metrics.
//
// FontRegistry is safe for concurrent use.
type FontRegistry struct {
	mu      sync.RWMutex
	sources map[fontKey]*text.FontSource
}

// NewFontRegistry creates a registry seeded with the built-in Go
// regular, bold, italic, and bold-italic faces.
func NewFontRegistry() (*FontRegistry, error) {
	r := &FontRegistry{sources: make(map[fontKey]*text.FontSource)}
	builtins := []struct {
		bold, italic bool
		data         []byte
	}{
		{false, false, goregular.TTF},
		{true, false, gobold.TTF},
		{false, true, goitalic.TTF},
		{true, true, gobolditalic.TTF},
	}
	for _, b := range builtins {
		if err := r.Register(DefaultFontFamily, b.bold, b.italic, b.data); err != nil {
			return nil, fmt.Errorf("pageproof: built-in font: %w", err)
		}
	}
	return r, nil
}

// Register parses TTF/OTF data and registers it for a family variant.
func (r *FontRegistry) Register(family string, bold, italic bool, data []byte) error {
	source, err := text.NewFontSource(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sources[fontKey{family, bold, italic}] = source
	r.mu.Unlock()
	return nil
}

// emptyFontRegistry is the last-resort registry used when the built-in
// faces fail to parse. Face lookups return nil and layout degrades to
// approximate metrics.
func emptyFontRegistry() *FontRegistry {
	return &FontRegistry{sources: make(map[fontKey]*text.FontSource)}
}

// Face returns a face for the family variant at the given size,
// falling back variant by variant and finally to the built-in regular
// face, so a missing font degrades instead of failing layout.
func (r *FontRegistry) Face(family string, bold, italic bool, size float64) text.Face {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := []fontKey{
		{family, bold, italic},
		{family, false, false},
		{DefaultFontFamily, bold, italic},
		{DefaultFontFamily, false, false},
	}
	for _, k := range keys {
		if s, ok := r.sources[k]; ok {
			return s.Face(size)
		}
	}
	return nil
}
