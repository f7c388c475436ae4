package pageproof

import (
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goitalic"
)

func TestFontRegistryBuiltins(t *testing.T) {
	r, err := NewFontRegistry()
	if err != nil {
		t.Fatalf("NewFontRegistry() error = %v", err)
	}
	variants := []struct {
		name         string
		bold, italic bool
	}{
		{"regular", false, false},
		{"bold", true, false},
		{"italic", false, true},
		{"bold italic", true, true},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if face := r.Face(DefaultFontFamily, v.bold, v.italic, 20); face == nil {
				t.Error("built-in face missing")
			}
		})
	}
}

func TestFontRegistryFallbackChain(t *testing.T) {
	r, err := NewFontRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Register("Fancy", false, false, goitalic.TTF); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Unknown variant of a known family falls back to its regular cut.
	if face := r.Face("Fancy", true, true, 20); face == nil {
		t.Error("family fallback returned nil")
	}
	// Unknown family falls back to the default family.
	if face := r.Face("NoSuchFamily", false, false, 20); face == nil {
		t.Error("default family fallback returned nil")
	}
}

func TestEmptyFontRegistryDegrades(t *testing.T) {
	r := emptyFontRegistry()
	if face := r.Face(DefaultFontFamily, false, false, 20); face != nil {
		t.Error("empty registry should return nil faces")
	}
}

func TestFontRegistryConcurrent(t *testing.T) {
	r, err := NewFontRegistry()
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if face := r.Face(DefaultFontFamily, false, false, 14); face == nil {
				t.Error("Face() returned nil during concurrent access")
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Register("Extra", false, false, goitalic.TTF); err != nil {
				t.Errorf("Register() error = %v", err)
			}
		}()
	}
	wg.Wait()
}
