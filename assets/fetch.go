// Package assets loads the raster resources a page render needs:
// remote images, data-URI images, and generated QR code bitmaps. Every
// load is fallible by design; callers substitute placeholders on error
// and never retry.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	// Registered decoders for the formats the editor accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// maxImageBytes caps a fetched body so a mis-configured URL cannot
// exhaust memory.
const maxImageBytes = 64 << 20

// Loader fetches and decodes images. It keeps a per-loader cache so a
// background image shared by every page of a book is fetched once.
//
// Loader is safe for concurrent use.
type Loader struct {
	client *http.Client
	log    *slog.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient; a
// nil logger disables logging.
func NewLoader(client *http.Client, log *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.New(nopHandler{})
	}
	return &Loader{
		client: client,
		log:    log,
		cache:  make(map[string]image.Image),
	}
}

// FetchImage loads and decodes an image from an http(s) URL or a
// data URI.
func (l *Loader) FetchImage(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("assets: empty image source")
	}
	l.mu.Lock()
	if img, ok := l.cache[src]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	var (
		img image.Image
		err error
	)
	if strings.HasPrefix(src, "data:") {
		img, err = decodeDataURI(src)
	} else {
		img, err = l.fetchHTTP(ctx, src)
	}
	if err != nil {
		l.log.Warn("image load failed", "src", truncate(src, 120), "err", err)
		return nil, err
	}

	l.mu.Lock()
	l.cache[src] = img
	l.mu.Unlock()
	return img, nil
}

// fetchHTTP downloads and decodes a remote image.
func (l *Loader) fetchHTTP(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assets: GET %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", url, err)
	}
	return img, nil
}

// decodeDataURI decodes a base64 data URI.
func decodeDataURI(uri string) (image.Image, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("assets: malformed data URI")
	}
	meta, payload := uri[:idx], uri[idx+1:]
	var raw []byte
	var err error
	if strings.HasSuffix(meta, ";base64") {
		raw, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("assets: data URI base64: %w", err)
		}
	} else {
		raw = []byte(payload)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("assets: decode data URI: %w", err)
	}
	return img, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// nopHandler silently discards log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
