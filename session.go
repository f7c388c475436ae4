package pageproof

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/pageproof/model"
)

// Session is one render pass over one page. It owns the drawing stage,
// the node list, the set of in-flight resource loads, and the
// completion signal; nothing about a pass lives in process-global
// state, so concurrent sessions and discarded stale sessions cannot
// corrupt each other.
//
// Lifecycle: create with [Renderer.Begin], await [Session.Wait] (or
// register [Session.OnComplete]), read the frame, then [Session.Close].
type Session struct {
	id   uuid.UUID
	r    *Renderer
	book *model.Book
	page *model.Page

	width, height int
	dc            *gg.Context

	ctx    context.Context
	cancel context.CancelFunc

	state atomic.Uint32

	nodes   []*Node
	loads   sync.WaitGroup
	tracked atomic.Int32

	// pendingQR counts in-flight QR bitmap generations. It gates the
	// completion signal separately from the general load set, matching
	// the editor's contract that a frame with an unresolved QR code is
	// not final.
	pendingQR atomic.Int32

	mu        sync.Mutex
	callbacks []func(image.Image)
	fault     error
	fired     bool

	done      chan struct{}
	closeOnce sync.Once
}

// Begin starts a render pass for a page on a width×height stage. The
// synchronous build walks the element list in array order; image and
// QR loads continue in the background. Begin never blocks on I/O.
func (r *Renderer) Begin(book *model.Book, page *model.Page, width, height int) *Session {
	if book == nil {
		book = &model.Book{}
	}
	if page == nil {
		page = &model.Page{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     uuid.New(),
		r:      r,
		book:   book,
		page:   page,
		width:  width,
		height: height,
		dc:     gg.NewContext(width, height),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.state.Store(uint32(stateIdle))

	func() {
		defer s.boundary("scene build")
		s.buildScene()
	}()

	if s.tracked.Load() > 0 {
		s.setState(stateWaiting)
	}
	Logger().Info("render session started",
		"session", s.id.String(),
		"page", page.ID,
		"elements", len(page.Elements),
		"pendingLoads", s.tracked.Load(),
	)
	go s.run()
	return s
}

// track registers an asynchronous load for a node. The load runs on
// its own goroutine; a session that has been closed ignores late
// results instead of mutating a discarded scene.
func (s *Session) track(n *Node, load func(ctx context.Context) (image.Image, error)) {
	n.pending = true
	s.tracked.Add(1)
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		img, err := load(s.ctx)
		if s.ctx.Err() != nil {
			// Stale session: the render target was discarded.
			return
		}
		if err != nil {
			Logger().Warn("resource load failed",
				"session", s.id.String(),
				"element", n.ElementID,
				"role", n.Role.String(),
				"err", err,
			)
			n.reject()
			return
		}
		n.resolve(img)
	}()
}

// trackQR registers a QR bitmap generation, which additionally gates
// the completion signal through the pending-QR counter.
func (s *Session) trackQR(n *Node, load func(ctx context.Context) (image.Image, error)) {
	s.pendingQR.Add(1)
	s.track(n, func(ctx context.Context) (image.Image, error) {
		defer s.pendingQR.Add(-1)
		return load(ctx)
	})
}

// run drives the pass to completion: wait for every load to settle
// (resolved or rejected — a failed image never blocks the pass),
// reconcile, paint, flush, signal.
func (s *Session) run() {
	defer s.boundary("render pass")

	s.loads.Wait()
	if s.ctx.Err() != nil {
		return
	}

	s.setState(stateReconciling)
	ordered := reconcile(s.nodes)
	s.paint(ordered)
	s.setState(stateStable)

	// All QR generations are tracked loads, so the counter is zero
	// here; the explicit gate documents the contract and guards any
	// future load path that bypasses track.
	for s.pendingQR.Load() > 0 {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(time.Millisecond):
		}
	}

	// One settle pause before declaring the frame final, mirroring the
	// editor's extra tick before a screenshot.
	if d := s.r.cfg.flushDelay; d > 0 {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(d):
		}
	}
	s.complete()
}

// paint materializes the reconciled order onto the stage. Node
// failures are contained: a panic while painting one node is logged
// with its position and role, and the remaining nodes still paint.
func (s *Session) paint(ordered []*Node) {
	s.dc.ClearWithColor(gg.White)
	for _, n := range ordered {
		s.paintNode(n)
	}
}

func (s *Session) paintNode(n *Node) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("node paint failed",
				"session", s.id.String(),
				"element", n.ElementID,
				"role", n.Role.String(),
				"x", n.X, "y", n.Y,
				"err", fmt.Sprint(r),
			)
		}
	}()
	if n.draw == nil {
		return
	}
	if n.Opacity < 1 {
		s.dc.PushLayer(gg.BlendNormal, n.Opacity)
		defer s.dc.PopLayer()
	}
	n.draw(s.dc, n)
}

// complete fires the completion signal exactly once. It fires for an
// empty page too: no registered work still means a finished frame.
func (s *Session) complete() {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	Logger().Info("render session complete", "session", s.id.String(), "page", s.page.ID)
	img := s.Image()
	for _, fn := range callbacks {
		fn(img)
	}
	close(s.done)
}

// boundary is the outer recovery boundary: a catastrophic render
// exception is swallowed, recorded for diagnostics, and leaves a blank
// frame instead of crashing the host process.
func (s *Session) boundary(phase string) {
	if r := recover(); r != nil {
		err := fmt.Errorf("pageproof: %s: panic: %v", phase, r)
		s.mu.Lock()
		if s.fault == nil {
			s.fault = err
		}
		s.mu.Unlock()
		Logger().Error("render pass failed", "session", s.id.String(), "phase", phase, "err", fmt.Sprint(r))
		if phase == "render pass" {
			s.complete()
		}
	}
}

// Wait blocks until the completion signal fires and returns the
// finished frame. The context bounds the wait; the session itself
// imposes no timeout, so a load that hangs forever simply never
// completes and the caller's context is the recourse.
func (s *Session) Wait(ctx context.Context) (image.Image, error) {
	// A completed session answers even after Close.
	select {
	case <-s.done:
		return s.Image(), nil
	default:
	}
	select {
	case <-s.done:
		return s.Image(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, fmt.Errorf("pageproof: session closed before completion")
	}
}

// OnComplete registers a callback invoked with the finished frame when
// the completion signal fires. A callback registered after completion
// is invoked immediately. Each callback runs exactly once.
func (s *Session) OnComplete(fn func(image.Image)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if !s.fired {
		s.callbacks = append(s.callbacks, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn(s.Image())
}

func (s *Session) currentState() sessionState { return sessionState(s.state.Load()) }

func (s *Session) setState(st sessionState) {
	prev := sessionState(s.state.Swap(uint32(st)))
	if prev != st {
		Logger().Debug("session state", "session", s.id.String(), "from", prev.String(), "to", st.String())
	}
}

// ID returns the session's identifier, as used in its log records.
func (s *Session) ID() string { return s.id.String() }

// Stage exposes the drawing stage. External rasterizers read it after
// the completion signal; it must not be drawn on by callers.
func (s *Session) Stage() *gg.Context { return s.dc }

// Image returns the current frame.
func (s *Session) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the current frame as PNG. Encoding delegates to the
// stage; pageproof itself owns no file format.
func (s *Session) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// Fault returns the recorded catastrophic failure of this pass, if
// any. A faulted pass still yields a (blank) frame.
func (s *Session) Fault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// Close tears the session down. In-flight loads are cancelled and late
// results are discarded rather than applied to the dead scene. Close
// is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
	})
	return nil
}
