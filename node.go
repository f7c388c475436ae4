package pageproof

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
)

// Role is a node's function within its element. Composite elements
// (a QnA block, a framed image) emit several nodes; the role drives
// their relative stacking during reconciliation.
type Role uint8

// Node roles, in stacking order within one element.
const (
	RoleBackground Role = iota
	RoleRuledLine
	RoleBorder
	RoleImage
	RoleText
	RoleFrame
)

// String returns the role name for logs.
func (r Role) String() string {
	switch r {
	case RoleBackground:
		return "background"
	case RoleRuledLine:
		return "ruled-line"
	case RoleBorder:
		return "border"
	case RoleImage:
		return "image"
	case RoleText:
		return "text"
	case RoleFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Node is one renderable unit of the scene. Nodes are created during
// the synchronous build pass, their image payloads filled in by
// asynchronous loads, reordered once by the reconciler, and painted in
// final order. The reconciler repositions nodes but never mutates
// their content.
type Node struct {
	ElementID      string
	Seq            int // insertion order, the final stacking tiebreak
	Z              int // element z-index (array position or override)
	PageBackground bool
	FramePart      bool
	Role           Role

	// Opacity is the node's visual opacity. Reconciliation restores it
	// explicitly after reordering; reordering must never reset visual
	// properties.
	Opacity float64

	X, Y, W, H float64 // element-space placement, for diagnostics

	mu      sync.Mutex
	pending bool
	failed  bool
	img     image.Image

	draw func(dc *gg.Context, n *Node)

	savedOpacity float64
}

// Pending reports whether the node still waits on an asynchronous
// resource.
func (n *Node) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// Failed reports whether the node's resource load failed. Failed nodes
// paint a neutral placeholder.
func (n *Node) Failed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failed
}

// Image returns the resolved image payload, or nil.
func (n *Node) Image() image.Image {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.img
}

// resolve stores a successfully loaded payload.
func (n *Node) resolve(img image.Image) {
	n.mu.Lock()
	n.img = img
	n.pending = false
	n.mu.Unlock()
}

// reject marks the load as failed.
func (n *Node) reject() {
	n.mu.Lock()
	n.failed = true
	n.pending = false
	n.mu.Unlock()
}
