package pageproof

import "slices"

// sessionState tracks a render pass through its lifecycle. The pass is
// IDLE until asynchronous work is registered, WAITING while loads are
// in flight, RECONCILING once every load has settled (resolved or
// rejected; a failed image never blocks reconciliation), and STABLE
// after the scene has been reordered and painted. STABLE is terminal
// for the pass.
type sessionState uint32

// Session states.
const (
	stateIdle sessionState = iota
	stateWaiting
	stateReconciling
	stateStable
)

// String returns the state name for logs.
func (s sessionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateWaiting:
		return "waiting"
	case stateReconciling:
		return "reconciling"
	case stateStable:
		return "stable"
	default:
		return "unknown"
	}
}

// reconcile derives the final stacking order of the scene. Because
// asynchronous loads settle in arbitrary order, the build-time node
// order is not trustworthy; reconcile sorts an ordered index and the
// session materializes the frame from it in one pass. Each node's
// opacity is restored explicitly afterwards: reordering must not
// disturb visual properties, and the restore keeps that invariant
// even if a comparator ever mutates state it should not.
func reconcile(nodes []*Node) []*Node {
	for _, n := range nodes {
		n.savedOpacity = n.Opacity
	}
	ordered := slices.Clone(nodes)
	slices.SortStableFunc(ordered, compareNodes)
	for _, n := range ordered {
		n.Opacity = n.savedOpacity
	}
	return ordered
}

// compareNodes is the stacking comparator: page backgrounds first,
// then ascending element z-index; within one element, frame parts
// sort after the image they decorate, subparts stack background <
// ruled-line < border < text, and the original insertion order is the
// final tiebreak.
func compareNodes(a, b *Node) int {
	if a.PageBackground != b.PageBackground {
		if a.PageBackground {
			return -1
		}
		return 1
	}
	if a.Z != b.Z {
		return a.Z - b.Z
	}
	if a.ElementID == b.ElementID {
		if a.FramePart != b.FramePart {
			if b.FramePart {
				return -1
			}
			return 1
		}
		if a.Role != b.Role {
			return int(a.Role) - int(b.Role)
		}
	}
	return a.Seq - b.Seq
}
