package photon

import (
	"container/heap"
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// Neighbor is a query result: a stored photon and its squared distance to the query point.
// The photon points into the tree and must be treated as read-only.
type Neighbor struct {
	Photon          *Photon
	DistanceSquared float64
	seq             int
}

// Distance returns the distance from the query point to the photon
func (n Neighbor) Distance() float64 {
	return math.Sqrt(n.DistanceSquared)
}

type kdNode struct {
	point  core.Vec3
	photon Photon
	seq    int // insertion order, breaks ties between equal keys
	axis   int
}

// KDTree is a balanced 3-D k-d tree over photons.
//
// Photons are added with Store in any order, then Balance is called once.
// After balancing the tree is read-only and safe for concurrent queries.
// The tree is implicit: the node splitting [lo, hi) sits at (lo+hi)/2.
type KDTree struct {
	nodes    []kdNode
	balanced bool
}

// NewKDTree creates an empty tree with room for capacity photons
func NewKDTree(capacity int) *KDTree {
	return &KDTree{nodes: make([]kdNode, 0, capacity)}
}

// Store adds a photon keyed by point. Storing after Balance reopens the tree.
func (t *KDTree) Store(point core.Vec3, ph Photon) {
	t.nodes = append(t.nodes, kdNode{point: point, photon: ph, seq: len(t.nodes)})
	t.balanced = false
}

// Len returns the number of stored photons
func (t *KDTree) Len() int {
	return len(t.nodes)
}

// Balanced reports whether the tree is ready for queries
func (t *KDTree) Balanced() bool {
	return t.balanced
}

// Balance reorganizes the stored photons for logarithmic-depth queries
func (t *KDTree) Balance() {
	if len(t.nodes) > 0 {
		t.build(0, len(t.nodes))
	}
	t.balanced = true
}

// build places the median along the widest axis at the middle of [lo, hi) and recurses
func (t *KDTree) build(lo, hi int) {
	if hi-lo <= 0 {
		return
	}
	mid := (lo + hi) / 2
	if hi-lo == 1 {
		t.nodes[mid].axis = 0
		return
	}

	bounds := core.EmptyAABB()
	for i := lo; i < hi; i++ {
		bounds = bounds.Extend(t.nodes[i].point)
	}
	axis := bounds.LongestAxis()

	t.selectNth(lo, hi, mid, axis)
	t.nodes[mid].axis = axis

	t.build(lo, mid)
	t.build(mid+1, hi)
}

// less orders nodes by their coordinate on axis, then by insertion order
func (t *KDTree) less(i, j, axis int) bool {
	a, b := t.nodes[i].point.Component(axis), t.nodes[j].point.Component(axis)
	if a != b {
		return a < b
	}
	return t.nodes[i].seq < t.nodes[j].seq
}

// selectNth partially sorts [lo, hi) so that position n holds the element that
// a full sort would put there, with smaller elements before it and larger after
func (t *KDTree) selectNth(lo, hi, n, axis int) {
	for hi-lo > 1 {
		// Median-of-three pivot, moved to hi-1
		m := lo + (hi-lo)/2
		last := hi - 1
		if t.less(m, lo, axis) {
			t.swap(m, lo)
		}
		if t.less(last, lo, axis) {
			t.swap(last, lo)
		}
		if t.less(m, last, axis) {
			t.swap(m, last)
		}

		store := lo
		for i := lo; i < last; i++ {
			if t.less(i, last, axis) {
				t.swap(i, store)
				store++
			}
		}
		t.swap(store, last)

		switch {
		case n == store:
			return
		case n < store:
			hi = store
		default:
			lo = store + 1
		}
	}
}

func (t *KDTree) swap(i, j int) {
	t.nodes[i], t.nodes[j] = t.nodes[j], t.nodes[i]
}

// FindInRadius appends to dst every photon within radius of point, unordered
func (t *KDTree) FindInRadius(point core.Vec3, radius float64, dst []Neighbor) []Neighbor {
	if len(t.nodes) == 0 || !(radius >= 0) {
		return dst
	}
	return t.rangeSearch(0, len(t.nodes), point, radius*radius, dst)
}

func (t *KDTree) rangeSearch(lo, hi int, point core.Vec3, radiusSq float64, dst []Neighbor) []Neighbor {
	if lo >= hi {
		return dst
	}
	mid := (lo + hi) / 2
	n := &t.nodes[mid]

	if d2 := n.point.Subtract(point).LengthSquared(); d2 <= radiusSq {
		dst = append(dst, Neighbor{Photon: &n.photon, DistanceSquared: d2, seq: n.seq})
	}
	if hi-lo == 1 {
		return dst
	}

	delta := point.Component(n.axis) - n.point.Component(n.axis)
	if delta < 0 {
		dst = t.rangeSearch(lo, mid, point, radiusSq, dst)
		if delta*delta <= radiusSq {
			dst = t.rangeSearch(mid+1, hi, point, radiusSq, dst)
		}
	} else {
		dst = t.rangeSearch(mid+1, hi, point, radiusSq, dst)
		if delta*delta <= radiusSq {
			dst = t.rangeSearch(lo, mid, point, radiusSq, dst)
		}
	}
	return dst
}

// FindNearest appends to dst up to k photons nearest to point, no farther than
// maxRadius (use math.Inf(1) for an unbounded search), sorted nearest first.
// It returns the distance to the farthest returned photon, or +Inf when none
// were found; callers must check for +Inf before using it in a density formula.
// Ties at equal distance are broken by insertion order.
func (t *KDTree) FindNearest(point core.Vec3, k int, maxRadius float64, dst []Neighbor) ([]Neighbor, float64) {
	if len(t.nodes) == 0 || k <= 0 || !(maxRadius > 0) {
		return dst, math.Inf(1)
	}

	search := &nearestSearch{
		point:    point,
		k:        k,
		radiusSq: maxRadius * maxRadius,
		heap:     make(neighborHeap, 0, min(k, len(t.nodes))),
	}
	t.nearest(0, len(t.nodes), search)

	if len(search.heap) == 0 {
		return dst, math.Inf(1)
	}

	// Pop worst-first into the tail of the output to get nearest-first order
	start := len(dst)
	count := len(search.heap)
	dst = append(dst, make([]Neighbor, count)...)
	farthest := search.heap[0].DistanceSquared
	for i := count - 1; i >= 0; i-- {
		dst[start+i] = heap.Pop(&search.heap).(Neighbor)
	}
	return dst, math.Sqrt(farthest)
}

type nearestSearch struct {
	point    core.Vec3
	k        int
	radiusSq float64
	heap     neighborHeap
}

// bound is the squared distance a candidate must not exceed to be considered
func (s *nearestSearch) bound() float64 {
	if len(s.heap) < s.k {
		return s.radiusSq
	}
	return s.heap[0].DistanceSquared
}

func (s *nearestSearch) offer(n *kdNode) {
	d2 := n.point.Subtract(s.point).LengthSquared()
	if d2 > s.radiusSq {
		return
	}
	candidate := Neighbor{Photon: &n.photon, DistanceSquared: d2, seq: n.seq}
	if len(s.heap) < s.k {
		heap.Push(&s.heap, candidate)
		return
	}
	if worse(s.heap[0], candidate) {
		s.heap[0] = candidate
		heap.Fix(&s.heap, 0)
	}
}

func (t *KDTree) nearest(lo, hi int, s *nearestSearch) {
	if lo >= hi {
		return
	}
	mid := (lo + hi) / 2
	n := &t.nodes[mid]
	s.offer(n)
	if hi-lo == 1 {
		return
	}

	delta := s.point.Component(n.axis) - n.point.Component(n.axis)
	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if delta >= 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}

	t.nearest(nearLo, nearHi, s)
	// Equal distance is still visited so ties resolve by insertion order
	if delta*delta <= s.bound() {
		t.nearest(farLo, farHi, s)
	}
}

// worse reports whether a ranks after b (farther, or equally far but stored later)
func worse(a, b Neighbor) bool {
	if a.DistanceSquared != b.DistanceSquared {
		return a.DistanceSquared > b.DistanceSquared
	}
	return a.seq > b.seq
}

// neighborHeap is a max-heap with the worst candidate on top
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(Neighbor))
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
