package match

import (
	"slices"
	"sort"
)

// DefaultChunkSizes are the chunk sizes used when the caller has no preference.
var DefaultChunkSizes = []int{32, 16, 8, 4, 2, 1}

// Greedy is a matcher that anchors chunks of equal elements.
//
// After skipping the common prefix and suffix, the remaining range is aligned chunk size by
// chunk size, largest first: every chunk of the updated range that is also present in the base
// range, at or after the end of the previous anchor, becomes an anchor and is extended as far as
// possible. The gaps between anchors are aligned with the next smaller chunk size. What is left
// after the smallest chunk size is a deletion followed by an insertion.
//
// Greedy does not produce minimal edit scripts, but it is fast and tends to keep large unchanged
// subtrees together.
type Greedy[T any] struct {
	hash func(T) uint64
	eq   func(a, b T) bool
}

// NewGreedy creates a greedy matcher. Elements that are equal according to eq must have equal
// hashes.
func NewGreedy[T any](hash func(T) uint64, eq func(a, b T) bool) *Greedy[T] {
	return &Greedy[T]{hash: hash, eq: eq}
}

// Match implements Matcher.
func (g *Greedy[T]) Match(base, updated []T, chunkSizes []int) []Segment {
	r := &greedyRun[T]{
		eq:      g.eq,
		base:    base,
		updated: updated,
		bh:      hashAll(g.hash, base),
		uh:      hashAll(g.hash, updated),
	}

	pre := r.commonPrefix()
	suf := r.commonSuffix(pre)
	r.emit(Segment{Copy, 0, 0, pre})
	r.align(pre, len(base)-suf, pre, len(updated)-suf, normalizeSizes(chunkSizes))
	r.emit(Segment{Copy, len(base) - suf, len(updated) - suf, suf})
	return Coalesce(r.segs)
}

// normalizeSizes sorts chunk sizes descending and drops duplicates and non-positive sizes.
func normalizeSizes(sizes []int) []int {
	var out []int
	for _, s := range sizes {
		if s > 0 {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

func hashAll[T any](hash func(T) uint64, xs []T) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = hash(x)
	}
	return out
}

type greedyRun[T any] struct {
	eq            func(a, b T) bool
	base, updated []T
	bh, uh        []uint64
	segs          []Segment
}

func (r *greedyRun[T]) emit(s Segment) {
	if s.Len > 0 {
		r.segs = append(r.segs, s)
	}
}

func (r *greedyRun[T]) same(b, u int) bool {
	return r.bh[b] == r.uh[u] && r.eq(r.base[b], r.updated[u])
}

func (r *greedyRun[T]) commonPrefix() int {
	n := min(len(r.base), len(r.updated))
	for i := range n {
		if !r.same(i, i) {
			return i
		}
	}
	return n
}

func (r *greedyRun[T]) commonSuffix(pre int) int {
	n := min(len(r.base), len(r.updated)) - pre
	for i := range n {
		if !r.same(len(r.base)-i-1, len(r.updated)-i-1) {
			return i
		}
	}
	return n
}

// align aligns base[b0:b1] with updated[u0:u1].
func (r *greedyRun[T]) align(b0, b1, u0, u1 int, sizes []int) {
	switch {
	case b0 == b1 && u0 == u1:
		return
	case b0 == b1:
		r.emit(Segment{Insert, b0, u0, u1 - u0})
		return
	case u0 == u1:
		r.emit(Segment{Delete, b0, u0, b1 - b0})
		return
	case len(sizes) == 0:
		r.emit(Segment{Delete, b0, u0, b1 - b0})
		r.emit(Segment{Insert, b1, u0, u1 - u0})
		return
	}

	size, rest := sizes[0], sizes[1:]
	if b1-b0 < size || u1-u0 < size {
		r.align(b0, b1, u0, u1, rest)
		return
	}

	// Index the start positions of all base chunks by chunk hash, positions are ascending.
	index := make(map[uint64][]int)
	for p := b0; p+size <= b1; p++ {
		h := chunkHash(r.bh[p : p+size])
		index[h] = append(index[h], p)
	}

	cursor, gap := b0, u0 // end of the last anchor in base and updated
	for u := u0; u+size <= u1; {
		cands := index[chunkHash(r.uh[u:u+size])]
		found := -1
		for i := sort.SearchInts(cands, cursor); i < len(cands); i++ {
			if r.chunkEqual(cands[i], u, size) {
				found = cands[i]
				break
			}
		}
		if found < 0 {
			u++
			continue
		}

		n := size
		for found+n < b1 && u+n < u1 && r.same(found+n, u+n) {
			n++
		}
		r.align(cursor, found, gap, u, rest)
		r.emit(Segment{Copy, found, u, n})
		cursor, u = found+n, u+n
		gap = u
	}
	r.align(cursor, b1, gap, u1, rest)
}

func (r *greedyRun[T]) chunkEqual(b, u, size int) bool {
	for i := range size {
		if !r.same(b+i, u+i) {
			return false
		}
	}
	return true
}

func chunkHash(hs []uint64) uint64 {
	const prime = 1099511628211
	var h uint64 = 14695981039346656037
	for _, x := range hs {
		h = (h ^ x) * prime
	}
	return h
}
