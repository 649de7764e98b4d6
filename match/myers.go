package match

import "znkr.io/diff"

// Myers is a matcher that computes a minimal edit script.
type Myers[T any] struct {
	eq func(a, b T) bool
}

// NewMyers creates a Myers matcher comparing elements with eq.
func NewMyers[T any](eq func(a, b T) bool) *Myers[T] {
	return &Myers[T]{eq: eq}
}

// Match implements Matcher, chunk sizes are ignored.
func (m *Myers[T]) Match(base, updated []T, _ []int) []Segment {
	var segs []Segment
	b, u := 0, 0
	for _, e := range diff.EditsFunc(base, updated, m.eq) {
		switch e.Op {
		case diff.Match:
			segs = append(segs, Segment{Copy, b, u, 1})
			b++
			u++
		case diff.Delete:
			segs = append(segs, Segment{Delete, b, u, 1})
			b++
		case diff.Insert:
			segs = append(segs, Segment{Insert, b, u, 1})
			u++
		}
	}
	return Coalesce(segs)
}
