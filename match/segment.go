// Package match aligns two sequences and describes the alignment as a list of segments.
package match

import (
	"fmt"
)

// Op describes a segment operation.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Copy   Op = iota + 1 // Elements present in both sequences
	Insert               // Elements only present in the updated sequence
	Delete               // Elements only present in the base sequence
)

// Segment describes a run of aligned elements.
//
//   - For Copy, base[Base:Base+Len] matches updated[Updated:Updated+Len]
//   - For Delete, base[Base:Base+Len] is missing in updated, Updated is the position in updated
//     where the deletion happens
//   - For Insert, updated[Updated:Updated+Len] is missing in base, Base is the position in base
//     where the insertion happens
type Segment struct {
	Op      Op
	Base    int
	Updated int
	Len     int
}

func (s Segment) String() string {
	return fmt.Sprintf("%v(%d,%d,%d)", s.Op, s.Base, s.Updated, s.Len)
}

// Matcher aligns two sequences. Chunk sizes tune matchers that work on chunks, other matchers
// ignore them.
//
// In the returned list, Copy and Delete segments cover base exactly once and Copy and Insert
// segments cover updated exactly once, both in order.
type Matcher[T any] interface {
	Match(base, updated []T, chunkSizes []int) []Segment
}

// Coalesce merges adjacent segments of the same operation that are contiguous and drops empty
// segments. The input is modified.
func Coalesce(segs []Segment) []Segment {
	out := segs[:0]
	for _, s := range segs {
		if s.Len <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Op == s.Op && contiguous(out[n-1], s) {
			out[n-1].Len += s.Len
			continue
		}
		out = append(out, s)
	}
	return out
}

func contiguous(a, b Segment) bool {
	switch a.Op {
	case Copy:
		return a.Base+a.Len == b.Base && a.Updated+a.Len == b.Updated
	case Delete:
		return a.Base+a.Len == b.Base
	case Insert:
		return a.Updated+a.Len == b.Updated
	}
	return false
}

// Validate checks that segs covers base and updated sequences of the given lengths.
func Validate(segs []Segment, baseLen, updatedLen int) error {
	b, u := 0, 0
	for i, s := range segs {
		if s.Len <= 0 {
			return fmt.Errorf("segment %d: %v is empty", i, s)
		}
		switch s.Op {
		case Copy:
			if s.Base != b || s.Updated != u {
				return fmt.Errorf("segment %d: %v does not start at (%d,%d)", i, s, b, u)
			}
			b += s.Len
			u += s.Len
		case Delete:
			if s.Base != b {
				return fmt.Errorf("segment %d: %v does not start at base %d", i, s, b)
			}
			b += s.Len
		case Insert:
			if s.Updated != u {
				return fmt.Errorf("segment %d: %v does not start at updated %d", i, s, u)
			}
			u += s.Len
		default:
			return fmt.Errorf("segment %d: unknown op %v", i, s.Op)
		}
	}
	if b != baseLen || u != updatedLen {
		return fmt.Errorf("segments cover (%d,%d), want (%d,%d)", b, u, baseLen, updatedLen)
	}
	return nil
}

// IsIdentity reports whether segs describes two identical sequences: a single Copy segment
// spanning the whole base, or no segments at all for two empty sequences.
func IsIdentity(segs []Segment, baseLen, updatedLen int) bool {
	if len(segs) == 0 {
		return baseLen == 0 && updatedLen == 0
	}
	return len(segs) == 1 &&
		segs[0].Op == Copy &&
		segs[0].Len == baseLen &&
		segs[0].Len == updatedLen
}
