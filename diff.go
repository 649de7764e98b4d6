// Package xmldiff computes structural differences between two XML documents.
//
// Both documents are read into event sequences, aligned by a matcher, and, if they differ, the
// alignment is written by an encoder. Namespace prefixes declared anywhere in the inputs are
// declared on the root element of the output, unless a prefix is bound to more than one URI. In
// that case, declarations stay where they are.
//
// Encoders, input filters, and matchers are selected by name, see encode.Registry,
// filter.Registry, and Matchers.
package xmldiff

import (
	"fmt"
	"io"
	"time"

	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/filter"
	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/nsprefix"
	"znkr.io/xmldiff/registry"
	"znkr.io/xmldiff/xmlevent"
)

// DefaultMatcher is the name of the matcher used when none is requested.
const DefaultMatcher = "greedy"

// Matchers knows all matchers for event sequences.
var Matchers = registry.New[match.Matcher[xmlevent.Event]]("matcher")

func init() {
	Matchers.Register("greedy-chunks", func() (match.Matcher[xmlevent.Event], error) {
		return match.NewGreedy(xmlevent.Event.Key, xmlevent.Event.Equal), nil
	})
	Matchers.Register("myers", func() (match.Matcher[xmlevent.Event], error) {
		return match.NewMyers(xmlevent.Event.Equal), nil
	})
	Matchers.Alias("greedy", "greedy-chunks")
}

// Diff compares the documents read from base and updated and writes the diff to out. It
// reports whether the documents differ.
//
// Nothing is written if out is nil or if the documents are identical and WithEmitIdentical(false)
// is set. Unknown encoder, filter, or matcher names are reported as *registry.ConfigError before
// any input is read.
func Diff(base, updated io.Reader, out io.Writer, opts ...Option) (bool, error) {
	return DiffSources(xmlevent.NewReader(base), xmlevent.NewReader(updated), out, opts...)
}

// DiffSources is like Diff, but reads events from sources.
func DiffSources(base, updated xmlevent.Source, out io.Writer, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	start := time.Now()

	enc, err := encode.Registry.New(cfg.encoder)
	if err != nil {
		return false, err
	}
	res, err := compute(base, updated, cfg)
	if err != nil {
		return false, err
	}

	differs := !res.Identical()
	if out != nil && (differs || cfg.emitIdentical) {
		if err := res.Encode(out, enc); err != nil {
			return differs, err
		}
	}

	if differs {
		cfg.logger.Printf("Documents differ (%d segments in %v)", len(res.Segments), time.Since(start))
	} else {
		cfg.logger.Printf("Documents identical (%d events in %v)", len(res.Base), time.Since(start))
	}
	return differs, nil
}

// Result is an aligned pair of documents.
type Result struct {
	Base     []xmlevent.Event // events of the base document, without preamble
	Updated  []xmlevent.Event // events of the updated document, without preamble
	Preamble []xmlevent.Event // events of the base document before the root element
	Segments []match.Segment
	Grabber  *nsprefix.Grabber // namespace bindings of both documents
	Elapsed  time.Duration     // time spent reading and matching
}

// Compute reads and aligns two documents. The encoder option is ignored.
func Compute(base, updated xmlevent.Source, opts ...Option) (*Result, error) {
	return compute(base, updated, newConfig(opts))
}

func compute(base, updated xmlevent.Source, cfg *config) (*Result, error) {
	m, err := Matchers.New(cfg.matcher)
	if err != nil {
		return nil, err
	}
	identity, err := filter.Registry.Resolve(cfg.filter)
	if err != nil {
		return nil, err
	}
	// Filters are stateful, every source needs its own.
	baseFilter, err := filter.Registry.New(identity)
	if err != nil {
		return nil, err
	}
	updatedFilter, err := filter.Registry.New(identity)
	if err != nil {
		return nil, err
	}

	cfg.logger.Printf("Comparing by filter %s", identity)
	start := time.Now()

	g := nsprefix.NewGrabber(cfg.logger)
	res := &Result{Grabber: g}
	res.Base, err = xmlevent.Collect(xmlevent.Filtered(xmlevent.Filtered(base, baseFilter), g), &res.Preamble)
	if err != nil {
		return nil, fmt.Errorf("reading base: %w", err)
	}
	res.Updated, err = xmlevent.Collect(xmlevent.Filtered(xmlevent.Filtered(updated, updatedFilter), g), nil)
	if err != nil {
		return nil, fmt.Errorf("reading updated: %w", err)
	}

	res.Segments = m.Match(res.Base, res.Updated, cfg.chunkSizes)
	if err := match.Validate(res.Segments, len(res.Base), len(res.Updated)); err != nil {
		return nil, fmt.Errorf("matcher %s: %v", cfg.matcher, err)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// Identical reports whether the documents are identical.
func (r *Result) Identical() bool {
	return match.IsIdentity(r.Segments, len(r.Base), len(r.Updated))
}

// Encode writes the diff with enc. The output filters of enc are replaced with the filters that
// reconcile the namespace declarations of the output.
func (r *Result) Encode(w io.Writer, enc encode.Encoder) error {
	enc.SetOutputFilters(nsprefix.Reconcile(r.Grabber)...)
	if err := enc.EncodeDiff(r.Base, r.Updated, r.Segments, r.Preamble, w); err != nil {
		return fmt.Errorf("encoding diff: %w", err)
	}
	return nil
}
