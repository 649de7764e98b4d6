// Package encode writes diffs. An encoder turns the aligned event sequences of two documents into
// a diff artifact: an XML document that reuses parts of the base document, a line oriented
// alignment, an edit script, or an HTML page.
package encode

import (
	"fmt"
	"io"

	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/registry"
	"znkr.io/xmldiff/xmlevent"
)

// Default is the name of the encoder used when none is requested.
const Default = "xml"

// Namespace is the namespace of the elements encoders add to the updated document.
const Namespace = "http://znkr.io/xmldiff"

// Encoder writes a diff.
type Encoder interface {
	// SetOutputFilters sets the filters applied to the events of the updated document before
	// they are written.
	SetOutputFilters(filters ...xmlevent.Filter)

	// EncodeDiff writes the diff described by segs between base and updated to w. The preamble
	// is written before the diff if the format has a place for it.
	EncodeDiff(base, updated []xmlevent.Event, segs []match.Segment, preamble []xmlevent.Event, w io.Writer) error

	// MediaType returns the media type of the encoded diff.
	MediaType() string
}

// Registry knows all encoders. Encoders are stateful, the registry creates a new one every time.
var Registry = registry.New[Encoder]("encoder")

func init() {
	Registry.Register("copy-tree", func() (Encoder, error) { return &treeEncoder{mode: copyRuns}, nil })
	Registry.Register("ref-tree", func() (Encoder, error) { return &treeEncoder{mode: refNodes}, nil })
	Registry.Register("ref-tree-by-id", func() (Encoder, error) { return &treeEncoder{mode: refByID}, nil })
	Registry.Register("align", func() (Encoder, error) { return &alignEncoder{}, nil })
	Registry.Register("edit-script", func() (Encoder, error) { return &scriptEncoder{}, nil })
	Registry.Register("html-view", func() (Encoder, error) { return &htmlEncoder{}, nil })

	Registry.Alias("xml", "copy-tree")
	Registry.Alias("ref", "ref-tree")
	Registry.Alias("ref:id", "ref-tree-by-id")
	Registry.Alias("yaml", "edit-script")
	Registry.Alias("html", "html-view")
}

// outputFilters implements SetOutputFilters for all encoders.
type outputFilters struct {
	filter xmlevent.Filter
}

func (o *outputFilters) SetOutputFilters(filters ...xmlevent.Filter) {
	o.filter = xmlevent.Chain(filters...)
}

// filterUpdated runs the updated document through the output filters. Encoders that show
// events of the updated document next to the base document need a filtered event for every
// input event, filters that add or remove events are rejected.
func (o *outputFilters) filterUpdated(updated []xmlevent.Event) ([]xmlevent.Event, error) {
	out, err := xmlevent.Apply(o.filter, updated)
	if err != nil {
		return nil, fmt.Errorf("filtering output: %v", err)
	}
	if len(out) != len(updated) {
		return nil, fmt.Errorf("filtering output: %d events became %d", len(updated), len(out))
	}
	return out, nil
}
