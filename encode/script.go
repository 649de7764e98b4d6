package encode

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/xmlevent"
)

// Script is the document written by the edit-script encoder.
type Script struct {
	Base      int          `yaml:"base"`
	Updated   int          `yaml:"updated"`
	Identical bool         `yaml:"identical"`
	Preamble  []string     `yaml:"preamble,omitempty"`
	Edits     []ScriptEdit `yaml:"edits"`
}

// ScriptEdit is a single segment of an edit script. Inserts carry the inserted events.
type ScriptEdit struct {
	Op      string   `yaml:"op"`
	Base    int      `yaml:"base"`
	Updated int      `yaml:"updated"`
	Len     int      `yaml:"len"`
	Events  []string `yaml:"events,omitempty"`
}

type scriptEncoder struct {
	outputFilters
}

func (e *scriptEncoder) MediaType() string { return "application/yaml" }

func (e *scriptEncoder) EncodeDiff(base, updated []xmlevent.Event, segs []match.Segment, preamble []xmlevent.Event, w io.Writer) error {
	updated, err := e.filterUpdated(updated)
	if err != nil {
		return err
	}

	s := Script{
		Base:      len(base),
		Updated:   len(updated),
		Identical: match.IsIdentity(segs, len(base), len(updated)),
		Edits:     make([]ScriptEdit, 0, len(segs)),
	}
	for _, ev := range preamble {
		s.Preamble = append(s.Preamble, ev.String())
	}
	for _, seg := range segs {
		ed := ScriptEdit{
			Op:      strings.ToLower(seg.Op.String()),
			Base:    seg.Base,
			Updated: seg.Updated,
			Len:     seg.Len,
		}
		if seg.Op == match.Insert {
			for _, ev := range updated[seg.Updated : seg.Updated+seg.Len] {
				ed.Events = append(ed.Events, ev.String())
			}
		}
		s.Edits = append(s.Edits, ed)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	return nil
}
