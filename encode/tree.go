package encode

import (
	"fmt"
	"io"
	"strconv"

	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/xmlevent"
)

type treeMode int

const (
	copyRuns treeMode = iota // <diff:copy src="PATH" run="N"/> per run of copied nodes
	refNodes                 // <diff:ref src="PATH"/> per copied node
	refByID                  // like refNodes, but elements with an id are referenced by id
)

// treeEncoder writes the updated document with unchanged parts of the base document replaced by
// references to them.
//
// A node is replaced only if it is copied completely, i.e. a start tag whose end tag lies in
// the same Copy segment or any other event that is not an end tag. Everything else is written
// literally.
type treeEncoder struct {
	outputFilters
	mode treeMode
}

func (e *treeEncoder) MediaType() string { return "application/xml" }

func (e *treeEncoder) EncodeDiff(base, updated []xmlevent.Event, segs []match.Segment, preamble []xmlevent.Event, w io.Writer) error {
	bt := xmlevent.Analyze(base)
	ut := xmlevent.Analyze(updated)
	prefix := unusedPrefix("diff", base, updated)
	out := newEmitter(w, e.filter, xmlevent.NSDecl{Prefix: prefix, URI: Namespace})

	for _, ev := range preamble {
		if err := out.emit(ev); err != nil {
			return err
		}
	}

	for _, s := range segs {
		switch s.Op {
		case match.Delete:
			continue
		case match.Insert:
			for _, ev := range updated[s.Updated : s.Updated+s.Len] {
				if err := out.emit(ev); err != nil {
					return err
				}
			}
			continue
		}

		end := s.Updated + s.Len
		for u := s.Updated; u < end; {
			n := nodeLen(updated, ut, u, end)
			if n == 0 {
				if err := out.emit(updated[u]); err != nil {
					return err
				}
				u++
				continue
			}

			b := s.Base + (u - s.Updated)
			if e.mode == copyRuns {
				run := 1
				next := u + n
				for next < end {
					m := nodeLen(updated, ut, next, end)
					if m == 0 {
						break
					}
					run++
					next += m
				}
				ref := xmlevent.Start(prefix+":copy").
					WithAttr("src", bt.Paths[b]).
					WithAttr("run", strconv.Itoa(run))
				if err := out.emitEmpty(ref); err != nil {
					return err
				}
				u = next
				continue
			}

			ref := xmlevent.Start(prefix+":ref").WithAttr("src", bt.Paths[b])
			if e.mode == refByID && base[b].Kind == xmlevent.StartTag {
				if id, ok := elementID(base[b]); ok {
					ref = xmlevent.Start(prefix+":ref").WithAttr("id", id)
				}
			}
			if err := out.emitEmpty(ref); err != nil {
				return err
			}
			u += n
		}
	}
	return out.close()
}

// nodeLen returns the number of events of the node starting at i if the node ends before end,
// 0 otherwise.
func nodeLen(events []xmlevent.Event, t xmlevent.Tree, i, end int) int {
	switch events[i].Kind {
	case xmlevent.EndTag:
		return 0
	case xmlevent.StartTag:
		p := t.Partner[i]
		if p < i || p >= end {
			return 0
		}
		return p - i + 1
	}
	return 1
}

func elementID(ev xmlevent.Event) (string, bool) {
	if id, ok := ev.AttrValue("xml:id"); ok {
		return id, true
	}
	return ev.AttrValue("id")
}

// unusedPrefix returns a namespace prefix based on want that is not used by any of the given
// event sequences.
func unusedPrefix(want string, seqs ...[]xmlevent.Event) string {
	used := make(map[string]bool)
	for _, seq := range seqs {
		for _, ev := range seq {
			if ev.Kind != xmlevent.StartTag && ev.Kind != xmlevent.EndTag {
				continue
			}
			used[ev.Name.Prefix] = true
			for _, a := range ev.Attrs {
				used[a.Name.Prefix] = true
			}
			for _, d := range ev.NS {
				used[d.Prefix] = true
			}
		}
	}
	prefix := want
	for i := 1; used[prefix]; i++ {
		prefix = want + strconv.Itoa(i)
	}
	return prefix
}

// emitter writes events through the output filters. The namespace declaration ns is added to
// the first start tag.
type emitter struct {
	w      *xmlevent.Writer
	filter xmlevent.Filter
	ns     *xmlevent.NSDecl
}

func newEmitter(w io.Writer, filter xmlevent.Filter, ns xmlevent.NSDecl) *emitter {
	return &emitter{w: xmlevent.NewWriter(w), filter: filter, ns: &ns}
}

func (e *emitter) emit(ev xmlevent.Event) error {
	if e.ns != nil && ev.Kind == xmlevent.StartTag {
		ev = ev.WithNS(*e.ns)
		e.ns = nil
	}
	if e.filter == nil {
		return e.write(ev)
	}
	out, err := e.filter.Push(ev)
	if err != nil {
		return fmt.Errorf("filtering output: %v", err)
	}
	return e.write(out...)
}

// emitEmpty emits an element without content.
func (e *emitter) emitEmpty(start xmlevent.Event) error {
	if err := e.emit(start); err != nil {
		return err
	}
	return e.emit(xmlevent.Event{Kind: xmlevent.EndTag, Name: start.Name})
}

func (e *emitter) write(events ...xmlevent.Event) error {
	for _, ev := range events {
		if err := e.w.Write(ev); err != nil {
			return fmt.Errorf("writing output: %v", err)
		}
	}
	return nil
}

func (e *emitter) close() error {
	if e.filter != nil {
		out, err := e.filter.Flush()
		if err != nil {
			return fmt.Errorf("filtering output: %v", err)
		}
		if err := e.write(out...); err != nil {
			return err
		}
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	return nil
}
