package xmlevent

import (
	"bufio"
	"io"
	"strings"
)

// Writer serializes events as XML. A start tag that is directly followed by its end tag is
// written as an empty-element tag. A newline is written after every top-level construct.
//
// Writer does not check well-formedness, it writes what it is given.
type Writer struct {
	w       *bufio.Writer
	pending *Event
	depth   int
}

// NewWriter creates a new writer writing to w. Output is buffered, call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single event.
func (w *Writer) Write(ev Event) error {
	if w.pending != nil {
		p := *w.pending
		w.pending = nil
		if ev.Kind == EndTag && ev.Name == p.Name {
			if err := writeEvent(w.w, p, true); err != nil {
				return err
			}
			w.depth--
			return w.endLine()
		}
		if err := writeEvent(w.w, p, false); err != nil {
			return err
		}
	}

	switch ev.Kind {
	case StartTag:
		w.pending = &ev
		w.depth++
		return nil
	case EndTag:
		w.depth--
	}
	if err := writeEvent(w.w, ev, false); err != nil {
		return err
	}
	return w.endLine()
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.pending != nil {
		p := *w.pending
		w.pending = nil
		if err := writeEvent(w.w, p, false); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

func (w *Writer) endLine() error {
	if w.depth > 0 {
		return nil
	}
	w.depth = 0
	return w.w.WriteByte('\n')
}

// WriteAll writes events to w and flushes the output.
func WriteAll(w io.Writer, events []Event) error {
	ew := NewWriter(w)
	for _, ev := range events {
		if err := ew.Write(ev); err != nil {
			return err
		}
	}
	return ew.Flush()
}

type stringWriter interface {
	WriteString(s string) (int, error)
}

func writeEvent(w stringWriter, e Event, empty bool) error {
	var err error
	write := func(ss ...string) {
		for _, s := range ss {
			if err != nil {
				return
			}
			_, err = w.WriteString(s)
		}
	}

	switch e.Kind {
	case StartTag:
		write("<", e.Name.String())
		for _, ns := range e.NS {
			if ns.Prefix == "" {
				write(" xmlns=", quote(ns.URI))
			} else {
				write(" xmlns:", ns.Prefix, "=", quote(ns.URI))
			}
		}
		for _, a := range e.Attrs {
			write(" ", a.Name.String(), "=", quote(a.Value))
		}
		if empty {
			write("/>")
		} else {
			write(">")
		}
	case EndTag:
		write("</", e.Name.String(), ">")
	case Text:
		write(e.Data)
	case CDATA:
		write("<![CDATA[", e.Data, "]]>")
	case Comment:
		write("<!--", e.Data, "-->")
	case ProcInst:
		write("<?", e.Name.Local)
		if e.Data != "" {
			write(" ", e.Data)
		}
		write("?>")
	case Doctype:
		write("<!DOCTYPE", e.Data, ">")
	}
	return err
}

// quote quotes an already escaped attribute value, preferring double quotes.
func quote(v string) string {
	if strings.Contains(v, `"`) {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
