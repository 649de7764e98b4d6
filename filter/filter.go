// Package filter provides the input filters that decide which differences between two documents
// count. Filters are applied to both inputs before they are compared.
package filter

import (
	"strings"

	"znkr.io/xmldiff/registry"
	"znkr.io/xmldiff/xmlevent"
)

// Default is the name of the filter used when none is requested.
const Default = "data"

// Registry knows all input filters. A factory may return a nil filter, which means the input is
// compared as is.
var Registry = registry.New[xmlevent.Filter]("filter")

func init() {
	Registry.Register("data-items", func() (xmlevent.Filter, error) { return DataItems(), nil })
	Registry.Register("strip-whitespace", func() (xmlevent.Filter, error) { return StripWhitespace(), nil })
	Registry.Register("passthrough", func() (xmlevent.Filter, error) { return nil, nil })

	Registry.Alias("data", "data-items")
	Registry.Alias("ws", "strip-whitespace")
	Registry.Alias("full", "passthrough")
	Registry.Alias("none", "passthrough")
}

// DataItems returns a filter that compares documents by their data: CDATA sections become
// ordinary escaped text, and adjacent text is merged into a single event.
func DataItems() xmlevent.Filter {
	return &textMerger{}
}

// StripWhitespace returns a filter that works like DataItems, but also drops text that consists
// of whitespace only.
func StripWhitespace() xmlevent.Filter {
	return &textMerger{dropWhitespace: true}
}

type textMerger struct {
	dropWhitespace bool
	text           strings.Builder
	pending        bool
}

func (m *textMerger) Push(ev xmlevent.Event) ([]xmlevent.Event, error) {
	switch ev.Kind {
	case xmlevent.Text:
		m.text.WriteString(ev.Data)
		m.pending = true
		return nil, nil
	case xmlevent.CDATA:
		m.text.WriteString(escapeText(ev.Data))
		m.pending = true
		return nil, nil
	}
	out, _ := m.Flush()
	return append(out, ev), nil
}

func (m *textMerger) Flush() ([]xmlevent.Event, error) {
	if !m.pending {
		return nil, nil
	}
	ev := xmlevent.CharData(m.text.String())
	m.text.Reset()
	m.pending = false
	if m.dropWhitespace && ev.IsWhitespace() {
		return nil, nil
	}
	return []xmlevent.Event{ev}, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
