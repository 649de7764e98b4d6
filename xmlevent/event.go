// Package xmlevent provides the event representation of XML documents used by the differ: a
// flat, fully materialized sequence of start tags, end tags, character data and markup events.
package xmlevent

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind describes the type of an event.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind
type Kind int

const (
	StartTag Kind = iota + 1 // An element start tag, including its attributes and namespace declarations
	EndTag                   // An element end tag
	Text                     // Character data, entities are kept as written
	CDATA                    // A CDATA section
	Comment                  // A comment
	ProcInst                 // A processing instruction
	Doctype                  // A document type declaration
)

// Name is a qualified XML name as written in the document, the prefix is not resolved.
type Name struct {
	Prefix string
	Local  string
}

// ParseName splits a qualified name at the first colon.
func ParseName(qname string) Name {
	if prefix, local, ok := strings.Cut(qname, ":"); ok {
		return Name{Prefix: prefix, Local: local}
	}
	return Name{Local: qname}
}

func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is an attribute of a start tag. The value is kept in its escaped form.
type Attr struct {
	Name  Name
	Value string
}

// NSDecl is a namespace declaration local to a start tag. An empty prefix declares the default
// namespace.
type NSDecl struct {
	Prefix string
	URI    string
}

// Event is a single event of an XML event sequence.
//
//   - For StartTag, Name, Attrs, and NS are set
//   - For EndTag, Name is set
//   - For Text, CDATA, Comment, and Doctype, Data holds the content without delimiters
//   - For ProcInst, Name.Local holds the target and Data the instruction
//
// Events are treated as values: functions that need a modified event return a copy.
type Event struct {
	Kind  Kind
	Name  Name
	Attrs []Attr
	NS    []NSDecl
	Data  string
}

// Start returns a start tag event for qname with the given local namespace declarations.
func Start(qname string, ns ...NSDecl) Event {
	return Event{Kind: StartTag, Name: ParseName(qname), NS: ns}
}

// End returns an end tag event for qname.
func End(qname string) Event {
	return Event{Kind: EndTag, Name: ParseName(qname)}
}

// CharData returns a text event.
func CharData(s string) Event {
	return Event{Kind: Text, Data: s}
}

// WithAttr returns a copy of e with an additional attribute.
func (e Event) WithAttr(qname, value string) Event {
	e.Attrs = append(slices.Clip(e.Attrs), Attr{Name: ParseName(qname), Value: value})
	return e
}

// WithNS returns a copy of e with additional namespace declarations. The declarations of e are
// not modified.
func (e Event) WithNS(decls ...NSDecl) Event {
	e.NS = append(slices.Clip(e.NS), decls...)
	return e
}

// LookupNS returns the URI declared locally for prefix.
func (e Event) LookupNS(prefix string) (string, bool) {
	for _, d := range e.NS {
		if d.Prefix == prefix {
			return d.URI, true
		}
	}
	return "", false
}

// AttrValue returns the value of the attribute named qname.
func (e Event) AttrValue(qname string) (string, bool) {
	name := ParseName(qname)
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsWhitespace reports whether e is a text event that contains only XML whitespace.
func (e Event) IsWhitespace() bool {
	if e.Kind != Text {
		return false
	}
	return strings.Trim(e.Data, " \t\r\n") == ""
}

// Equal reports whether e and f are the same event.
func (e Event) Equal(f Event) bool {
	return e.Kind == f.Kind &&
		e.Name == f.Name &&
		e.Data == f.Data &&
		slices.Equal(e.Attrs, f.Attrs) &&
		slices.Equal(e.NS, f.NS)
}

// Key returns a hash of e. Equal events have equal keys.
func (e Event) Key() uint64 {
	d := xxhash.New()
	d.Write([]byte{byte(e.Kind)})
	write := func(s string) {
		d.WriteString(s)
		d.Write([]byte{0})
	}
	write(e.Name.Prefix)
	write(e.Name.Local)
	for _, ns := range e.NS {
		write(ns.Prefix)
		write(ns.URI)
	}
	d.Write([]byte{1})
	for _, a := range e.Attrs {
		write(a.Name.Prefix)
		write(a.Name.Local)
		write(a.Value)
	}
	d.Write([]byte{2})
	d.WriteString(e.Data)
	return d.Sum64()
}

// String returns the XML form of e. Start tags are always written as open tags.
func (e Event) String() string {
	var sb strings.Builder
	writeEvent(&sb, e, false)
	return sb.String()
}
