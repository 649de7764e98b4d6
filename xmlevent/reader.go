package xmlevent

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Source is a stream of events. Next returns io.EOF after the last event.
type Source interface {
	Next() (Event, error)
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Msg   string
	Event int // number of events read before the error
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("%s (after %d events)", err.Msg, err.Event)
}

// Reader reads events from an XML document. It checks that tags are properly nested and that
// there is exactly one root element, but it does not resolve namespaces or entities.
type Reader struct {
	lex   *xml.Lexer
	queue []Event
	open  []Name
	count int
	roots int
	done  bool

	// state of the tag currently being lexed
	tag     *Event
	piAttrs []string
}

// NewReader creates a reader for r. The whole input is read on first use.
func NewReader(r io.Reader) *Reader {
	return &Reader{lex: xml.NewLexer(parse.NewInput(r))}
}

// Next returns the next event.
func (r *Reader) Next() (Event, error) {
	for len(r.queue) == 0 {
		if r.done {
			return Event{}, io.EOF
		}
		if err := r.advance(); err != nil {
			return Event{}, err
		}
	}
	ev := r.queue[0]
	r.queue = r.queue[1:]
	r.count++
	return ev, nil
}

func (r *Reader) errorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Event: r.count}
}

// advance consumes lexer tokens until at least one event is queued or the input ends.
func (r *Reader) advance() error {
	tt, data := r.lex.Next()
	switch tt {
	case xml.ErrorToken:
		if err := r.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("lexing: %v", err)
		}
		r.done = true
		switch {
		case r.tag != nil:
			return r.errorf("unterminated tag <%s", r.tag.Name)
		case len(r.open) > 0:
			return r.errorf("unclosed element <%s>", r.open[len(r.open)-1])
		case r.roots == 0:
			return r.errorf("no root element")
		}
		return nil

	case xml.StartTagToken:
		name := strings.TrimSpace(strings.TrimPrefix(string(data), "<"))
		if len(r.open) == 0 {
			if r.roots > 0 {
				return r.errorf("second root element <%s>", name)
			}
			r.roots++
		}
		r.tag = &Event{Kind: StartTag, Name: ParseName(name)}

	case xml.StartTagPIToken:
		target := strings.TrimSpace(strings.TrimPrefix(string(data), "<?"))
		r.tag = &Event{Kind: ProcInst, Name: Name{Local: target}}
		r.piAttrs = r.piAttrs[:0]

	case xml.AttributeToken:
		if r.tag == nil {
			return r.errorf("attribute outside of tag")
		}
		if r.tag.Kind == ProcInst {
			r.piAttrs = append(r.piAttrs, strings.TrimSpace(string(data)))
			return nil
		}
		name, value := splitAttr(string(data))
		switch {
		case name == "xmlns":
			r.tag.NS = append(r.tag.NS, NSDecl{URI: value})
		case strings.HasPrefix(name, "xmlns:"):
			r.tag.NS = append(r.tag.NS, NSDecl{Prefix: name[len("xmlns:"):], URI: value})
		default:
			r.tag.Attrs = append(r.tag.Attrs, Attr{Name: ParseName(name), Value: value})
		}

	case xml.StartTagCloseToken:
		if r.tag == nil {
			return r.errorf("unexpected '>'")
		}
		tag := *r.tag
		r.tag = nil
		r.open = append(r.open, tag.Name)
		r.queue = append(r.queue, tag)

	case xml.StartTagCloseVoidToken:
		if r.tag == nil {
			return r.errorf("unexpected '/>'")
		}
		tag := *r.tag
		r.tag = nil
		r.queue = append(r.queue, tag, Event{Kind: EndTag, Name: tag.Name})

	case xml.StartTagClosePIToken:
		if r.tag == nil {
			return r.errorf("unexpected '?>'")
		}
		pi := *r.tag
		r.tag = nil
		pi.Data = strings.Join(r.piAttrs, " ")
		r.queue = append(r.queue, pi)

	case xml.EndTagToken:
		s := strings.TrimPrefix(string(data), "</")
		s = strings.TrimSpace(strings.TrimSuffix(s, ">"))
		name := ParseName(s)
		if len(r.open) == 0 {
			return r.errorf("unexpected end tag </%s>", name)
		}
		if top := r.open[len(r.open)-1]; top != name {
			return r.errorf("end tag </%s> does not match <%s>", name, top)
		}
		r.open = r.open[:len(r.open)-1]
		r.queue = append(r.queue, Event{Kind: EndTag, Name: name})

	case xml.TextToken:
		text := string(data)
		if len(r.open) == 0 && strings.Trim(text, " \t\r\n") != "" {
			return r.errorf("character data outside of root element")
		}
		r.queue = append(r.queue, Event{Kind: Text, Data: text})

	case xml.CDATAToken:
		s := strings.TrimPrefix(string(data), "<![CDATA[")
		r.queue = append(r.queue, Event{Kind: CDATA, Data: strings.TrimSuffix(s, "]]>")})

	case xml.CommentToken:
		s := strings.TrimPrefix(string(data), "<!--")
		r.queue = append(r.queue, Event{Kind: Comment, Data: strings.TrimSuffix(s, "-->")})

	case xml.DOCTYPEToken:
		s := strings.TrimPrefix(string(data), "<!DOCTYPE")
		r.queue = append(r.queue, Event{Kind: Doctype, Data: strings.TrimSuffix(s, ">")})
	}
	return nil
}

// splitAttr splits the raw attribute token ` name="value"` into its name and unquoted value.
func splitAttr(raw string) (name, value string) {
	name, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok {
		return name, ""
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		value = value[1 : n-1]
	}
	return name, value
}
