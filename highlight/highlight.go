// Package highlight renders syntax highlighted HTML for the HTML view of a diff.
package highlight

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"znkr.io/diff"
	"znkr.io/diff/textdiff"
)

var style = map[chroma.TokenType]string{
	chroma.Keyword:        "hl-b",
	chroma.KeywordPseudo:  "",
	chroma.KeywordType:    "",
	chroma.NameTag:        "hl-b",
	chroma.NameAttribute:  "hl-bl",
	chroma.NameEntity:     "hl-b",
	chroma.NameNamespace:  "hl-b",
	chroma.NameBuiltin:    "hl-bl",
	chroma.LiteralString:  "hl-i",
	chroma.Comment:        "hl-ii",
	chroma.CommentPreproc: "hl-ii",
	chroma.Punctuation:    "hl-p",
}

// Stylesheet contains the CSS classes used by highlighted output.
const Stylesheet = `.hl-b { font-weight: bold; }
.hl-bl { color: #1a4f8b; }
.hl-i { font-style: italic; color: #2e6b30; }
.hl-ii { font-style: italic; color: #777; }
.hl-p { color: #555; }
`

type Option func(*highlighter)

// Lang selects the language to highlight, XML is used by default.
func Lang(lang string) Option {
	return func(o *highlighter) {
		o.lexer = lexers.Get(lang)
	}
}

// Inline highlights a fragment that is shown on a single line.
func Inline(in string, opts ...Option) (template.HTML, error) {
	hl := fromOptions(opts)
	tokens, err := hl.tokens(in)
	if err != nil {
		return "", fmt.Errorf("parsing input: %v", err)
	}
	return template.HTML(hl.highlight(tokens)), nil
}

// Edit is a highlighted line of a line diff.
type Edit struct {
	Op      diff.Op
	XLineNo int // 1-based line number in a, -1 for insertions
	YLineNo int // 1-based line number in b, -1 for deletions
	Content template.HTML
}

func (ed *Edit) IsMatch() bool  { return ed.Op == diff.Match }
func (ed *Edit) IsDelete() bool { return ed.Op == diff.Delete }
func (ed *Edit) IsInsert() bool { return ed.Op == diff.Insert }

// Diff computes a line diff of a and b and highlights every line.
func Diff(a, b string, opts ...Option) ([]Edit, error) {
	hl := fromOptions(opts)

	edits := textdiff.Edits(a, b, textdiff.IndentHeuristic())

	ret := make([]Edit, 0, len(edits))
	s, t := 0, 0
	for _, edit := range edits {
		tokens, err := hl.tokens(strings.TrimSuffix(edit.Line, "\n"))
		if err != nil {
			return nil, err
		}
		ln := template.HTML(hl.highlight(tokens))
		switch edit.Op {
		case diff.Match:
			ret = append(ret, Edit{edit.Op, s + 1, t + 1, ln})
			s++
			t++
		case diff.Delete:
			ret = append(ret, Edit{edit.Op, s + 1, -1, ln})
			s++
		case diff.Insert:
			ret = append(ret, Edit{edit.Op, -1, t + 1, ln})
			t++
		}
	}
	return ret, nil
}

type highlighter struct {
	lexer chroma.Lexer
}

func fromOptions(opts []Option) *highlighter {
	hl := &highlighter{lexer: lexers.Get("xml")}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(hl)
	}

	if hl.lexer == nil {
		hl.lexer = lexers.Fallback
	}
	hl.lexer = chroma.Coalesce(hl.lexer)
	return hl
}

func (hl *highlighter) highlight(tokens []chroma.Token) string {
	var sb strings.Builder
	for _, token := range tokens {
		class := class(token.Type)
		if class != "" {
			fmt.Fprintf(&sb, "<span class=\"%s\">", class)
		}
		sb.WriteString(html.EscapeString(token.Value))
		if class != "" {
			sb.WriteString("</span>")
		}
	}
	return sb.String()
}

func (hl *highlighter) tokens(in string) ([]chroma.Token, error) {
	it, err := hl.lexer.Tokenise(nil, in)
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %v", err)
	}
	return it.Tokens(), nil
}

func class(t chroma.TokenType) string {
	if s, ok := style[t]; ok {
		return s
	}
	if s, ok := style[t.SubCategory()]; ok {
		return s
	}
	if s, ok := style[t.Category()]; ok {
		return s
	}
	return ""
}
