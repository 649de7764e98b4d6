package encode

import (
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"znkr.io/xmldiff/highlight"
	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/xmlevent"
)

//go:embed view.html
var viewHTML string

var viewTemplate = template.Must(template.New("view").Parse(viewHTML))

type htmlView struct {
	Title    string
	Style    template.CSS
	Summary  string
	Preamble []string
	Rows     []htmlRow
}

type htmlRow struct {
	Class   string
	Marker  string
	Base    string
	Updated string
	Content template.HTML
}

// htmlEncoder writes a standalone HTML page that shows the alignment side by side. A deletion
// that is directly followed by an insertion is shown as a replacement: a line diff of the
// replaced events, or a character diff if a single text is replaced by another.
type htmlEncoder struct {
	outputFilters
}

func (e *htmlEncoder) MediaType() string { return "text/html" }

func (e *htmlEncoder) EncodeDiff(base, updated []xmlevent.Event, segs []match.Segment, preamble []xmlevent.Event, w io.Writer) error {
	updated, err := e.filterUpdated(updated)
	if err != nil {
		return err
	}

	view := htmlView{
		Title: "xmldiff",
		Style: template.CSS(highlight.Stylesheet),
	}
	copied := 0
	for _, s := range segs {
		if s.Op == match.Copy {
			copied += s.Len
		}
	}
	if match.IsIdentity(segs, len(base), len(updated)) {
		view.Summary = fmt.Sprintf("Documents are identical (%d events).", len(base))
	} else {
		view.Summary = fmt.Sprintf("%d of %d base events and %d of %d updated events are unchanged.", copied, len(base), copied, len(updated))
	}
	for _, ev := range preamble {
		view.Preamble = append(view.Preamble, ev.String())
	}

	for i := 0; i < len(segs); i++ {
		s := segs[i]
		var rows []htmlRow
		switch s.Op {
		case match.Copy:
			rows, err = eventRows("copy", "=", s.Base, s.Updated, updated[s.Updated:s.Updated+s.Len], true, true)
		case match.Delete:
			if i+1 < len(segs) && segs[i+1].Op == match.Insert {
				rows, err = replacementRows(base, updated, s, segs[i+1])
				i++
				break
			}
			rows, err = eventRows("delete", "-", s.Base, -1, base[s.Base:s.Base+s.Len], true, false)
		case match.Insert:
			rows, err = eventRows("insert", "+", -1, s.Updated, updated[s.Updated:s.Updated+s.Len], false, true)
		}
		if err != nil {
			return err
		}
		view.Rows = append(view.Rows, rows...)
	}

	if err := viewTemplate.Execute(w, &view); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	return nil
}

func eventRows(class, marker string, b, u int, events []xmlevent.Event, hasBase, hasUpdated bool) ([]htmlRow, error) {
	rows := make([]htmlRow, 0, len(events))
	for i, ev := range events {
		content, err := highlight.Inline(oneLine(ev))
		if err != nil {
			return nil, fmt.Errorf("highlighting %v: %v", ev, err)
		}
		row := htmlRow{Class: class, Marker: marker, Content: content}
		if hasBase {
			row.Base = pos(b + i)
		}
		if hasUpdated {
			row.Updated = pos(u + i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func replacementRows(base, updated []xmlevent.Event, del, ins match.Segment) ([]htmlRow, error) {
	a := base[del.Base : del.Base+del.Len]
	b := updated[ins.Updated : ins.Updated+ins.Len]

	if len(a) == 1 && len(b) == 1 && a[0].Kind == xmlevent.Text && b[0].Kind == xmlevent.Text {
		return []htmlRow{{
			Class:   "replace",
			Marker:  "~",
			Base:    pos(del.Base),
			Updated: pos(ins.Updated),
			Content: charDiff(a[0].Data, b[0].Data),
		}}, nil
	}

	edits, err := highlight.Diff(lines(a), lines(b))
	if err != nil {
		return nil, fmt.Errorf("highlighting replacement: %v", err)
	}
	rows := make([]htmlRow, 0, len(edits))
	for _, ed := range edits {
		row := htmlRow{Content: ed.Content}
		switch {
		case ed.IsMatch():
			row.Class, row.Marker = "copy", "="
		case ed.IsDelete():
			row.Class, row.Marker = "delete", "-"
		case ed.IsInsert():
			row.Class, row.Marker = "insert", "+"
		}
		if ed.XLineNo > 0 {
			row.Base = pos(del.Base + ed.XLineNo - 1)
		}
		if ed.YLineNo > 0 {
			row.Updated = pos(ins.Updated + ed.YLineNo - 1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// charDiff renders a character diff of two texts.
func charDiff(a, b string) template.HTML {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))

	var sb strings.Builder
	for _, d := range diffs {
		text := html.EscapeString(controlEscaper.Replace(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("<del>" + text + "</del>")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("<ins>" + text + "</ins>")
		}
	}
	return template.HTML(sb.String())
}

func oneLine(ev xmlevent.Event) string {
	return controlEscaper.Replace(ev.String())
}

func lines(events []xmlevent.Event) string {
	var sb strings.Builder
	for _, ev := range events {
		sb.WriteString(oneLine(ev))
		sb.WriteByte('\n')
	}
	return sb.String()
}
