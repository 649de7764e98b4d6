package encode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/xmlevent"
)

// alignEncoder writes one line per aligned event:
//
//	= 12    14     <b>
//	- 13    -      text
//	+ -     15     other text
//
// The columns are the marker, the event's position in the base and updated sequence, and the
// event. Lines are coloured if the output is a terminal.
type alignEncoder struct {
	outputFilters
}

func (e *alignEncoder) MediaType() string { return "text/plain" }

func (e *alignEncoder) EncodeDiff(base, updated []xmlevent.Event, segs []match.Segment, _ []xmlevent.Event, w io.Writer) error {
	updated, err := e.filterUpdated(updated)
	if err != nil {
		return err
	}

	colored := isTerminal(w)
	deleted := color.New(color.FgRed)
	inserted := color.New(color.FgGreen)
	for _, c := range []*color.Color{deleted, inserted} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	bw := bufio.NewWriter(w)
	for _, s := range segs {
		for i := range s.Len {
			var line string
			switch s.Op {
			case match.Copy:
				line = alignLine('=', s.Base+i, s.Updated+i, updated[s.Updated+i])
			case match.Delete:
				line = deleted.Sprint(alignLine('-', s.Base+i, -1, base[s.Base+i]))
			case match.Insert:
				line = inserted.Sprint(alignLine('+', -1, s.Updated+i, updated[s.Updated+i]))
			}
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return fmt.Errorf("writing output: %v", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	return nil
}

func alignLine(marker byte, b, u int, ev xmlevent.Event) string {
	return fmt.Sprintf("%c %-5s %-5s  %s", marker, pos(b), pos(u), controlEscaper.Replace(ev.String()))
}

func pos(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}

var controlEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}
