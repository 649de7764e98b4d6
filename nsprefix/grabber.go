package nsprefix

import (
	"log"

	"znkr.io/xmldiff/xmlevent"
)

// Grabber is a pass-through filter that records the prefixed namespace declarations of all
// start tags it sees. The first binding of a prefix wins. Binding a prefix to a second URI
// logs a warning and marks the grabber as conflicting for the rest of its life.
//
// Default namespace declarations are not recorded.
type Grabber struct {
	logger      *log.Logger
	bindings    Bindings
	conflicting bool
	warned      map[conflict]bool
}

type conflict struct {
	prefix, first, second string
}

// NewGrabber creates a new grabber that logs warnings to logger. A nil logger logs to
// log.Default().
func NewGrabber(logger *log.Logger) *Grabber {
	if logger == nil {
		logger = log.Default()
	}
	return &Grabber{logger: logger, warned: make(map[conflict]bool)}
}

// Push records the declarations of ev and returns it unchanged.
func (g *Grabber) Push(ev xmlevent.Event) ([]xmlevent.Event, error) {
	if ev.Kind == xmlevent.StartTag {
		for _, d := range ev.NS {
			if d.Prefix == "" {
				continue
			}
			if uri := g.bindings.Add(d.Prefix, d.URI); uri != d.URI {
				g.conflict(d.Prefix, uri, d.URI)
			}
		}
	}
	return []xmlevent.Event{ev}, nil
}

// Flush implements xmlevent.Filter, a grabber never holds back events.
func (g *Grabber) Flush() ([]xmlevent.Event, error) { return nil, nil }

func (g *Grabber) conflict(prefix, first, second string) {
	g.conflicting = true
	c := conflict{prefix, first, second}
	if g.warned[c] {
		return
	}
	g.warned[c] = true
	g.logger.Printf("warning: prefix %q is mapped to both %s and %s; cannot put all prefix mappings in the root tag", prefix, first, second)
}

// Bindings returns the bindings recorded so far.
func (g *Grabber) Bindings() *Bindings { return &g.bindings }

// Conflicting reports whether any prefix was bound to more than one URI.
func (g *Grabber) Conflicting() bool { return g.conflicting }
