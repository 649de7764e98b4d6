package nsprefix

import "znkr.io/xmldiff/xmlevent"

// Reconcile returns the output filters for the bindings recorded by g.
func Reconcile(g *Grabber) []xmlevent.Filter {
	b := g.Bindings()
	if g.Conflicting() {
		return []xmlevent.Filter{Fixer(b)}
	}
	return []xmlevent.Filter{RootAdder(b), Fixer(b)}
}

// RootAdder returns a filter that declares every binding of b on the first start tag it sees,
// unless that tag already declares the prefix. All other events pass unchanged.
func RootAdder(b *Bindings) xmlevent.Filter {
	return &rootAdder{bindings: b}
}

type rootAdder struct {
	bindings *Bindings
	done     bool
}

func (r *rootAdder) Push(ev xmlevent.Event) ([]xmlevent.Event, error) {
	if r.done || ev.Kind != xmlevent.StartTag {
		return []xmlevent.Event{ev}, nil
	}
	r.done = true
	var add []xmlevent.NSDecl
	for p, uri := range r.bindings.All() {
		if _, ok := ev.LookupNS(p); !ok {
			add = append(add, xmlevent.NSDecl{Prefix: p, URI: uri})
		}
	}
	if len(add) > 0 {
		ev = ev.WithNS(add...)
	}
	return []xmlevent.Event{ev}, nil
}

func (r *rootAdder) Flush() ([]xmlevent.Event, error) { return nil, nil }

// Fixer returns a filter that makes namespace declarations consistent:
//
//   - a declaration that repeats the binding already in scope is dropped
//   - a prefix used by an element or attribute name without being in scope is declared on
//     that element if known is aware of it
//   - every end tag is renamed to the name of its matching start tag
func Fixer(known *Bindings) xmlevent.Filter {
	return &fixer{known: known}
}

type fixer struct {
	known *Bindings
	scope xmlevent.Scope
	open  []xmlevent.Name
}

func (f *fixer) Push(ev xmlevent.Event) ([]xmlevent.Event, error) {
	switch ev.Kind {
	case xmlevent.StartTag:
		var ns []xmlevent.NSDecl
		for _, d := range ev.NS {
			if uri, ok := f.scope.Lookup(d.Prefix); ok && uri == d.URI {
				continue
			}
			ns = append(ns, d)
		}
		declared := func(prefix string) bool {
			for _, d := range ns {
				if d.Prefix == prefix {
					return true
				}
			}
			_, ok := f.scope.Lookup(prefix)
			return ok
		}
		use := func(prefix string) {
			if prefix == "" || declared(prefix) {
				return
			}
			if uri, ok := f.known.Lookup(prefix); ok {
				ns = append(ns, xmlevent.NSDecl{Prefix: prefix, URI: uri})
			}
		}
		use(ev.Name.Prefix)
		for _, a := range ev.Attrs {
			use(a.Name.Prefix)
		}
		ev.NS = ns
		f.scope.Push(ns)
		f.open = append(f.open, ev.Name)

	case xmlevent.EndTag:
		if len(f.open) == 0 {
			break
		}
		ev.Name = f.open[len(f.open)-1]
		f.open = f.open[:len(f.open)-1]
		f.scope.Pop()
	}
	return []xmlevent.Event{ev}, nil
}

func (f *fixer) Flush() ([]xmlevent.Event, error) { return nil, nil }
