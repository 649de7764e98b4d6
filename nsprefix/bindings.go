// Package nsprefix collects namespace prefix bindings from event sequences and reconciles the
// prefix declarations of a generated document with them.
//
// A run shares one Grabber between all inputs. Once the inputs are read, Reconcile returns the
// filters that make the output declare every prefix it uses: if no prefix is bound to more
// than one URI, all bindings are hoisted to the root element, otherwise declarations stay
// where they are and only missing ones are added.
package nsprefix

import (
	"iter"

	"znkr.io/xmldiff/xmlevent"
)

// Bindings is an insertion ordered map from namespace prefix to URI. The zero value is an
// empty map ready to use.
type Bindings struct {
	prefixes []string
	uris     map[string]string
}

// Lookup returns the URI bound to prefix.
func (b *Bindings) Lookup(prefix string) (string, bool) {
	uri, ok := b.uris[prefix]
	return uri, ok
}

// Len returns the number of bindings.
func (b *Bindings) Len() int { return len(b.prefixes) }

// Add binds prefix to uri unless prefix is already bound. It returns the URI prefix is bound
// to afterwards.
func (b *Bindings) Add(prefix, uri string) string {
	if old, ok := b.uris[prefix]; ok {
		return old
	}
	if b.uris == nil {
		b.uris = make(map[string]string)
	}
	b.uris[prefix] = uri
	b.prefixes = append(b.prefixes, prefix)
	return uri
}

// All iterates over all bindings in insertion order.
func (b *Bindings) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range b.prefixes {
			if !yield(p, b.uris[p]) {
				return
			}
		}
	}
}

// Decls returns all bindings as namespace declarations in insertion order.
func (b *Bindings) Decls() []xmlevent.NSDecl {
	decls := make([]xmlevent.NSDecl, 0, len(b.prefixes))
	for p, uri := range b.All() {
		decls = append(decls, xmlevent.NSDecl{Prefix: p, URI: uri})
	}
	return decls
}
