package xmlevent

// XMLNamespace is the namespace implicitly bound to the xml prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// Scope tracks the namespace declarations in effect while walking an event sequence.
type Scope struct {
	frames [][]NSDecl
}

// Push opens a new element scope with the given declarations.
func (s *Scope) Push(decls []NSDecl) {
	s.frames = append(s.frames, decls)
}

// Pop closes the innermost element scope. Popping an empty scope is a no-op.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of open element scopes.
func (s *Scope) Depth() int {
	return len(s.frames)
}

// Lookup returns the URI bound to prefix in the current scope.
func (s *Scope) Lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, d := range s.frames[i] {
			if d.Prefix == prefix {
				return d.URI, true
			}
		}
	}
	return "", false
}
