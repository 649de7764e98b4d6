//go:build tools

package xmldiff

// Code generators used by go:generate directives.
import _ "golang.org/x/tools/cmd/stringer"
