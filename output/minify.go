package output

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/xml"
)

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return m
}

// Minify minifies b if there is a minifier for mediaType and returns it unchanged otherwise.
func Minify(mediaType string, b []byte) ([]byte, error) {
	out, err := minifier.Bytes(mediaType, b)
	switch {
	case errors.Is(err, minify.ErrNotExist):
		return b, nil
	case err != nil:
		return nil, fmt.Errorf("minifying %s: %v", mediaType, err)
	}
	return out, nil
}
