package main

import (
	"bytes"
	"fmt"
	"os"

	"znkr.io/xmldiff"
	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/output"
	"znkr.io/xmldiff/xmlevent"
)

// view is a rendering of a diff that is served or bundled.
type view struct {
	path    string
	encoder string
}

var views = []view{
	{"index.html", "html-view"},
	{"diff.xml", "copy-tree"},
	{"ref.xml", "ref-tree"},
	{"diff.yaml", "edit-script"},
	{"align.txt", "align"},
}

func compareFiles(cfg *config, base, updated string) (*xmldiff.Result, error) {
	bf, err := os.Open(base)
	if err != nil {
		return nil, fmt.Errorf("opening base: %v", err)
	}
	defer bf.Close()
	uf, err := os.Open(updated)
	if err != nil {
		return nil, fmt.Errorf("opening updated: %v", err)
	}
	defer uf.Close()

	return xmldiff.Compute(xmlevent.NewReader(bf), xmlevent.NewReader(uf), cfg.options()...)
}

// renderViews compares base and updated and renders all views.
func renderViews(cfg *config, base, updated string) ([]output.File, error) {
	res, err := compareFiles(cfg, base, updated)
	if err != nil {
		return nil, err
	}

	files := make([]output.File, 0, len(views))
	for _, v := range views {
		enc, err := encode.Registry.New(v.encoder)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := res.Encode(&buf, enc); err != nil {
			return nil, fmt.Errorf("rendering %s: %v", v.path, err)
		}
		files = append(files, output.File{
			Path:      v.path,
			MediaType: enc.MediaType(),
			Data:      buf.Bytes(),
		})
	}
	return files, nil
}
