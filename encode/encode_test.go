package encode

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"znkr.io/xmldiff/match"
	"znkr.io/xmldiff/nsprefix"
	"znkr.io/xmldiff/registry"
	"znkr.io/xmldiff/xmlevent"
)

type input struct {
	base, updated, preamble []xmlevent.Event
	segs                    []match.Segment
	filters                 []xmlevent.Filter
}

func prepare(t *testing.T, baseDoc, updatedDoc string) input {
	t.Helper()
	g := nsprefix.NewGrabber(log.New(io.Discard, "", 0))
	var in input
	var err error
	in.base, err = xmlevent.Collect(xmlevent.Filtered(xmlevent.NewReader(strings.NewReader(baseDoc)), g), &in.preamble)
	if err != nil {
		t.Fatalf("reading base: %v", err)
	}
	in.updated, err = xmlevent.Collect(xmlevent.Filtered(xmlevent.NewReader(strings.NewReader(updatedDoc)), g), nil)
	if err != nil {
		t.Fatalf("reading updated: %v", err)
	}
	m := match.NewGreedy(xmlevent.Event.Key, xmlevent.Event.Equal)
	in.segs = m.Match(in.base, in.updated, match.DefaultChunkSizes)
	in.filters = nsprefix.Reconcile(g)
	return in
}

func encode(t *testing.T, name string, in input) string {
	t.Helper()
	enc, err := Registry.New(name)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", name, err)
	}
	enc.SetOutputFilters(in.filters...)
	var buf bytes.Buffer
	if err := enc.EncodeDiff(in.base, in.updated, in.segs, in.preamble, &buf); err != nil {
		t.Fatalf("EncodeDiff() failed: %v", err)
	}
	return buf.String()
}

func TestTreeEncoders(t *testing.T) {
	tests := []struct {
		name    string
		encoder string
		base    string
		updated string
		want    string
	}{
		{
			name:    "copy_insert",
			encoder: "xml",
			base:    `<a xmlns:x="urn:1"><b/></a>`,
			updated: `<a xmlns:x="urn:1"><b/><x:c/></a>`,
			want:    `<a xmlns:x="urn:1" xmlns:diff="http://znkr.io/xmldiff"><diff:copy src="/0/0" run="1"/><x:c/></a>` + "\n",
		},
		{
			name:    "ref_insert",
			encoder: "ref",
			base:    `<a xmlns:x="urn:1"><b/></a>`,
			updated: `<a xmlns:x="urn:1"><b/><x:c/></a>`,
			want:    `<a xmlns:x="urn:1" xmlns:diff="http://znkr.io/xmldiff"><diff:ref src="/0/0"/><x:c/></a>` + "\n",
		},
		{
			name:    "copy_run",
			encoder: "copy-tree",
			base:    `<r><a id="1"/><b/></r>`,
			updated: `<r><a id="1"/><b/><c/></r>`,
			want:    `<r xmlns:diff="http://znkr.io/xmldiff"><diff:copy src="/0/0" run="2"/><c/></r>` + "\n",
		},
		{
			name:    "ref_by_id",
			encoder: "ref:id",
			base:    `<r><a id="1"/><b/></r>`,
			updated: `<r><a id="1"/><b/><c/></r>`,
			want:    `<r xmlns:diff="http://znkr.io/xmldiff"><diff:ref id="1"/><diff:ref src="/0/1"/><c/></r>` + "\n",
		},
		{
			name:    "conflicting_prefixes",
			encoder: "xml",
			base:    `<r><a xmlns:h="urn:A"><h:x/></a><b xmlns:h="urn:B"><h:x/></b></r>`,
			updated: `<r><a xmlns:h="urn:A"><h:x/><h:y/></a><b xmlns:h="urn:B"><h:x/><h:y/></b></r>`,
			want: `<r xmlns:diff="http://znkr.io/xmldiff">` +
				`<a xmlns:h="urn:A"><diff:copy src="/0/0/0" run="1"/><h:y/></a>` +
				`<b xmlns:h="urn:B"><diff:copy src="/0/1/0" run="1"/><h:y/></b>` +
				`</r>` + "\n",
		},
		{
			name:    "hoisted_prefixes",
			encoder: "xml",
			base:    `<r><a xmlns:p="urn:P"><p:x/></a><b xmlns:p="urn:P"><p:x/></b></r>`,
			updated: `<r><a xmlns:p="urn:P"><p:x/><p:y/></a><b xmlns:p="urn:P"><p:x/><p:y/></b></r>`,
			want: `<r xmlns:diff="http://znkr.io/xmldiff" xmlns:p="urn:P">` +
				`<a><diff:copy src="/0/0/0" run="1"/><p:y/></a>` +
				`<b><diff:copy src="/0/1/0" run="1"/><p:y/></b>` +
				`</r>` + "\n",
		},
		{
			name:    "prefix_collision",
			encoder: "xml",
			base:    `<a xmlns:diff="urn:d"><b/></a>`,
			updated: `<a xmlns:diff="urn:d"><b/><c/></a>`,
			want:    `<a xmlns:diff="urn:d" xmlns:diff1="http://znkr.io/xmldiff"><diff1:copy src="/0/0" run="1"/><c/></a>` + "\n",
		},
		{
			name:    "preamble",
			encoder: "xml",
			base:    `<?xml version="1.0"?><a><b/></a>`,
			updated: `<a><b/><c/></a>`,
			want:    "<?xml version=\"1.0\"?>\n" + `<a xmlns:diff="http://znkr.io/xmldiff"><diff:copy src="/0/0" run="1"/><c/></a>` + "\n",
		},
		{
			name:    "identical",
			encoder: "xml",
			base:    `<a><b/></a>`,
			updated: `<a><b/></a>`,
			want:    `<diff:copy xmlns:diff="http://znkr.io/xmldiff" src="/0" run="1"/>` + "\n",
		},
		{
			name:    "changed_root",
			encoder: "xml",
			base:    `<a/>`,
			updated: `<b/>`,
			want:    `<b xmlns:diff="http://znkr.io/xmldiff"/>` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encode(t, tt.encoder, prepare(t, tt.base, tt.updated))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EncodeDiff() is different (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	in := prepare(t, `<a><b/></a>`, `<a><c/></a>`)
	want := strings.Join([]string{
		"= 0     0      <a>",
		"- 1     -      <b>",
		"- 2     -      </b>",
		"+ -     1      <c>",
		"+ -     2      </c>",
		"= 3     3      </a>",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, encode(t, "align", in)); diff != "" {
		t.Errorf("EncodeDiff() is different (-want, +got):\n%s", diff)
	}
}

func TestEditScript(t *testing.T) {
	in := prepare(t, `<?xml version="1.0"?><a><b/></a>`, `<a><b/><c>x</c></a>`)
	out := encode(t, "yaml", in)

	var got Script
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v\n%s", err, out)
	}
	want := Script{
		Base:     4,
		Updated:  7,
		Preamble: []string{`<?xml version="1.0"?>`},
		Edits: []ScriptEdit{
			{Op: "copy", Base: 0, Updated: 0, Len: 3},
			{Op: "insert", Base: 3, Updated: 3, Len: 3, Events: []string{"<c>", "x", "</c>"}},
			{Op: "copy", Base: 3, Updated: 6, Len: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("edit script is different (-want, +got):\n%s", diff)
	}
}

func TestHTMLView(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		updated string
		want    []string
	}{
		{
			name:    "text_replacement",
			base:    `<a>hello world</a>`,
			updated: `<a>hello there</a>`,
			want:    []string{`<tr class="replace">`, "<del>", "<ins>", "hello "},
		},
		{
			name:    "element_replacement",
			base:    `<a><b/><x/></a>`,
			updated: `<a><c/><x/></a>`,
			want:    []string{`<tr class="delete">`, `<tr class="insert">`, `<tr class="copy">`},
		},
		{
			name:    "identical",
			base:    `<a/>`,
			updated: `<a/>`,
			want:    []string{"Documents are identical (2 events)."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encode(t, "html", prepare(t, tt.base, tt.updated))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("EncodeDiff() does not contain %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestMediaTypes(t *testing.T) {
	want := map[string]string{
		"xml":    "application/xml",
		"ref":    "application/xml",
		"ref:id": "application/xml",
		"align":  "text/plain",
		"yaml":   "application/yaml",
		"html":   "text/html",
	}
	for name, mt := range want {
		enc, err := Registry.New(name)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if got := enc.MediaType(); got != mt {
			t.Errorf("%s: MediaType() = %q, want %q", name, got, mt)
		}
	}
}

func TestUnknownEncoder(t *testing.T) {
	_, err := Registry.New("simple")
	if !errors.Is(err, registry.ErrUnknown) {
		t.Errorf("New(simple) = %v, want ErrUnknown", err)
	}
}
