package xmldiff

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"znkr.io/xmldiff/registry"
	"znkr.io/xmldiff/xmlevent"
)

const diffNS = `xmlns:diff="http://znkr.io/xmldiff"`

func quiet() Option { return WithLogger(log.New(io.Discard, "", 0)) }

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		base        string
		updated     string
		opts        []Option
		wantDiffers bool
		want        string
	}{
		{
			name:        "insert_with_prefix",
			base:        `<a xmlns:x="urn:1"><b/></a>`,
			updated:     `<a xmlns:x="urn:1"><b/><x:c/></a>`,
			wantDiffers: true,
			want:        `<a xmlns:x="urn:1" ` + diffNS + `><diff:copy src="/0/0" run="1"/><x:c/></a>` + "\n",
		},
		{
			name:        "insert_with_prefix_myers",
			base:        `<a xmlns:x="urn:1"><b/></a>`,
			updated:     `<a xmlns:x="urn:1"><b/><x:c/></a>`,
			opts:        []Option{WithMatcher("myers")},
			wantDiffers: true,
			want:        `<a xmlns:x="urn:1" ` + diffNS + `><diff:copy src="/0/0" run="1"/><x:c/></a>` + "\n",
		},
		{
			name:    "identical_emitted",
			base:    `<a><b>text</b></a>`,
			updated: `<a><b>text</b></a>`,
			want:    `<diff:copy ` + diffNS + ` src="/0" run="1"/>` + "\n",
		},
		{
			name:    "identical_suppressed",
			base:    `<a><b>text</b></a>`,
			updated: `<a><b>text</b></a>`,
			opts:    []Option{WithEmitIdentical(false)},
			want:    "",
		},
		{
			name:        "differing_not_suppressed",
			base:        `<a/>`,
			updated:     `<b/>`,
			opts:        []Option{WithEmitIdentical(false)},
			wantDiffers: true,
			want:        `<b ` + diffNS + `/>` + "\n",
		},
		{
			name:    "cdata_is_data",
			base:    `<a>x &lt; y</a>`,
			updated: `<a><![CDATA[x < y]]></a>`,
			opts:    []Option{WithEmitIdentical(false)},
		},
		{
			name:        "cdata_with_passthrough_filter",
			base:        `<a>x &lt; y</a>`,
			updated:     `<a><![CDATA[x < y]]></a>`,
			opts:        []Option{WithFilter("none"), WithEncoder("align")},
			wantDiffers: true,
			want:        "= 0     0      <a>\n- 1     -      x &lt; y\n+ -     1      <![CDATA[x < y]]>\n= 2     2      </a>\n",
		},
		{
			name:    "whitespace_filter",
			base:    "<a>\n  <b/>\n</a>",
			updated: `<a><b/></a>`,
			opts:    []Option{WithFilter("ws"), WithEmitIdentical(false)},
		},
		{
			name:        "conflicting_prefixes",
			base:        `<r><a xmlns:h="urn:A"><h:x/></a><b xmlns:h="urn:B"><h:x/></b></r>`,
			updated:     `<r><a xmlns:h="urn:A"><h:x/><h:y/></a><b xmlns:h="urn:B"><h:x/><h:y/></b></r>`,
			wantDiffers: true,
			want: `<r ` + diffNS + `>` +
				`<a xmlns:h="urn:A"><diff:copy src="/0/0/0" run="1"/><h:y/></a>` +
				`<b xmlns:h="urn:B"><diff:copy src="/0/1/0" run="1"/><h:y/></b>` +
				`</r>` + "\n",
		},
		{
			name:        "hoisted_prefixes",
			base:        `<r><a xmlns:p="urn:P"><p:x/></a><b xmlns:p="urn:P"><p:x/></b></r>`,
			updated:     `<r><a xmlns:p="urn:P"><p:x/><p:y/></a><b xmlns:p="urn:P"><p:x/><p:y/></b></r>`,
			wantDiffers: true,
			want: `<r ` + diffNS + ` xmlns:p="urn:P">` +
				`<a><diff:copy src="/0/0/0" run="1"/><p:y/></a>` +
				`<b><diff:copy src="/0/1/0" run="1"/><p:y/></b>` +
				`</r>` + "\n",
		},
		{
			name:        "prefix_only_in_updated",
			base:        `<r><a/></r>`,
			updated:     `<r><a/><q:b xmlns:q="urn:Q"/></r>`,
			wantDiffers: true,
			want:        `<r ` + diffNS + ` xmlns:q="urn:Q"><diff:copy src="/0/0" run="1"/><q:b/></r>` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			opts := append([]Option{quiet()}, tt.opts...)
			differs, err := Diff(strings.NewReader(tt.base), strings.NewReader(tt.updated), &out, opts...)
			if err != nil {
				t.Fatalf("Diff() failed: %v", err)
			}
			if differs != tt.wantDiffers {
				t.Errorf("Diff() = %v, want %v", differs, tt.wantDiffers)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("Diff() output is different (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDiffLogsConflict(t *testing.T) {
	var logs bytes.Buffer
	_, err := Diff(
		strings.NewReader(`<r><a xmlns:h="urn:A"/><b xmlns:h="urn:B"/></r>`),
		strings.NewReader(`<r><a xmlns:h="urn:A"/><b xmlns:h="urn:B"/><c/></r>`),
		io.Discard,
		WithLogger(log.New(&logs, "", 0)),
	)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	for _, want := range []string{
		"Comparing by filter data-items",
		`warning: prefix "h" is mapped to both urn:A and urn:B`,
		"Documents differ",
	} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log does not contain %q:\n%s", want, logs.String())
		}
	}
	if got := strings.Count(logs.String(), "warning:"); got != 1 {
		t.Errorf("log contains %d warnings, want 1:\n%s", got, logs.String())
	}
}

func TestDiffNilOutput(t *testing.T) {
	differs, err := Diff(strings.NewReader("<a/>"), strings.NewReader("<b/>"), nil, quiet())
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if !differs {
		t.Errorf("Diff() = false, want true")
	}
}

func TestIdentityForAnyChunkSizes(t *testing.T) {
	doc := `<r><a x="1">one</a><b><c/><d>two</d></b><!--c--><e/><e/><e/></r>`
	for _, sizes := range [][]int{
		{32, 16, 8, 4, 2, 1},
		{1, 2, 4, 8, 16, 32},
		{1},
		{5, 3},
		{64},
	} {
		differs, err := Diff(strings.NewReader(doc), strings.NewReader(doc), nil, quiet(), WithChunkSizes(sizes...))
		if err != nil {
			t.Fatalf("Diff() failed: %v", err)
		}
		if differs {
			t.Errorf("Diff() with chunk sizes %v = true, want false", sizes)
		}
	}
}

// failingSource fails the test if it is read.
type failingSource struct{ t *testing.T }

func (s failingSource) Next() (xmlevent.Event, error) {
	s.t.Errorf("source read before configuration was checked")
	return xmlevent.Event{}, io.EOF
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		opt      Option
		wantKind string
	}{
		{"encoder", WithEncoder("simple"), "encoder"},
		{"filter", WithFilter("simple"), "filter"},
		{"matcher", WithMatcher("simple"), "matcher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := failingSource{t}
			_, err := DiffSources(src, src, io.Discard, quiet(), tt.opt)
			if !errors.Is(err, registry.ErrUnknown) {
				t.Fatalf("DiffSources() = %v, want ErrUnknown", err)
			}
			var cerr *registry.ConfigError
			if !errors.As(err, &cerr) || cerr.Kind != tt.wantKind || cerr.Name != "simple" {
				t.Errorf("DiffSources() = %v, want *ConfigError for %s %q", err, tt.wantKind, "simple")
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name       string
		base, upd  string
		wantPrefix string
	}{
		{"base", "<a><b></a>", "<a/>", "reading base: "},
		{"updated", "<a/>", "<a>", "reading updated: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Diff(strings.NewReader(tt.base), strings.NewReader(tt.upd), io.Discard, quiet())
			var serr *xmlevent.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("Diff() = %v, want *xmlevent.SyntaxError", err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantPrefix) {
				t.Errorf("Diff() = %q, want prefix %q", err, tt.wantPrefix)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	res, err := Compute(
		xmlevent.NewReader(strings.NewReader(`<?xml version="1.0"?><a/>`)),
		xmlevent.NewReader(strings.NewReader(`<a/>`)),
		quiet(),
	)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !res.Identical() {
		t.Errorf("Identical() = false, want true")
	}
	if len(res.Preamble) != 1 || res.Preamble[0].Kind != xmlevent.ProcInst {
		t.Errorf("Preamble = %v, want the XML declaration", res.Preamble)
	}
}
