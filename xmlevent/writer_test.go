package xmlevent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteAll(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{
			name:   "empty_element",
			events: []Event{Start("a"), End("a")},
			want:   "<a/>\n",
		},
		{
			name: "nested",
			events: []Event{
				Start("a", NSDecl{"x", "urn:1"}),
				Start("x:b").WithAttr("k", `say "hi"`),
				CharData("text &amp; more"),
				End("x:b"),
				Start("c"),
				End("c"),
				End("a"),
			},
			want: `<a xmlns:x="urn:1"><x:b k='say "hi"'>text &amp; more</x:b><c/></a>` + "\n",
		},
		{
			name: "markup",
			events: []Event{
				{Kind: ProcInst, Name: Name{Local: "xml"}, Data: `version="1.0"`},
				{Kind: Doctype, Data: " a"},
				Start("a"),
				{Kind: CDATA, Data: "<b>"},
				{Kind: Comment, Data: " c "},
				End("a"),
			},
			want: "<?xml version=\"1.0\"?>\n<!DOCTYPE a>\n<a><![CDATA[<b>]]><!-- c --></a>\n",
		},
		{
			name:   "default_namespace",
			events: []Event{Start("a", NSDecl{"", "urn:d"}), End("a")},
			want:   `<a xmlns="urn:d"/>` + "\n",
		},
		{
			name:   "unbalanced",
			events: []Event{End("a"), Start("b")},
			want:   "</a>\n<b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			if err := WriteAll(&sb, tt.events); err != nil {
				t.Fatalf("WriteAll() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, sb.String()); diff != "" {
				t.Errorf("WriteAll() is different (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := `<r xmlns:p="urn:p"><p:a id="1">x<b/></p:a><!--c--><?pi go?></r>` + "\n"
	events, err := Collect(NewReader(strings.NewReader(in)), nil)
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	var sb strings.Builder
	if err := WriteAll(&sb, events); err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}
	if diff := cmp.Diff(in, sb.String()); diff != "" {
		t.Errorf("round trip is different (-want, +got):\n%s", diff)
	}
}

func TestEventKey(t *testing.T) {
	a := Start("a").WithAttr("k", "v")
	b := Start("a").WithAttr("k", "v")
	if !a.Equal(b) || a.Key() != b.Key() {
		t.Errorf("equal events %v and %v have different keys", a, b)
	}
	for _, c := range []Event{
		Start("a").WithAttr("k", "w"),
		Start("a"),
		Start("a", NSDecl{"k", "v"}),
		End("a"),
		CharData("a"),
	} {
		if a.Equal(c) {
			t.Errorf("%v.Equal(%v) = true, want false", a, c)
		}
		if a.Key() == c.Key() {
			t.Errorf("%v and %v have the same key", a, c)
		}
	}
}
