package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHandler(t *testing.T) {
	h := &handler{}
	docs := Docs{
		"/":         {MediaType: "text/html", Body: []byte("<p>diff</p>")},
		"/diff.xml": {MediaType: "application/xml", Body: []byte("<a/>")},
	}
	h.docs.Store(&docs)
	router := newRouter(h)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html", "<p>diff</p>"},
		{http.MethodGet, "/diff.xml", http.StatusOK, "application/xml", "<a/>"},
		{http.MethodHead, "/diff.xml", http.StatusOK, "application/xml", ""},
		{http.MethodGet, "/missing", http.StatusNotFound, "text/plain", "not found"},
		{http.MethodPost, "/", http.StatusMethodNotAllowed, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantType != "" {
				if got := rec.Header().Get("Content-Type"); got != tt.wantType {
					t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
				}
			}
			if tt.wantBody != "" {
				if diff := cmp.Diff(tt.wantBody, rec.Body.String()); diff != "" {
					t.Errorf("body is different (-want, +got):\n%s", diff)
				}
			}
		})
	}
}

func TestRunAndReplace(t *testing.T) {
	s, err := Run("localhost:0", Docs{"/": {MediaType: "text/plain", Body: []byte("one")}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	defer s.Shutdown(context.Background())

	get := func() string {
		t.Helper()
		resp, err := http.Get("http://" + s.Addr().String() + "/")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		return string(b)
	}

	if got := get(); got != "one" {
		t.Errorf("GET / = %q, want %q", got, "one")
	}
	s.ReplaceDocs(Docs{"/": {MediaType: "text/plain", Body: []byte("two")}})
	if got := get(); got != "two" {
		t.Errorf("GET / after ReplaceDocs = %q, want %q", got, "two")
	}
}
