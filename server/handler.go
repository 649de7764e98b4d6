package server

import (
	"log"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Doc is a rendered document.
type Doc struct {
	MediaType string
	Body      []byte
}

// Docs maps URL paths to documents.
type Docs map[string]Doc

type handler struct {
	docs atomic.Pointer[Docs]
}

func newRouter(h *handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Get("/*", h.serveDoc)
	return r
}

func (h *handler) serveDoc(w http.ResponseWriter, req *http.Request) {
	docs := *h.docs.Load()

	doc, ok := docs[req.URL.EscapedPath()]
	if !ok {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		if req.Method == http.MethodGet {
			w.Write([]byte("not found"))
		}
		return
	}

	w.Header().Set("Content-Type", doc.MediaType)
	if req.Method == http.MethodHead {
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
