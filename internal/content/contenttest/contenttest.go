// Package contenttest provides an in-process documentation site serving the
// content endpoint and full pages, for tests of code that talks to one.
package contenttest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is a fake documentation site. Register pages before or while
// requests are served; all methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	fragments map[string]string
	documents map[string]string
	holds     map[string]chan struct{}
	requests  []string
}

// NewServer starts a site with no pages. Close it when done.
func NewServer() *Server {
	s := &Server{
		fragments: make(map[string]string),
		documents: make(map[string]string),
		holds:     make(map[string]chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/content", s.handleContent)
	r.Get("/*", s.handleDocument)

	s.Server = httptest.NewServer(r)
	return s
}

// AddPage serves title and body from the content endpoint for path.
func (s *Server) AddPage(path, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments[path] = title + "\n" + body
}

// AddRaw serves body verbatim from the content endpoint for path.
func (s *Server) AddRaw(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments[path] = body
}

// AddDocument serves a full HTML page at path.
func (s *Server) AddDocument(path, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[path] = html
}

// Hold delays content responses for path until the returned release
// function is called.
func (s *Server) Hold(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[path] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, path)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns the paths requested from the content endpoint, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	s.mu.Lock()
	s.requests = append(s.requests, path)
	body, ok := s.fragments[path]
	hold := s.holds[path]
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, body)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, ok := s.documents[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, doc)
}
