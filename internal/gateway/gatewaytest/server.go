// Package gatewaytest provides a fake contents API for tests.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
)

// Server serves directory listings under /repos/{owner}/{repo}/contents/
// and raw files under /raw/. It counts every request by path.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	dirs     map[string][]gateway.Entry
	files    map[string]string
	failures map[string]int
	hits     map[string]int
	gate     chan struct{}
}

// New starts a Server that is closed when the test ends. The root
// directory exists and is empty.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		dirs:     map[string][]gateway.Entry{"": {}},
		files:    make(map[string]string),
		failures: make(map[string]int),
		hits:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Options returns the gateway options that point a client at the server.
func (s *Server) Options() []gateway.Option {
	return []gateway.Option{
		gateway.WithHTTPClient(s.Server.Client()),
		gateway.WithAPIBase(s.URL),
		gateway.WithWebBase("https://github.example"),
	}
}

// Client returns a gateway client pointed at the server.
func (s *Server) Client(opts ...gateway.Option) *gateway.Client {
	return gateway.NewClient(append(s.Options(), opts...)...)
}

// AddDir registers a directory at p and lists it in its parent.
func (s *Server) AddDir(p string) gateway.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := gateway.Entry{
		Name:    path.Base(p),
		Path:    p,
		Type:    gateway.EntryDir,
		HTMLURL: "https://github.example/tree/main/" + p,
	}
	if _, ok := s.dirs[p]; !ok {
		s.dirs[p] = []gateway.Entry{}
	}
	s.appendLocked(e)
	return e
}

// AddFile registers a raw file at p and lists it in its parent.
func (s *Server) AddFile(p, content string) gateway.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := gateway.Entry{
		Name:        path.Base(p),
		Path:        p,
		Type:        gateway.EntryFile,
		Size:        int64(len(content)),
		HTMLURL:     "https://github.example/blob/main/" + p,
		DownloadURL: s.URL + "/raw/" + p,
	}
	s.files[p] = content
	s.appendLocked(e)
	return e
}

// AddEntry lists an arbitrary entry in the directory dir.
func (s *Server) AddEntry(dir string, e gateway.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[dir] = append(s.dirs[dir], e)
}

func (s *Server) appendLocked(e gateway.Entry) {
	parent := path.Dir(e.Path)
	if parent == "." {
		parent = ""
	}
	s.dirs[parent] = append(s.dirs[parent], e)
}

// Fail makes requests for the listing of p (or the raw file p) answer
// with status until Recover is called.
func (s *Server) Fail(p string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[p] = status
}

// Recover undoes Fail for p.
func (s *Server) Recover(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, p)
}

// Hold blocks listing responses until the returned release func is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// ListingHits returns how many listing requests were made for p.
func (s *Server) ListingHits(p string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits["list:"+p]
}

// RawHits returns how many raw downloads were made for p.
func (s *Server) RawHits(p string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits["raw:"+p]
}

// TotalHits returns the number of requests of any kind.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if rest, ok := strings.CutPrefix(r.URL.Path, "/raw/"); ok {
		s.serveRaw(w, rest)
		return
	}
	if rest, ok := strings.CutPrefix(r.URL.Path, "/repos/"); ok {
		parts := strings.SplitN(rest, "/", 4)
		if len(parts) >= 3 && parts[2] == "contents" {
			p := ""
			if len(parts) == 4 {
				p = strings.Trim(parts[3], "/")
			}
			s.serveListing(w, p)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) serveListing(w http.ResponseWriter, p string) {
	s.mu.Lock()
	s.hits["list:"+p]++
	gate := s.gate
	status, failing := s.failures[p]
	entries, ok := s.dirs[p]
	entries = append([]gateway.Entry(nil), entries...)
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if failing {
		http.Error(w, `{"message":"API rate limit exceeded"}`, status)
		return
	}
	if !ok {
		// The contents API answers a file path with the file object.
		if e, found := s.lookupFile(p); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(e)
			return
		}
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (s *Server) lookupFile(p string) (gateway.Entry, bool) {
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[p]; !ok {
		return gateway.Entry{}, false
	}
	for _, e := range s.dirs[parent] {
		if e.Path == p {
			return e, true
		}
	}
	return gateway.Entry{}, false
}

func (s *Server) serveRaw(w http.ResponseWriter, p string) {
	s.mu.Lock()
	s.hits["raw:"+p]++
	status, failing := s.failures[p]
	content, ok := s.files[p]
	s.mu.Unlock()

	if failing {
		http.Error(w, "unavailable", status)
		return
	}
	if !ok {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(content))
}
