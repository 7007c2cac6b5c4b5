package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/ziadkadry99/repo-browser/internal/tree"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

var pageTemplates = template.Must(template.Must(
	template.New("server").Parse(pageTemplate)).Parse(modalTemplate))

type mountData struct {
	Container string
	Title     string
	Base      string
}

type modalData struct {
	Session string
	State   viewer.State
}

type pageData struct {
	Title  string
	Mounts []mountData
	Modal  modalData
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.create(s.newSession)
	hlog.FromRequest(r).Debug().Str("session", sess.id).Msg("page session created")

	data := pageData{
		Title: s.cfg.Title,
		Modal: modalData{Session: sess.id},
	}
	for _, m := range s.cfg.Mounts {
		data.Mounts = append(data.Mounts, mountData{
			Container: m.Container,
			Title:     m.Coordinate.String(),
			Base:      "/s/" + sess.id + "/browsers/" + m.Container,
		})
	}
	writeHTML(w, r, func(buf *bytes.Buffer) error {
		return pageTemplates.ExecuteTemplate(buf, "page", data)
	})
}

// handleTree renders a browser's tree, loading the root listing on the
// first request. Containers that are not mounted render nothing.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	_, b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := b.Init(r.Context()); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("container", b.Container()).Msg("root listing unavailable")
	}
	writeHTML(w, r, func(buf *bytes.Buffer) error {
		return tree.RenderTree(buf, b.View())
	})
}

// handleToggle expands or collapses a directory and returns its node.
// A failed listing is reported inside the node, not as an HTTP error.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	_, b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if err := b.Toggle(r.Context(), path); errors.Is(err, tree.ErrUnknownPath) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	row, found := b.Node(path)
	if !found {
		http.Error(w, "unknown path", http.StatusNotFound)
		return
	}
	writeHTML(w, r, func(buf *bytes.Buffer) error {
		return tree.RenderNode(buf, row)
	})
}

// handleOpen shows a file in the page's modal and returns the modal.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	sess, b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, err := b.Open(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeHTML(w, r, func(buf *bytes.Buffer) error {
		return pageTemplates.ExecuteTemplate(buf, "modal", modalData{Session: sess.id, State: st})
	})
}

// handleClose closes the page's modal. The trigger form value names what
// closed it.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	trigger, err := viewer.ParseTrigger(r.FormValue("trigger"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var st viewer.State
	if sess.page.HasModal() {
		st, _ = sess.page.Modal().Close(trigger)
	}
	writeHTML(w, r, func(buf *bytes.Buffer) error {
		return pageTemplates.ExecuteTemplate(buf, "modal", modalData{Session: sess.id, State: st})
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.sessions.get(chi.URLParam(r, "session"))
	if !ok {
		http.Error(w, "page session expired, reload the page", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// lookup resolves the session and browser of a request. An unknown
// container answers 204 No Content.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, *tree.Browser, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, nil, false
	}
	b, ok := sess.browsers[chi.URLParam(r, "container")]
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return nil, nil, false
	}
	return sess, b, true
}

func writeHTML(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("rendering failed")
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func serveAsset(contentType, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(content))
	}
}
