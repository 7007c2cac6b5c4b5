// Package viewer previews repository files in the page's single modal.
package viewer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/present"
)

// DefaultNotebookViewer is the base of external notebook viewer links.
const DefaultNotebookViewer = "https://nbviewer.org/github"

// Trigger names what closed the modal.
type Trigger string

const (
	TriggerCloseButton Trigger = "close-button"
	TriggerOverlay     Trigger = "overlay"
	TriggerEscape      Trigger = "escape"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case TriggerCloseButton, TriggerOverlay, TriggerEscape:
		return t, nil
	}
	return "", fmt.Errorf("unknown close trigger %q", s)
}

// State is what the modal currently displays.
type State struct {
	Open         bool
	ScrollLocked bool
	Loading      bool
	Coordinate   gateway.Coordinate
	Entry        gateway.Entry
	Kind         Kind
	Icon         string
	Title        string
	Body         template.HTML
	// Seq increases with every Show; the highest Seq owns the modal.
	Seq uint64
}

// ContentFetcher downloads raw file content.
type ContentFetcher interface {
	FetchRaw(ctx context.Context, downloadURL string) (string, error)
}

// Modal is the page-wide file preview. It is shared by every browser in a
// page; the most recent Show wins.
type Modal struct {
	fetcher      ContentFetcher
	highlighter  Highlighter
	notebookBase string
	branch       string
	log          zerolog.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

// ModalOption configures a Modal.
type ModalOption func(*Modal)

// WithHighlighter sets the code highlighter. Without one, text is shown
// escaped but unhighlighted.
func WithHighlighter(h Highlighter) ModalOption {
	return func(m *Modal) { m.highlighter = h }
}

// WithNotebookViewer sets the notebook viewer base URL and the branch used
// in its links.
func WithNotebookViewer(base, branch string) ModalOption {
	return func(m *Modal) {
		m.notebookBase = strings.TrimRight(base, "/")
		m.branch = branch
	}
}

// WithModalLogger sets the logger.
func WithModalLogger(log zerolog.Logger) ModalOption {
	return func(m *Modal) { m.log = log }
}

// NewModal creates a closed modal that downloads text through fetcher.
func NewModal(fetcher ContentFetcher, opts ...ModalOption) *Modal {
	m := &Modal{
		fetcher:      fetcher,
		notebookBase: DefaultNotebookViewer,
		branch:       "main",
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the modal.
func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Show opens the modal for entry. Text files are downloaded; binary,
// image and notebook files never are. If a newer Show starts while the
// download is in flight, its result is discarded.
func (m *Modal) Show(ctx context.Context, coord gateway.Coordinate, entry gateway.Entry) State {
	kind := Classify(entry.Name)

	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state = State{
		Open:         true,
		ScrollLocked: true,
		Coordinate:   coord,
		Entry:        entry,
		Kind:         kind,
		Icon:         present.Icon(entry.Name),
		Title:        entry.Name,
		Seq:          seq,
	}
	switch kind {
	case KindBinary:
		m.state.Body = render("binary", noticeData{Entry: entry, Size: present.FormatSize(entry.Size)})
	case KindImage:
		m.state.Body = render("image", noticeData{Entry: entry})
	case KindNotebook:
		m.state.Body = render("notebook", noticeData{
			Entry:       entry,
			Size:        present.FormatSize(entry.Size),
			NotebookURL: m.notebookURL(coord, entry.Path),
		})
	default:
		m.state.Loading = true
		m.state.Body = render("loading", nil)
	}
	snapshot := m.state
	m.mu.Unlock()

	if kind != KindText {
		return snapshot
	}

	text, err := m.fetcher.FetchRaw(context.WithoutCancel(ctx), entry.DownloadURL)
	var body template.HTML
	if err != nil {
		m.log.Debug().Err(err).Str("path", entry.Path).Msg("file content unavailable")
		body = render("fetch-error", noticeData{Entry: entry})
	} else {
		body = RenderText(text, entry.Size, present.Language(present.Ext(entry.Name)), m.highlighter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq == seq {
		m.state.Body = body
		m.state.Loading = false
	}
	return m.state
}

// Close hides the modal and releases the page scroll lock.
func (m *Modal) Close(trigger Trigger) (State, error) {
	if _, err := ParseTrigger(string(trigger)); err != nil {
		return m.State(), err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Open = false
	m.state.ScrollLocked = false
	m.log.Debug().Str("trigger", string(trigger)).Msg("modal closed")
	return m.state, nil
}

func (m *Modal) notebookURL(coord gateway.Coordinate, path string) string {
	return NotebookURL(m.notebookBase, m.branch, coord, path)
}

// NotebookURL links a notebook at path on branch in the external viewer
// rooted at base.
func NotebookURL(base, branch string, coord gateway.Coordinate, path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s/blob/%s/%s", strings.TrimRight(base, "/"),
		url.PathEscape(coord.Owner), url.PathEscape(coord.Repo), url.PathEscape(branch),
		strings.Join(segments, "/"))
}

type noticeData struct {
	Entry       gateway.Entry
	Size        string
	NotebookURL string
}

var bodyTemplates = template.Must(template.New("body").Parse(`
{{define "binary"}}<div class="binary-notice">
  <div class="icon">📦</div>
  <p>Binary file: {{.Size}}</p>
  <p class="notice-link"><a href="{{.Entry.HTMLURL}}" target="_blank" rel="noopener">View on GitHub →</a></p>
</div>{{end}}
{{define "image"}}<div class="image-preview"><img src="{{.Entry.DownloadURL}}" alt="{{.Entry.Name}}"></div>{{end}}
{{define "notebook"}}<div class="binary-notice">
  <div class="icon">📓</div>
  <p>Jupyter Notebook: {{.Size}}</p>
  <p class="notice-link"><a href="{{.NotebookURL}}" target="_blank" rel="noopener">Open in nbviewer →</a></p>
  <p class="notice-link muted"><a href="{{.Entry.HTMLURL}}" target="_blank" rel="noopener">View on GitHub →</a></p>
</div>{{end}}
{{define "loading"}}<div class="file-loading"><span class="spinner"></span> Loading file...</div>{{end}}
{{define "fetch-error"}}<div class="file-error">
  Could not load file content.
  <br><a href="{{.Entry.HTMLURL}}" target="_blank" rel="noopener">View on GitHub →</a>
</div>{{end}}
`))

func render(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTML(`<div class="file-error">` + template.HTMLEscapeString(err.Error()) + `</div>`)
	}
	return template.HTML(buf.String())
}

// Page owns the single modal shared by every browser mounted in one page.
type Page struct {
	factory func() *Modal

	mu    sync.Mutex
	modal *Modal
}

// NewPage creates a page whose modal is built by factory on first use.
func NewPage(factory func() *Modal) *Page {
	return &Page{factory: factory}
}

// Modal returns the page's modal, creating it on the first call.
func (p *Page) Modal() *Modal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal == nil {
		p.modal = p.factory()
	}
	return p.modal
}

// HasModal reports whether the modal has been created.
func (p *Page) HasModal() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modal != nil
}

// Show opens entry in the page's modal, creating the modal if needed.
func (p *Page) Show(ctx context.Context, coord gateway.Coordinate, entry gateway.Entry) State {
	return p.Modal().Show(ctx, coord, entry)
}
