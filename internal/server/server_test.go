package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/gateway/gatewaytest"
)

var sessionPattern = regexp.MustCompile(`/s/([0-9a-f-]{36})/`)

func newTestServer(t *testing.T) (*Server, *gatewaytest.Server) {
	t.Helper()
	api := gatewaytest.New(t)
	api.AddDir("src")
	api.AddFile("src/main.py", "print('hi')\n")
	api.AddFile("README.md", "# hello <script>alert(1)</script>\n")
	api.AddFile("model.pkl", "\x00\x01\x02")

	srv := New(Config{
		Mounts: []Mount{
			{Container: "files-hello", Coordinate: gateway.Coordinate{Owner: "octo", Repo: "hello"}},
			{Container: "files-world", Coordinate: gateway.Coordinate{Owner: "octo", Repo: "world"}},
		},
		GatewayOptions: api.Options(),
	}, zerolog.Nop())
	return srv, api
}

func do(t *testing.T, srv *Server, method, target, form string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

// openPage loads the page and returns the new session id.
func openPage(t *testing.T, srv *Server) string {
	t.Helper()
	w := do(t, srv, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", w.Code)
	}
	m := sessionPattern.FindStringSubmatch(w.Body.String())
	if m == nil {
		t.Fatalf("no session id in page:\n%s", w.Body.String())
	}
	return m[1]
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{AllowAll: true}, zerolog.Nop())

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPageHasOneModalForAllBrowsers(t *testing.T) {
	srv, api := newTestServer(t)

	w := do(t, srv, "GET", "/", "")
	body := w.Body.String()
	if got := strings.Count(body, `id="file-modal"`); got != 1 {
		t.Errorf("expected exactly one modal element, got %d", got)
	}
	for _, id := range []string{`id="files-hello"`, `id="files-world"`} {
		if !strings.Contains(body, id) {
			t.Errorf("page missing container %s", id)
		}
	}
	if strings.Contains(body, "modal-overlay active") {
		t.Error("modal should start closed")
	}
	if api.TotalHits() != 0 {
		t.Errorf("page render should not touch the API, got %d requests", api.TotalHits())
	}
	if srv.Sessions() != 1 {
		t.Errorf("expected 1 session, got %d", srv.Sessions())
	}
}

func TestTreeUnknownContainer(t *testing.T) {
	srv, api := newTestServer(t)
	id := openPage(t, srv)

	w := do(t, srv, "GET", "/s/"+id+"/browsers/missing/tree", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
	if api.TotalHits() != 0 {
		t.Errorf("unknown container should not fetch, got %d requests", api.TotalHits())
	}
}

func TestUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{
		"/s/not-a-uuid/browsers/files-hello/tree",
		"/s/00000000-0000-0000-0000-000000000000/browsers/files-hello/tree",
	} {
		if w := do(t, srv, "GET", target, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", target, w.Code)
		}
	}
}

func TestTreeAndToggle(t *testing.T) {
	srv, api := newTestServer(t)
	id := openPage(t, srv)
	base := "/s/" + id + "/browsers/files-hello"

	w := do(t, srv, "GET", base+"/tree", "")
	if w.Code != http.StatusOK {
		t.Fatalf("tree: expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `id="file-tree-files-hello"`) || !strings.Contains(body, "README.md") {
		t.Errorf("tree missing expected content:\n%s", body)
	}
	if strings.Contains(body, "main.py") {
		t.Error("children should not render before expansion")
	}

	w = do(t, srv, "POST", base+"/toggle?path=src", "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "main.py") {
		t.Errorf("expanded node missing child:\n%s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `class="file-children" data-path="src"`) {
		t.Errorf("expected expanded children:\n%s", w.Body.String())
	}

	w = do(t, srv, "POST", base+"/toggle?path=src", "")
	if !strings.Contains(w.Body.String(), `class="file-children collapsed" data-path="src"`) {
		t.Errorf("expected collapsed children:\n%s", w.Body.String())
	}
	if got := api.ListingHits("src"); got != 1 {
		t.Errorf("expected 1 listing request for src, got %d", got)
	}

	// The tree is loaded once per browser.
	do(t, srv, "GET", base+"/tree", "")
	if got := api.ListingHits(""); got != 1 {
		t.Errorf("expected 1 root listing, got %d", got)
	}
}

func TestToggleFailureRendersInlineError(t *testing.T) {
	srv, api := newTestServer(t)
	id := openPage(t, srv)
	base := "/s/" + id + "/browsers/files-hello"
	do(t, srv, "GET", base+"/tree", "")

	api.Fail("src", http.StatusInternalServerError)
	w := do(t, srv, "POST", base+"/toggle?path=src", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "file-error inline") {
		t.Errorf("expected inline error:\n%s", w.Body.String())
	}

	api.Recover("src")
	w = do(t, srv, "POST", base+"/toggle?path=src", "")
	if !strings.Contains(w.Body.String(), "main.py") {
		t.Errorf("retry should load children:\n%s", w.Body.String())
	}
	if got := api.ListingHits("src"); got != 2 {
		t.Errorf("expected 2 listing requests for src, got %d", got)
	}
}

func TestTreeRootFailure(t *testing.T) {
	srv, api := newTestServer(t)
	api.Fail("", http.StatusForbidden)
	id := openPage(t, srv)

	w := do(t, srv, "GET", "/s/"+id+"/browsers/files-hello/tree", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Could not load files.") ||
		!strings.Contains(w.Body.String(), "rate limit") {
		t.Errorf("expected rate limit panel:\n%s", w.Body.String())
	}
}

func TestToggleUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openPage(t, srv)
	base := "/s/" + id + "/browsers/files-hello"
	do(t, srv, "GET", base+"/tree", "")

	for _, path := range []string{"nope", "README.md"} {
		if w := do(t, srv, "POST", base+"/toggle?path="+path, ""); w.Code != http.StatusNotFound {
			t.Errorf("toggle %s: expected 404, got %d", path, w.Code)
		}
	}
	if w := do(t, srv, "POST", base+"/open?path=src", ""); w.Code != http.StatusNotFound {
		t.Errorf("open dir: expected 404, got %d", w.Code)
	}
}

func TestOpenAndClose(t *testing.T) {
	srv, api := newTestServer(t)
	id := openPage(t, srv)
	base := "/s/" + id + "/browsers/files-hello"
	do(t, srv, "GET", base+"/tree", "")

	w := do(t, srv, "POST", base+"/open?path=README.md", "")
	if w.Code != http.StatusOK {
		t.Fatalf("open: expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "modal-overlay active") {
		t.Errorf("modal should be open:\n%s", body)
	}
	if !strings.Contains(body, `data-scroll-locked="true"`) {
		t.Error("open modal should lock page scroll")
	}
	if strings.Contains(body, "<script>alert") {
		t.Error("file content must be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("expected escaped content:\n%s", body)
	}
	if api.RawHits("README.md") != 1 {
		t.Errorf("expected one raw download, got %d", api.RawHits("README.md"))
	}

	for _, trigger := range []string{"close-button", "overlay", "escape"} {
		do(t, srv, "POST", base+"/open?path=README.md", "")
		w = do(t, srv, "POST", "/s/"+id+"/modal/close", "trigger="+trigger)
		if w.Code != http.StatusOK {
			t.Fatalf("close %s: expected 200, got %d", trigger, w.Code)
		}
		if strings.Contains(w.Body.String(), "modal-overlay active") {
			t.Errorf("close %s: modal should be closed", trigger)
		}
		if !strings.Contains(w.Body.String(), `data-scroll-locked="false"`) {
			t.Errorf("close %s: scroll lock should be released", trigger)
		}
	}

	if w := do(t, srv, "POST", "/s/"+id+"/modal/close", "trigger=double-click"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown trigger: expected 400, got %d", w.Code)
	}
}

func TestOpenBinaryDoesNotDownload(t *testing.T) {
	srv, api := newTestServer(t)
	id := openPage(t, srv)
	base := "/s/" + id + "/browsers/files-hello"
	do(t, srv, "GET", base+"/tree", "")

	w := do(t, srv, "POST", base+"/open?path=model.pkl", "")
	if !strings.Contains(w.Body.String(), "Binary file: 3 B") {
		t.Errorf("expected binary notice:\n%s", w.Body.String())
	}
	if api.RawHits("model.pkl") != 0 {
		t.Error("binary files must not be downloaded")
	}
}

func TestBrowsersShareTheModal(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openPage(t, srv)
	do(t, srv, "GET", "/s/"+id+"/browsers/files-hello/tree", "")
	do(t, srv, "GET", "/s/"+id+"/browsers/files-world/tree", "")

	do(t, srv, "POST", "/s/"+id+"/browsers/files-hello/open?path=model.pkl", "")
	do(t, srv, "POST", "/s/"+id+"/browsers/files-world/open?path=README.md", "")

	sess, ok := srv.sessions.get(id)
	if !ok {
		t.Fatal("session missing")
	}
	st := sess.page.Modal().State()
	if st.Title != "README.md" || st.Coordinate.Repo != "world" {
		t.Errorf("expected the latest selection in the shared modal, got %q from %s", st.Title, st.Coordinate)
	}
}

func TestCloseBeforeOpen(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openPage(t, srv)

	w := do(t, srv, "POST", "/s/"+id+"/modal/close", "trigger=escape")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	sess, _ := srv.sessions.get(id)
	if sess.page.HasModal() {
		t.Error("closing should not create the modal")
	}
}

func TestSessionsHaveSeparateCaches(t *testing.T) {
	srv, api := newTestServer(t)
	first := openPage(t, srv)
	second := openPage(t, srv)
	if first == second {
		t.Fatal("expected distinct sessions")
	}

	do(t, srv, "GET", "/s/"+first+"/browsers/files-hello/tree", "")
	do(t, srv, "GET", "/s/"+second+"/browsers/files-hello/tree", "")
	if got := api.ListingHits(""); got != 2 {
		t.Errorf("expected a root listing per page, got %d", got)
	}
}

func TestIdleSessionsAreReaped(t *testing.T) {
	srv, _ := newTestServer(t)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	srv.sessions.now = func() time.Time { return clock }

	old := openPage(t, srv)
	clock = clock.Add(DefaultSessionTTL + time.Minute)
	openPage(t, srv)

	if srv.Sessions() != 1 {
		t.Errorf("expected idle session to be reaped, have %d", srv.Sessions())
	}
	if w := do(t, srv, "GET", "/s/"+old+"/browsers/files-hello/tree", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for reaped session, got %d", w.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path string
		ct   string
		want string
	}{
		{"/static/style.css", "text/css", ".modal-overlay.active"},
		{"/static/browser.js", "application/javascript", "'escape'"},
	}
	for _, tt := range tests {
		w := do(t, srv, "GET", tt.path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.path, w.Code)
			continue
		}
		if !strings.HasPrefix(w.Header().Get("Content-Type"), tt.ct) {
			t.Errorf("%s: content type %q", tt.path, w.Header().Get("Content-Type"))
		}
		if !strings.Contains(w.Body.String(), tt.want) {
			t.Errorf("%s: missing %q", tt.path, tt.want)
		}
	}
}
