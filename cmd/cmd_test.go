package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/gateway/gatewaytest"
)

var coord = gateway.Coordinate{Owner: "octo", Repo: "hello"}

type nopReporter struct{}

func (nopReporter) Start(int)          {}
func (nopReporter) Update(int, string) {}
func (nopReporter) Finish()            {}

func newRepo(t *testing.T) *gatewaytest.Server {
	t.Helper()
	api := gatewaytest.New(t)
	api.AddDir("src")
	api.AddDir("src/pkg")
	api.AddFile("src/pkg/util.py", "def util(): pass\n")
	api.AddFile("src/main.py", "print('hi')\n")
	api.AddFile("README.md", "# hello\n")
	api.AddFile("notes.txt", "")
	return api
}

func TestFindMatches(t *testing.T) {
	api := newRepo(t)
	client := api.Client()

	tests := []struct {
		name     string
		root     string
		depth    int
		pattern  string
		expected []string
	}{
		{"by name", "", 0, "*.py", []string{"src/pkg/util.py", "src/main.py"}},
		{"by path", "", 0, "src/*.py", []string{"src/main.py"}},
		{"double star", "", 0, "src/**/*.py", []string{"src/pkg/util.py", "src/main.py"}},
		{"depth limited", "", 2, "*.py", []string{"src/main.py"}},
		{"below path", "src/pkg", 0, "*", []string{"src/pkg/util.py"}},
		{"no match", "", 0, "*.go", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findMatches(t.Context(), client, coord, tt.root, tt.depth, tt.pattern, nopReporter{})
			if err != nil {
				t.Fatalf("findMatches: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFindEntry(t *testing.T) {
	api := newRepo(t)
	client := api.Client()

	e, err := findEntry(t.Context(), client, coord, "src/pkg/util.py")
	if err != nil {
		t.Fatalf("findEntry: %v", err)
	}
	if e.Name != "util.py" || e.DownloadURL == "" {
		t.Errorf("unexpected entry %+v", e)
	}

	if _, err := findEntry(t.Context(), client, coord, "src/missing.py"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrintTreeLine(t *testing.T) {
	var buf bytes.Buffer
	printTreeLine(&buf, gateway.Entry{Name: "src", Path: "src", Type: gateway.EntryDir}, 0)
	printTreeLine(&buf, gateway.Entry{Name: "main.py", Path: "src/main.py", Type: gateway.EntryFile, Size: 2048}, 1)
	printTreeLine(&buf, gateway.Entry{Name: "empty.txt", Path: "src/empty.txt", Type: gateway.EntryFile}, 1)

	want := "  📁 src/\n    🐍 main.py  (2.0 KB)\n    📄 empty.txt\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate("octo/hello")
	if err != nil || c != coord {
		t.Fatalf("parseCoordinate = %v, %v", c, err)
	}
	if _, err := parseCoordinate("octo"); err == nil {
		t.Error("expected error for missing repo")
	}
}

func TestVersionReportsAPI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repobrowse.yml")
	if err := os.WriteFile(path, []byte("api_base_url: https://ghe.example.com/api/v3\nrepositories:\n  - owner: octo\n    repo: hello\n"), 0644); err != nil {
		t.Fatal(err)
	}

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	for _, want := range []string{"repobrowse " + Version, "https://ghe.example.com/api/v3", "mounted: 1 repositories"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}
