package tree

import (
	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/present"
)

const (
	collapsedGlyph = "▸"
	expandedGlyph  = "▾"

	indentBase = 20
	indentStep = 20
)

// Row is one rendered tree entry.
type Row struct {
	Entry    gateway.Entry
	Depth    int
	Icon     string
	Size     string
	Dir      bool
	Expanded bool
	Loaded   bool
	Loading  bool
	Error    string
	Children []Row
}

// Indent returns the left padding of the row in pixels.
func (r Row) Indent() int { return indentBase + r.Depth*indentStep }

// ChildIndent returns the padding of inline notices under the row.
func (r Row) ChildIndent() int { return r.Indent() + indentStep }

// Glyph returns the expand indicator of a directory row.
func (r Row) Glyph() string {
	if r.Expanded {
		return expandedGlyph
	}
	return collapsedGlyph
}

// View is the full projection of a browser.
type View struct {
	Container   string
	Coordinate  gateway.Coordinate
	RepoURL     string
	Ready       bool
	Error       string
	RateLimited bool
	Rows        []Row
}

// View projects the current state into rows. Loaded directories carry
// their children even while collapsed.
func (b *Browser) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v := View{
		Container:  b.container,
		Coordinate: b.coord,
		RepoURL:    b.repoURL,
		Ready:      b.initialized && b.rootErr == nil,
	}
	if b.rootErr != nil {
		v.Error = b.rootErr.Error()
		v.RateLimited = gateway.IsRateLimited(b.rootErr)
		return v
	}
	v.Rows = b.rowsLocked(b.root, 0)
	return v
}

// Node projects a single directory or file row.
func (b *Browser) Node(path string) (Row, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[path]
	if !ok {
		return Row{}, false
	}
	return b.rowLocked(e, depthOf(path)), true
}

func (b *Browser) rowsLocked(entries []gateway.Entry, depth int) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, b.rowLocked(e, depth))
	}
	return rows
}

func (b *Browser) rowLocked(e gateway.Entry, depth int) Row {
	if !e.IsDir() {
		return Row{
			Entry: e,
			Depth: depth,
			Icon:  present.Icon(e.Name),
			Size:  present.FormatSize(e.Size),
		}
	}

	st := b.state.Get(e.Path)
	row := Row{
		Entry:    e,
		Depth:    depth,
		Icon:     present.FolderIcon,
		Dir:      true,
		Expanded: st.Expanded,
		Loaded:   st.Loaded,
		Loading:  st.Loading,
	}
	if st.Err != nil && !st.Loaded {
		row.Error = "Failed to load"
	}
	if st.Loaded {
		row.Children = b.rowsLocked(b.children[e.Path], depth+1)
	}
	return row
}

// depthOf returns the nesting level of a repository path.
func depthOf(path string) int {
	d := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			d++
		}
	}
	return d
}
