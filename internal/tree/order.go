package tree

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
)

// ignoredNames are never shown in the tree.
var ignoredNames = map[string]bool{
	".gitignore":         true,
	".git":               true,
	"__pycache__":        true,
	".DS_Store":          true,
	"node_modules":       true,
	".ipynb_checkpoints": true,
}

// Ignored reports whether an entry with this name is hidden from the tree.
func Ignored(name string) bool {
	return ignoredNames[name]
}

// Arrange returns a filtered, sorted copy of entries: directories first,
// then files, each group in locale order by name. The input is not
// modified.
func Arrange(entries []gateway.Entry) []gateway.Entry {
	out := make([]gateway.Entry, 0, len(entries))
	for _, e := range entries {
		if !Ignored(e.Name) {
			out = append(out, e)
		}
	}

	// Collators keep internal buffers and are not safe to share.
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
