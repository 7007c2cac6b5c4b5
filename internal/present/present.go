// Package present holds the lookups used to display repository entries:
// icons, human-readable sizes and highlighter language tags.
package present

import (
	"fmt"
	"strings"
)

// Ext returns the lowercase last dot-separated segment of name. A name
// without a dot is returned whole, lowercased.
func Ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// filenameIcons override the extension icon for specific file names.
var filenameIcons = map[string]string{
	"requirements.txt": "📋",
	"README.md":        "📖",
	"LICENSE":          "⚖️",
	".gitignore":       "🙈",
}

// extensionIcons maps extensions to icon glyphs.
var extensionIcons = map[string]string{
	"py":           "🐍",
	"ipynb":        "📓",
	"csv":          "📊",
	"json":         "📋",
	"md":           "📝",
	"txt":          "📄",
	"png":          "🖼️",
	"jpg":          "🖼️",
	"jpeg":         "🖼️",
	"gif":          "🖼️",
	"svg":          "🖼️",
	"html":         "🌐",
	"css":          "🎨",
	"js":           "⚡",
	"yml":          "⚙️",
	"yaml":         "⚙️",
	"toml":         "⚙️",
	"cfg":          "⚙️",
	"ini":          "⚙️",
	"joblib":       "🤖",
	"pkl":          "🤖",
	"h5":           "🤖",
	"rar":          "📦",
	"zip":          "📦",
	"docx":         "📝",
	"pdf":          "📕",
	"requirements": "📋",
}

const (
	// DefaultIcon is used for files with no known extension.
	DefaultIcon = "📄"
	// FolderIcon marks directory rows.
	FolderIcon = "📁"
)

// Icon returns the glyph for a file name.
func Icon(name string) string {
	if icon, ok := filenameIcons[name]; ok {
		return icon
	}
	if icon, ok := extensionIcons[Ext(name)]; ok {
		return icon
	}
	return DefaultIcon
}

const (
	kib = 1024
	mib = 1024 * 1024
)

// FormatSize renders a byte count as "N B", "N.N KB" or "N.N MB".
// Zero and negative sizes render as the empty string.
func FormatSize(bytes int64) string {
	switch {
	case bytes <= 0:
		return ""
	case bytes < kib:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mib:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kib)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mib)
	}
}

// extensionToLanguage maps extensions to highlighter language tags.
var extensionToLanguage = map[string]string{
	"py":   "python",
	"js":   "javascript",
	"css":  "css",
	"html": "markup",
	"json": "json",
	"md":   "markdown",
	"yml":  "yaml",
	"yaml": "yaml",
	"txt":  "plaintext",
	"csv":  "plaintext",
	"sh":   "bash",
	"bash": "bash",
	"sql":  "sql",
}

// PlainText is the language tag for content with no known highlighter.
const PlainText = "plaintext"

// Language returns the highlighter language tag for an extension as
// returned by Ext.
func Language(ext string) string {
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	return PlainText
}
