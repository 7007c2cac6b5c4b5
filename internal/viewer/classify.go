package viewer

import "github.com/ziadkadry99/repo-browser/internal/present"

// Kind is the presentation class of a file, chosen by extension.
type Kind int

const (
	// KindText is fetched and shown as escaped, optionally highlighted code.
	KindText Kind = iota
	// KindBinary shows a size notice and a link to the hosting page.
	KindBinary
	// KindImage is rendered from its raw download URL.
	KindImage
	// KindNotebook links to a notebook viewer instead of showing JSON.
	KindNotebook
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindImage:
		return "image"
	case KindNotebook:
		return "notebook"
	default:
		return "text"
	}
}

var binaryExts = map[string]bool{
	"joblib": true,
	"pkl":    true,
	"h5":     true,
	"rar":    true,
	"zip":    true,
	"exe":    true,
	"dll":    true,
	"whl":    true,
	"pyc":    true,
}

var imageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"svg":  true,
	"webp": true,
}

const notebookExt = "ipynb"

// Classify returns the presentation class for a file name.
func Classify(name string) Kind {
	ext := present.Ext(name)
	switch {
	case binaryExts[ext]:
		return KindBinary
	case imageExts[ext]:
		return KindImage
	case ext == notebookExt:
		return KindNotebook
	default:
		return KindText
	}
}
