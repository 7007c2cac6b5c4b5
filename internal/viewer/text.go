package viewer

import (
	"fmt"
	"html"
	"html/template"
	"unicode/utf8"

	"github.com/ziadkadry99/repo-browser/internal/present"
)

// MaxChars is the number of characters of a text file that are displayed.
const MaxChars = 50000

// Truncate cuts text to MaxChars characters and appends a notice with the
// total size. size is the file size reported by the listing; when it is
// unknown the byte length of text is used. Text within the limit is
// returned unchanged.
func Truncate(text string, size int64) (string, bool) {
	if utf8.RuneCountInString(text) <= MaxChars {
		return text, false
	}
	n := 0
	cut := len(text)
	for i := range text {
		if n == MaxChars {
			cut = i
			break
		}
		n++
	}
	if size <= 0 {
		size = int64(len(text))
	}
	return text[:cut] + fmt.Sprintf("\n\n... (truncated: %s total)", present.FormatSize(size)), true
}

// RenderText truncates and escapes file content into a code block tagged
// with lang. A nil highlighter, or one that fails, yields plain escaped
// text.
func RenderText(text string, size int64, lang string, h Highlighter) template.HTML {
	display, _ := Truncate(text, size)
	if h != nil {
		if out, err := h.Highlight(display, lang); err == nil {
			return out
		}
	}
	return plainBlock(display, lang)
}

func plainBlock(text, lang string) template.HTML {
	return template.HTML(`<pre><code class="language-` + html.EscapeString(lang) + `">` +
		html.EscapeString(text) + `</code></pre>`)
}
