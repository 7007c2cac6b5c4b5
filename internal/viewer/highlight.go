package viewer

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns code into safe HTML. Implementations must escape
// every part of code they emit.
type Highlighter interface {
	Highlight(code, lang string) (template.HTML, error)
}

// lexerAliases maps language tags that chroma does not know by name.
var lexerAliases = map[string]string{
	"markup": "html",
}

func lexerFor(lang string) chroma.Lexer {
	if alias, ok := lexerAliases[lang]; ok {
		lang = alias
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// ChromaHighlighter renders code with chroma using inline styles.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter with the named chroma style.
// Unknown styles fall back to chroma's default.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	return &ChromaHighlighter{
		style:     s,
		formatter: chromahtml.New(chromahtml.TabWidth(4)),
	}
}

func (h *ChromaHighlighter) Highlight(code, lang string) (template.HTML, error) {
	it, err := lexerFor(lang).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="code-block language-%s">`, html.EscapeString(lang))
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// HighlightTerminal writes code to w with 256-colour terminal escapes.
func HighlightTerminal(w io.Writer, code, lang, style string) error {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexerFor(lang).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenising %s: %w", lang, err)
	}
	return formatter.Format(w, s, it)
}
