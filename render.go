package nbpublish

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// htmlTemplate wraps the rendered cells in a complete HTML5 document.
// Placeholders: title, stylesheet, body.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s</style>
</head>
<body>
%s</body>
</html>`

// baseCSS lays out the cell column. The chroma stylesheet is appended
// to it at render time.
const baseCSS = `body { max-width: 60em; margin: 0 auto; padding: 1em; font-family: sans-serif; }
.nb-cell { margin: 0.75em 0; }
.nb-code pre { padding: 0.5em; overflow-x: auto; }
.nb-output pre { padding: 0.5em; background: #f5f5f5; overflow-x: auto; }
`

// markerLinePattern deletes "#<keep>" and "#</keep>" marker lines from
// code before rendering; the closing marker may end the source without
// a newline.
var markerLinePattern = regexp.MustCompile(`#</?keep>(?:\n|$)`)

// StripMarkerLines removes marker lines from code-cell source so the
// rendered document shows the solution code without the markup.
func StripMarkerLines(source string) string {
	return markerLinePattern.ReplaceAllString(source, "")
}

// HTMLExporter renders a notebook to a standalone HTML document.
// Markdown cells go through Goldmark, code cells through chroma.
type HTMLExporter struct {
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewHTMLExporter creates an exporter using the named chroma style.
// An unknown style name falls back to chroma's default.
func NewHTMLExporter(styleName string) *HTMLExporter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so one stylesheet covers all cells
				),
			),
		),
		goldmark.WithRendererOptions(
			ghtml.WithXHTML(),
		),
	)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &HTMLExporter{
		md:        md,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     style,
	}
}

// Export renders the notebook to a complete HTML document. The title
// usually carries the source file name. Marker lines are stripped from
// code cells; everything else renders as-is, outputs included.
func (e *HTMLExporter) Export(ctx context.Context, nb *Notebook, title string) (string, error) {
	lexer := lexers.Get(nb.Language())
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	var body strings.Builder
	for i, cell := range nb.Cells {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := e.renderCell(&body, &cell, lexer); err != nil {
			return "", fmt.Errorf("cell %d: %w", i, err)
		}
	}

	var css strings.Builder
	css.WriteString(baseCSS)
	if err := e.formatter.WriteCSS(&css, e.style); err != nil {
		return "", fmt.Errorf("%w: writing stylesheet: %v", ErrHTMLRender, err)
	}

	if title == "" {
		title = "Notebook"
	}
	return fmt.Sprintf(htmlTemplate, html.EscapeString(title), css.String(), body.String()), nil
}

// renderCell appends one cell's HTML to the body.
func (e *HTMLExporter) renderCell(body *strings.Builder, cell *Cell, lexer chroma.Lexer) error {
	switch cell.Kind {
	case KindMarkdown:
		body.WriteString(`<div class="nb-cell nb-markdown">` + "\n")
		if err := e.md.Convert([]byte(cell.Source), body); err != nil {
			return fmt.Errorf("%w: %v", ErrHTMLRender, err)
		}
		body.WriteString("</div>\n")

	case KindCode:
		body.WriteString(`<div class="nb-cell nb-code">` + "\n")
		if err := e.highlight(body, StripMarkerLines(string(cell.Source)), lexer); err != nil {
			return err
		}
		body.WriteString("</div>\n")
		renderOutputs(body, cell.Outputs)

	case KindRaw:
		body.WriteString(`<div class="nb-cell nb-raw"><pre>` +
			html.EscapeString(string(cell.Source)) + "</pre></div>\n")
	}
	return nil
}

// highlight writes syntax-highlighted code to the body.
func (e *HTMLExporter) highlight(body *strings.Builder, source string, lexer chroma.Lexer) error {
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("%w: tokenizing code: %v", ErrHTMLRender, err)
	}
	if err := e.formatter.Format(body, e.style, iterator); err != nil {
		return fmt.Errorf("%w: formatting code: %v", ErrHTMLRender, err)
	}
	return nil
}

// cellOutput is the subset of nbformat output fields needed for text
// rendering. Rich output data stays raw; only text/plain is shown.
type cellOutput struct {
	OutputType string                     `json:"output_type"`
	Text       SourceText                 `json:"text"`
	Data       map[string]json.RawMessage `json:"data"`
	EName      string                     `json:"ename"`
	EValue     string                     `json:"evalue"`
}

// renderOutputs appends a cell's text outputs as preformatted blocks.
// Outputs that cannot be decoded or carry no text are skipped; output
// rendering is best effort and never fails the export.
func renderOutputs(body *strings.Builder, outputs []json.RawMessage) {
	for _, raw := range outputs {
		var out cellOutput
		if err := json.Unmarshal(raw, &out); err != nil {
			continue
		}

		text := outputText(&out)
		if text == "" {
			continue
		}
		body.WriteString(`<div class="nb-cell nb-output"><pre>` +
			html.EscapeString(text) + "</pre></div>\n")
	}
}

// outputText extracts displayable text from one output.
func outputText(out *cellOutput) string {
	switch out.OutputType {
	case "stream":
		return string(out.Text)
	case "execute_result", "display_data":
		raw, ok := out.Data["text/plain"]
		if !ok {
			return ""
		}
		var text SourceText
		if err := json.Unmarshal(raw, &text); err != nil {
			return ""
		}
		return string(text)
	case "error":
		if out.EName == "" && out.EValue == "" {
			return ""
		}
		return out.EName + ": " + out.EValue
	}
	return ""
}
