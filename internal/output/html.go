package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// HTMLFormatter renders the markdown report through goldmark into a
// self-contained HTML page.
type HTMLFormatter struct {
	Title string
}

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
table { border-collapse: collapse; width: 100%; margin: 0.5rem 0 1rem; }
th, td { border: 1px solid #d1d9e0; padding: 6px 10px; text-align: left; font-size: 14px; }
th { background: #f6f8fa; }
code { background: #f6f8fa; padding: 1px 4px; border-radius: 4px; font-size: 85%; }
details { border: 1px solid #d1d9e0; border-radius: 6px; padding: 0.5rem 1rem; margin-bottom: 0.75rem; }
summary { cursor: pointer; font-size: 15px; }
blockquote { color: #59636e; border-left: 3px solid #d1d9e0; margin: 0; padding-left: 1rem; }
hr { border: none; border-top: 1px solid #d1d9e0; margin: 1.5rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func (f *HTMLFormatter) Format(w io.Writer, result *types.ScanResult) error {
	var md bytes.Buffer
	if err := (&MarkdownFormatter{}).Format(&md, result); err != nil {
		return err
	}

	converter := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}

	title := f.Title
	if title == "" {
		title = "Code Analytics Report"
	}
	return htmlPage.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()),
	})
}
