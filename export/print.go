package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"backoffice/records"
)

// HTMLContentType is the media type of PrintHTML output.
const HTMLContentType = "text/html; charset=utf-8"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

const printStyle = `body{font-family:Arial,Helvetica,sans-serif;font-size:12px;margin:24px}
h1{font-size:18px;margin-bottom:4px}
p.meta{color:#555;margin-top:0}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #999;padding:4px 6px;text-align:left;vertical-align:top}
th{background:#eee}
@media print{body{margin:0}}`

// PrintHTML renders items as a standalone HTML page meant for the browser's
// print dialog. The table is built as Markdown and converted by goldmark.
func PrintHTML[T any](title string, fields []records.Field[T], items []T, generatedAt time.Time) ([]byte, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", escapeMarkdown(title))
	fmt.Fprintf(&md, "Generated %s, %d record(s).\n\n", generatedAt.UTC().Format("2006-01-02 15:04 MST"), len(items))

	if len(fields) > 0 {
		md.WriteString("|")
		for _, f := range fields {
			md.WriteString(" " + escapeMarkdown(f.Label) + " |")
		}
		md.WriteString("\n|")
		for range fields {
			md.WriteString(" --- |")
		}
		md.WriteString("\n")
		for _, item := range items {
			md.WriteString("|")
			for _, f := range fields {
				md.WriteString(" " + escapeMarkdown(f.Text(item)) + " |")
			}
			md.WriteString("\n")
		}
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(md.String()), &body); err != nil {
		return nil, fmt.Errorf("export: render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&out, "<style>\n%s\n</style>\n</head>\n<body>\n", printStyle)
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// escapeMarkdown backslash-escapes ASCII punctuation so cell text is never
// read as Markdown or raw HTML, and folds newlines that would break a row.
func escapeMarkdown(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|~\"'&:;=?@$%^,/", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
