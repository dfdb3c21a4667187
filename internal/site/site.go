// Package site builds the static HTML page for an issue so it can be
// deployed as-is to any static host. The page is the rendered newsletter
// Markdown wrapped in a standalone layout.
package site

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/framework-foundry/weekly/internal/models"
)

var md = goldmark.New(
	// Tables need the GFM extension; the snapshot sections are all tables.
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s - %s</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f7fa; color: #1e1e1e; line-height: 1.6; margin: 0; }
.header { background: linear-gradient(135deg, #142850, #1a3a6b); color: white; padding: 40px 20px; text-align: center; }
.header h1 { font-size: 2.2rem; margin: 0 0 6px; }
.header .subtitle { font-size: 0.95rem; opacity: 0.75; }
.container { max-width: 900px; margin: 0 auto; padding: 30px 20px; background: white; border-radius: 10px; box-shadow: 0 1px 4px rgba(0,0,0,0.06); }
.container > h1 { display: none; }
h2 { font-size: 1.3rem; color: #142850; padding-bottom: 8px; border-bottom: 3px solid #3264b4; display: inline-block; }
table { width: 100%%; border-collapse: collapse; margin-top: 16px; font-size: 0.9rem; }
thead th { background: #142850; color: white; padding: 10px 12px; text-align: left; }
tbody tr:nth-child(even) { background: #f5f7fa; }
tbody td { padding: 9px 12px; border-bottom: 1px solid #eee; }
blockquote { background: #f0f4fa; border-left: 3px solid #3264b4; padding: 10px 14px; margin: 8px 0; font-size: 0.85rem; border-radius: 0 6px 6px 0; }
</style>
</head>
<body>
<div class="header">
<h1>%s</h1>
<div class="subtitle">Week ending %s</div>
</div>
<div class="container">
%s
</div>
</body>
</html>
`

// FileName returns the page file name for an edition. Editions get distinct
// names so both builds can share one site directory.
func FileName(edition models.Edition) string {
	if edition == models.EditionInternational {
		return "intl_index.html"
	}
	return "index.html"
}

// Build writes the issue's page under dir and returns the file path.
func Build(markdown string, summary *models.WeekSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create site directory: %w", err)
	}

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to convert newsletter to HTML: %w", err)
	}

	title := "Framework Foundry Weekly"
	if summary.Edition == models.EditionInternational {
		title = "Framework Foundry Weekly - International Edition"
	}

	page := fmt.Sprintf(pageTemplate,
		html.EscapeString(title), html.EscapeString(summary.WeekEnding),
		html.EscapeString(title), html.EscapeString(summary.WeekEnding),
		body.String())

	path := filepath.Join(dir, FileName(summary.Edition))
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("failed to write site page: %w", err)
	}
	return path, nil
}
