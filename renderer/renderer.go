// Package renderer renders ledger views as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderTradeList renders the list of trades to a markdown string.
func RenderTradeList(l *TradeList) string {
	partials := map[string]string{
		"trade_list_total": "trade_list_total.md",
	}
	return renderTemplate("tradeList", "trade_list.md", partials, l)
}

// RenderTrade renders the detail of a trade to a markdown string.
func RenderTrade(v *TradeView, opts Options) string {
	partials := map[string]string{
		"trade_title":        "trade_title.md",
		"trade_summary":      "trade_summary.md",
		"trade_open_legs":    "trade_open_legs.md",
		"trade_transactions": "trade_transactions.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipTransactions {
		partials["trade_transactions"] = ""
	}
	return renderTemplate("trade", "trade.md", partials, v)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
