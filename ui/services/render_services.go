package services

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domainstats "featurecard/domain/stats"
	"featurecard/internal/featureview"
	"featurecard/ui/templates/fragments"
)

// Toggle is one switch of the feature card toolbar.
type Toggle struct {
	Name    string
	Label   string
	On      bool
	Enabled bool
	URL     string
}

// CardPage is everything the feature card page template renders.
type CardPage struct {
	Title       string
	DivID       string
	Column      string
	Level       string
	Description string
	Phase       string
	Message     string
	IsError     bool
	StatsHTML   template.HTML
	ChartURL    string
	HasChart    bool
	FullScreen  bool
	Width       int
	Height      int
	Toggles     []Toggle
}

type RenderService struct {
	templates *template.Template
}

// NewRenderService parses every card template from templatesFS.
func NewRenderService(templatesFS fs.FS) (*RenderService, error) {
	templates := template.New("")
	for _, path := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", path, err)
		}
		if _, err := templates.New(path).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
		}
	}
	return &RenderService{templates: templates}, nil
}

func (s *RenderService) RenderFeatureCard(page CardPage) string {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, fragments.FeatureCardPage, page); err != nil {
		log.Printf("[ERROR] Failed to render feature card template: %v", err)
		return `<div class="card-message" role="alert">Error rendering feature card</div>`
	}
	return buf.String()
}

// StatsHTML renders the stats table of a view as HTML.
func (s *RenderService) StatsHTML(view *featureview.View) template.HTML {
	md := StatsMarkdown(view)
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	// raw HTML is skipped and text is escaped by the renderer
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// StatsMarkdown lays the stats of a view out as a markdown table, one row per
// stat. A stacked view gets one extra column per target class.
func StatsMarkdown(view *featureview.View) string {
	if view == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sample size: %d\n\n", view.Stats.SampleSize)

	header := []string{"Stat", "Value"}
	columns := []domainstats.Descriptive{view.Stats}
	if view.Stacked() {
		header[1] = "All"
		for _, cs := range view.ClassStats {
			header = append(header, escapeCell(cs.Class))
			columns = append(columns, cs.Stats)
		}
	}
	writeRow(&b, header)
	rule := make([]string, len(header))
	rule[0] = "---"
	for i := 1; i < len(rule); i++ {
		rule[i] = "---:"
	}
	writeRow(&b, rule)

	for _, name := range domainstats.Vocabulary(view.Record.Level) {
		row := []string{escapeCell(string(name))}
		for _, stats := range columns {
			row = append(row, escapeCell(stats.Get(name).String()))
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"\n", " ",
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
