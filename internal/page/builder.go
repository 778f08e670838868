package page

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"propdash/internal/charts"
	"propdash/internal/heatmap"
)

//go:embed templates/dashboard.html
var templates embed.FS

// DefaultNotes is shown under the map unless DASHBOARD_NOTES overrides it
const DefaultNotes = `### About this dashboard

Property data comes from the [PropertyData API](https://propertydata.co.uk):

- **Planning**: granted extensions and loft conversions, grouped by month
- **Schools**: nearest state schools by number of pupils
- **Crime**: reported cases by type
- **Restaurants**: food hygiene ratings nearby

Charts refresh automatically. The heat map layer is illustrative sample data.`

// Builder renders the dashboard page
type Builder struct {
	tmpl     *template.Template
	goldmark goldmark.Markdown
}

// Data is everything the page template needs
type Data struct {
	Title        string
	Version      string
	GeneratedAt  string
	AssetsHost   string
	Notes        template.HTML
	Charts       []charts.ChartSnippet
	MapElementID string
	MapState     template.JS
	PollMillis   template.JS
}

// NewBuilder parses the embedded page template
func NewBuilder() (*Builder, error) {
	tmpl, err := template.ParseFS(templates, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &Builder{tmpl: tmpl, goldmark: md}, nil
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark. Raw HTML
// in the input is dropped.
func (b *Builder) ConvertMarkdownToHTML(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page describes one rendering of the dashboard
type Page struct {
	Title      string
	Version    string
	AssetsHost string
	Notes      string
	Charts     []charts.ChartSnippet
	Map        heatmap.MapState
	Poll       time.Duration
	Now        time.Time
}

// Render writes the complete page to w
func (b *Builder) Render(w io.Writer, p Page) error {
	notes := p.Notes
	if notes == "" {
		notes = DefaultNotes
	}
	notesHTML, err := b.ConvertMarkdownToHTML(notes)
	if err != nil {
		return err
	}

	state, err := json.Marshal(p.Map)
	if err != nil {
		return fmt.Errorf("failed to encode map state: %w", err)
	}

	poll := p.Poll
	if poll <= 0 {
		poll = 30 * time.Second
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	data := Data{
		Title:        p.Title,
		Version:      p.Version,
		GeneratedAt:  now.UTC().Format("2006-01-02 15:04:05 UTC"),
		AssetsHost:   p.AssetsHost,
		Notes:        notesHTML,
		Charts:       p.Charts,
		MapElementID: p.Map.View.ElementID,
		MapState:     template.JS(state),
		PollMillis:   template.JS(strconv.FormatInt(poll.Milliseconds(), 10)),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
