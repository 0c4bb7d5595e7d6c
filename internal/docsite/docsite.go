// Package docsite renders Markdown documentation into a static HTML
// site with pretty URLs. The source is normally the embedded manual,
// but any fs.FS of Markdown files works.
package docsite

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed page.html
var defaultTemplate string

// Generator renders the Markdown files of Source into OutputDir. Each
// topic.md becomes topic/index.html so links need no extension.
type Generator struct {
	Source    fs.FS
	OutputDir string
	md        goldmark.Markdown
	tmpl      *template.Template
}

// PageData is what the page template sees.
type PageData struct {
	Title   string
	Content template.HTML
	// Root is the relative prefix back to the site root: "./" on the
	// index, "../" on topic pages.
	Root string
}

// TopicLink is one entry on the generated index page.
type TopicLink struct {
	Name  string
	Title string
}

// NewGenerator builds a generator over source. An empty templateFile
// uses the built-in page template.
func NewGenerator(source fs.FS, outputDir, templateFile string) (*Generator, error) {
	g := &Generator{
		Source:    source,
		OutputDir: outputDir,
	}

	g.md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	tmplContent := defaultTemplate
	if templateFile != "" {
		raw, err := os.ReadFile(templateFile)
		if err != nil {
			return nil, fmt.Errorf("reading template: %w", err)
		}
		tmplContent = string(raw)
	}

	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	g.tmpl = tmpl
	return g, nil
}

// Generate renders every Markdown file plus an index page linking the
// topics. The overview topic sorts first on the index since it is the
// front door.
func (g *Generator) Generate() error {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var topics []TopicLink
	err := fs.WalkDir(g.Source, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		title, err := g.renderPage(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ".md")
		if name != "index" {
			topics = append(topics, TopicLink{Name: name, Title: title})
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(topics, func(i, j int) bool {
		if (topics[i].Name == "overview") != (topics[j].Name == "overview") {
			return topics[i].Name == "overview"
		}
		return topics[i].Name < topics[j].Name
	})
	return g.renderIndex(topics)
}

// renderPage converts one Markdown file and writes its HTML page,
// returning the extracted title.
func (g *Generator) renderPage(path string) (string, error) {
	content, err := fs.ReadFile(g.Source, path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var htmlBuf bytes.Buffer
	if err := g.md.Convert(content, &htmlBuf); err != nil {
		return "", fmt.Errorf("converting %s: %w", path, err)
	}

	title := ExtractTitle(content, path)
	data := PageData{
		Title:   title,
		Content: template.HTML(RewriteLinks(htmlBuf.String())),
		Root:    "../",
	}
	if strings.TrimSuffix(filepath.Base(path), ".md") == "index" {
		data.Root = "./"
	}
	return title, g.writePage(MapPath(g.OutputDir, path), data)
}

// renderIndex writes the generated topic listing, unless the source
// carried its own index.md.
func (g *Generator) renderIndex(topics []TopicLink) error {
	indexPath := filepath.Join(g.OutputDir, "index.html")
	if _, err := os.Stat(indexPath); err == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("<h1>procclean manual</h1>\n<ul class=\"topics\">\n")
	for _, topic := range topics {
		fmt.Fprintf(&b, "<li><a href=\"./%s/\">%s</a></li>\n",
			template.HTMLEscapeString(topic.Name), template.HTMLEscapeString(topic.Title))
	}
	b.WriteString("</ul>\n")

	data := PageData{
		Title:   "procclean manual",
		Content: template.HTML(b.String()),
		Root:    "./",
	}
	return g.writePage(indexPath, data)
}

func (g *Generator) writePage(outputPath string, data PageData) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outputPath, err)
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template for %s: %w", outputPath, err)
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

var h1Regex = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// mdLinkRegex matches href attributes pointing at .md files.
// Captures: (1) path before .md (2) extension (3) optional anchor.
var mdLinkRegex = regexp.MustCompile(`href="([^"]*?)(\.md)(#[^"]*)?"`)

// RewriteLinks turns internal .md links into the pretty URLs the
// generated site uses: ./views.md#sorting becomes ./views/#sorting,
// and index.md links collapse to their directory.
func RewriteLinks(html string) string {
	return mdLinkRegex.ReplaceAllStringFunc(html, func(match string) string {
		sub := mdLinkRegex.FindStringSubmatch(match)
		if len(sub) < 3 {
			return match
		}

		path := sub[1]
		anchor := ""
		if len(sub) > 3 {
			anchor = sub[3]
		}

		switch {
		case strings.HasSuffix(path, "/index"):
			path = strings.TrimSuffix(path, "index")
		case path == "index":
			path = "./"
		default:
			path += "/"
		}
		return fmt.Sprintf(`href="%s%s"`, path, anchor)
	})
}

// ExtractTitle returns the first H1 heading, falling back to the
// filename without extension.
func ExtractTitle(content []byte, filePath string) string {
	if m := h1Regex.FindSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(string(m[1]))
	}
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MapPath converts a source-relative Markdown path to its output HTML
// path. topic.md becomes topic/index.html; a literal index.md stays
// index.html.
func MapPath(outputDir, sourcePath string) string {
	rel := strings.TrimSuffix(sourcePath, ".md")
	if filepath.Base(rel) == "index" {
		return filepath.Join(outputDir, rel+".html")
	}
	return filepath.Join(outputDir, rel, "index.html")
}
