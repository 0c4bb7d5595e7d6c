// Package docs holds the embedded user documentation.
//
// Each topic is one Markdown file under content/. The docs command
// renders topics in the terminal; the docsite generator turns the same
// files into HTML.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one documentation page.
type Topic struct {
	Name  string // name used to look the topic up, e.g. "views"
	Title string // first heading of the page
	Body  string // raw Markdown
}

// Content returns the embedded Markdown tree rooted at the topic files.
func Content() (fs.FS, error) {
	return fs.Sub(contentFS, "content")
}

// Topics returns every embedded topic, sorted by name.
func Topics() []Topic {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil
	}

	topics := make([]Topic, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		topic, err := Get(name)
		if err != nil {
			continue
		}
		topics = append(topics, topic)
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics
}

// Get returns the topic with the given name.
func Get(name string) (Topic, error) {
	data, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return Topic{}, fmt.Errorf("unknown topic %q", name)
	}

	body := string(data)
	return Topic{
		Name:  name,
		Title: extractTitle(body, name),
		Body:  body,
	}, nil
}

// extractTitle returns the first H1 heading, or fallback if there is none.
func extractTitle(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
