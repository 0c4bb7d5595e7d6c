package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

//go:embed templates/dashboard.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// DashboardHandler renders the HTML page and answers the JSON API.
type DashboardHandler struct {
	fetcher Fetcher
	tmpl    *template.Template
	printer *message.Printer
}

// NewDashboardHandler parses the embedded page template.
func NewDashboardHandler(fetcher Fetcher) (*DashboardHandler, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard template: %w", err)
	}
	return &DashboardHandler{
		fetcher: fetcher,
		tmpl:    tmpl,
		printer: message.NewPrinter(language.English),
	}, nil
}

// NewDashboardMux wires the page, static assets and API routes onto one mux.
func NewDashboardMux(fetcher Fetcher) (http.Handler, error) {
	h, err := NewDashboardHandler(fetcher)
	if err != nil {
		return nil, err
	}
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", h.serveAPI)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/", h.servePage)
	return mux, nil
}

// pageData is everything the dashboard template renders.
type pageData struct {
	View      string
	Sort      string
	Views     []string
	Processes []ProcessRow
	Memory    proc.MemorySummary
	MemoryOK  bool
	Groups    []view.Group
	Summary   pageSummary
	Generated string
}

// pageSummary is the headline strip above the table. Values are
// pre-formatted with digit grouping so the template stays dumb.
type pageSummary struct {
	Total    string
	Killable string
	Orphans  string
	TotalMB  string
}

func (h *DashboardHandler) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{
		View:      q.View.String(),
		Sort:      string(q.Sort),
		Views:     view.Names(),
		Generated: time.Now().Format("15:04:05"),
	}

	// Run all fetches in parallel. Memory and groups are decoration;
	// the table renders without them, so only a process fetch failure
	// turns into a 500.
	var wg sync.WaitGroup
	var procErr error
	wg.Add(3)
	go func() {
		defer wg.Done()
		data.Processes, procErr = h.fetcher.FetchProcesses(q)
	}()
	go func() {
		defer wg.Done()
		mem, err := h.fetcher.FetchMemory()
		if err != nil {
			log.Printf("dashboard: FetchMemory failed: %v", err)
			return
		}
		data.Memory = mem
		data.MemoryOK = true
	}()
	go func() {
		defer wg.Done()
		groups, err := h.fetcher.FetchGroups()
		if err != nil {
			log.Printf("dashboard: FetchGroups failed: %v", err)
			return
		}
		data.Groups = groups
	}()
	wg.Wait()

	if procErr != nil {
		log.Printf("dashboard: FetchProcesses failed: %v", procErr)
		http.Error(w, "Failed to read process table", http.StatusInternalServerError)
		return
	}
	data.Summary = h.summarize(data.Processes)

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		log.Printf("dashboard: template execution failed: %v", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// summarize computes the headline numbers for a rendered table.
func (h *DashboardHandler) summarize(rows []ProcessRow) pageSummary {
	var killable, orphans int
	var totalMB float64
	for _, row := range rows {
		if row.Killable {
			killable++
		}
		if row.IsOrphan {
			orphans++
		}
		totalMB += row.RSSMB
	}
	return pageSummary{
		Total:    h.printer.Sprintf("%d", len(rows)),
		Killable: h.printer.Sprintf("%d", killable),
		Orphans:  h.printer.Sprintf("%d", orphans),
		TotalMB:  h.printer.Sprintf("%.1f", totalMB),
	}
}

func (h *DashboardHandler) serveAPI(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/processes":
		h.apiProcesses(w, r)
	case "/api/memory":
		h.apiMemory(w, r)
	case "/api/groups":
		h.apiGroups(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *DashboardHandler) apiProcesses(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.fetcher.FetchProcesses(q)
	if err != nil {
		log.Printf("dashboard: FetchProcesses failed: %v", err)
		apiError(w, http.StatusInternalServerError, "Failed to read process table")
		return
	}
	if rows == nil {
		rows = []ProcessRow{}
	}
	writeJSON(w, rows)
}

func (h *DashboardHandler) apiMemory(w http.ResponseWriter, r *http.Request) {
	mem, err := h.fetcher.FetchMemory()
	if err != nil {
		log.Printf("dashboard: FetchMemory failed: %v", err)
		apiError(w, http.StatusInternalServerError, "Failed to read memory info")
		return
	}
	writeJSON(w, mem)
}

func (h *DashboardHandler) apiGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.fetcher.FetchGroups()
	if err != nil {
		log.Printf("dashboard: FetchGroups failed: %v", err)
		apiError(w, http.StatusInternalServerError, "Failed to read process table")
		return
	}
	if groups == nil {
		groups = []view.Group{}
	}
	writeJSON(w, groups)
}

// apiError reports an API failure as JSON so clients never have to sniff
// between HTML and data responses.
func apiError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("dashboard: encoding error response: %v", err)
	}
}

// writeJSON sends v with no-store; the table changes constantly so a
// cached response is always stale.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("dashboard: encoding response: %v", err)
	}
}
