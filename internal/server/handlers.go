package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"propdash/internal/charts"
	"propdash/internal/dashboard"
	"propdash/internal/logger"
	"propdash/internal/models"
)

const maxResizeBody = 1 << 10

// HandleRoot serves the dashboard page. Serving it counts as the page
// becoming ready, which fires a refresh unless disabled.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var snippets []charts.ChartSnippet
	for _, element := range s.Dashboard.Registry().Layout().Charts() {
		var option []byte
		if h := s.Dashboard.HandleByElement(element.ID); h != nil {
			option = h.Snapshot().Option
		}
		snippets = append(snippets, charts.NewSnippet(element.ID, charts.Title(element.Dataset), option, "400px"))
	}

	var buf bytes.Buffer
	err := s.Page.Render(&buf, s.page(snippets))
	if err != nil {
		s.log.Error("Failed to render dashboard page", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	if s.Config.RefreshOnPageLoad {
		s.Driver.Trigger(s.ctx, "page-load")
	}

	w.Header().Set("Content-Type", GetContentType(".html"))
	buf.WriteTo(w)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pipelines := s.Dashboard.Status()
	checks := map[string]string{"config": "ok"}
	for _, p := range pipelines {
		checks[string(p.Dataset)] = string(p.Phase)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.Version,
		"mockup":    s.Config.MockupMode,
		"checks":    checks,
		"pipelines": pipelines,
	})
}

// HandleChart returns the latest option of one chart
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	element, ok := s.chartElement(strings.TrimPrefix(r.URL.Path, "/api/charts/"))
	if !ok {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	state := dashboard.HandleState{ElementID: element.ID}
	if h := s.Dashboard.HandleByElement(element.ID); h != nil {
		state = h.Snapshot()
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleHeat returns the map view and heat layer
func (s *Server) HandleHeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Map.State())
}

// HandleResize relayouts every drawn chart for a new viewport
func (s *Server) HandleResize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var viewport models.Size
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxResizeBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&viewport); err != nil {
		http.Error(w, "Invalid viewport: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !viewport.Valid() {
		http.Error(w, "Invalid viewport: width and height must be positive", http.StatusBadRequest)
		return
	}

	n := s.Dashboard.Resize(viewport)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"viewport": viewport,
		"charts":   n,
	})
}

// HandleRefresh fires a refresh of every chart without waiting for it
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Driver.Trigger(s.ctx, "api")
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":    "accepted",
		"pipelines": s.Dashboard.Datasets(),
	})
}

// HandleChartPNG renders a chart's latest series as a static PNG
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/charts/")
	if !strings.HasSuffix(name, ".png") {
		http.NotFound(w, r)
		return
	}
	element, ok := s.chartElement(strings.TrimSuffix(name, ".png"))
	if !ok {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	h := s.Dashboard.HandleByElement(element.ID)
	if h == nil {
		http.Error(w, "Chart has no data yet", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := s.Charts.RenderPNG(element.Dataset, h.Snapshot().Series, &buf); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			http.Error(w, "Chart has no data yet", http.StatusNotFound)
			return
		}
		s.log.Error("Failed to render chart image", err, logger.Fields{"element": element.ID})
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", GetContentType(name))
	buf.WriteTo(w)
}

// chartElement resolves a chart by element id or by dataset name
func (s *Server) chartElement(id string) (dashboard.Element, bool) {
	layout := s.Dashboard.Registry().Layout()
	if element, ok := layout.Lookup(id); ok {
		return element, element.Kind == dashboard.KindChart
	}
	dataset, err := models.ParseDataset(id)
	if err != nil {
		return dashboard.Element{}, false
	}
	return layout.ElementFor(dataset)
}
