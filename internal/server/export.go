package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"propdash/internal/charts"
	"propdash/internal/logger"
	"propdash/internal/models"
)

// Snapshot is one dataset's state after a refresh
type Snapshot struct {
	Dataset   models.Dataset       `json:"dataset"`
	ElementID string               `json:"element_id"`
	Phase     models.PipelinePhase `json:"phase"`
	Error     string               `json:"error,omitempty"`
	Series    *models.Series       `json:"series,omitempty"`
}

// GeneratedFiles lists what Export wrote
type GeneratedFiles struct {
	Dir        string   `json:"dir"`
	HTMLFile   string   `json:"html_file"`
	ChartFiles []string `json:"chart_files"`
	JSONFiles  []string `json:"json_files"`
}

// Snapshot refreshes every chart once and reports the result per dataset.
// The returned error is the first pipeline failure, if any.
func (s *Server) Snapshot(ctx context.Context) ([]Snapshot, error) {
	refreshErr := s.Dashboard.RefreshAll(ctx)

	var out []Snapshot
	for _, status := range s.Dashboard.Status() {
		snap := Snapshot{
			Dataset:   status.Dataset,
			ElementID: status.ElementID,
			Phase:     status.Phase,
			Error:     status.LastError,
		}
		if status.Phase == models.PhaseRendered {
			if h := s.Dashboard.Handle(status.Dataset); h != nil {
				series := h.Snapshot().Series
				snap.Series = &series
			}
		}
		out = append(out, snap)
	}
	return out, refreshErr
}

// Export writes the current dashboard to dir: the page as index.html, a PNG
// per chart with data and each dataset's series as JSON
func (s *Server) Export(dir string) (*GeneratedFiles, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	log := s.log.With(logger.Fields{"dir": dir})
	files := &GeneratedFiles{Dir: dir, ChartFiles: []string{}, JSONFiles: []string{}}

	var snippets []charts.ChartSnippet
	for _, element := range s.Dashboard.Registry().Layout().Charts() {
		h := s.Dashboard.HandleByElement(element.ID)
		if h == nil {
			snippets = append(snippets, charts.NewSnippet(element.ID, charts.Title(element.Dataset), nil, "400px"))
			continue
		}
		state := h.Snapshot()
		snippets = append(snippets, charts.NewSnippet(element.ID, charts.Title(element.Dataset), state.Option, "400px"))

		seriesJSON, err := json.MarshalIndent(state.Series, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s series: %w", element.Dataset, err)
		}
		jsonFile := filepath.Join(dir, string(element.Dataset)+".json")
		if err := os.WriteFile(jsonFile, seriesJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", jsonFile, err)
		}
		files.JSONFiles = append(files.JSONFiles, jsonFile)

		var png bytes.Buffer
		if err := s.Charts.RenderPNG(element.Dataset, state.Series, &png); err != nil {
			if errors.Is(err, charts.ErrNoData) {
				log.Warn("Skipping chart image without data", logger.Fields{"element": element.ID})
				continue
			}
			return nil, fmt.Errorf("failed to render %s image: %w", element.ID, err)
		}
		pngFile := filepath.Join(dir, element.ID+".png")
		if err := os.WriteFile(pngFile, png.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", pngFile, err)
		}
		files.ChartFiles = append(files.ChartFiles, pngFile)
	}

	var page bytes.Buffer
	if err := s.Page.Render(&page, s.page(snippets)); err != nil {
		return nil, err
	}
	files.HTMLFile = filepath.Join(dir, "index.html")
	if err := os.WriteFile(files.HTMLFile, page.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", files.HTMLFile, err)
	}

	log.Info("Dashboard exported", logger.Fields{
		"charts": len(files.ChartFiles),
		"json":   len(files.JSONFiles),
	})
	return files, nil
}
