package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bulletrow/internal/bullet"
	"bulletrow/internal/config"
	"bulletrow/internal/logger"
	"bulletrow/internal/models"
	"bulletrow/internal/render"
	"bulletrow/internal/storage"
)

// RenderRequest is the body of POST /render. Unset fields fall back to
// the server configuration.
type RenderRequest struct {
	Width        *float64         `json:"width,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	Margins      *bullet.Margins  `json:"margins,omitempty"`
	GraphMarginH *float64         `json:"graphMarginH,omitempty"`
	Palette      string           `json:"palette,omitempty"`
	Format       string           `json:"format,omitempty"`
	Title        string           `json:"title,omitempty"`
	Store        bool             `json:"store,omitempty"`
	Data         []models.Dataset `json:"data"`
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storageCheck := "disabled"
	if s.Storage != nil {
		storageCheck = "ok"
	}
	health := map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(""),
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": storageCheck,
			"config":  "ok",
		},
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleRender lays out and encodes one bullet row
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, "unknown", http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	formatName := req.Format
	if formatName == "" {
		formatName = s.Config.OutputFormat
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		s.fail(w, "unknown", http.StatusBadRequest, err)
		return
	}

	ch, err := s.chartFor(req)
	if err != nil {
		s.fail(w, string(format), http.StatusBadRequest, err)
		return
	}
	if err := bullet.Validate(ch.Options(), ch.Data()); err != nil {
		status := http.StatusInternalServerError
		var ve *bullet.ValidationError
		if errors.As(err, &ve) {
			status = http.StatusBadRequest
		}
		s.fail(w, string(format), status, err)
		return
	}
	if idx := bullet.LabelMismatches(ch.Options(), ch.Data()); len(idx) > 0 {
		s.log.Warn("label count differs from result count", logger.Fields{"datasets": idx})
	}

	start := s.now()
	canvas := render.NewCanvas(format, s.log)
	if req.Title != "" {
		canvas.SnippetTitle = req.Title
	}
	if err := ch.Render(canvas); err != nil {
		s.fail(w, string(format), http.StatusInternalServerError, fmt.Errorf("render failed: %w", err))
		return
	}
	s.metrics.duration.WithLabelValues(string(format)).Observe(s.now().Sub(start).Seconds())

	if req.Store {
		if s.Storage == nil {
			s.fail(w, string(format), http.StatusBadRequest, fmt.Errorf("storage is not configured"))
			return
		}
		location, err := s.store(r.Context(), format, canvas.Bytes())
		if err != nil {
			s.fail(w, string(format), http.StatusInternalServerError, fmt.Errorf("failed to store chart: %w", err))
			return
		}
		w.Header().Set("X-Chart-Location", location)
		s.log.Info("chart stored", logger.Fields{"location": location})
	}

	s.metrics.renders.WithLabelValues(string(format), "ok").Inc()
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := canvas.WriteTo(w); err != nil {
		s.log.Error("failed to write response", err)
	}
}

// store writes data under a dated name that no earlier render holds
func (s *Server) store(ctx context.Context, format render.Format, data []byte) (string, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	name, err := storage.FreeFilePath(ctx, s.Storage, storage.ChartBaseName(s.now()), string(format))
	if err != nil {
		return "", err
	}
	if err := s.Storage.StoreFile(ctx, name, data); err != nil {
		return "", err
	}
	return s.Storage.Location(name), nil
}

// chartFor builds a chart from the configured defaults and req overrides
func (s *Server) chartFor(req RenderRequest) (*bullet.Chart, error) {
	ch := s.Config.NewChart().SetData(req.Data)
	if req.Width != nil {
		ch.SetWidth(*req.Width)
	}
	if req.Height != nil {
		ch.SetHeight(*req.Height)
	}
	if req.Margins != nil {
		ch.SetMargins(*req.Margins)
	}
	if req.GraphMarginH != nil {
		ch.SetGraphMarginH(*req.GraphMarginH)
	}
	if req.Palette != "" {
		p, ok := bullet.PaletteByName(req.Palette)
		if !ok {
			return nil, fmt.Errorf("unknown palette %q", req.Palette)
		}
		ch.SetBandPalette(p).SetResultPalette(p)
	}
	return ch, nil
}

func (s *Server) fail(w http.ResponseWriter, format string, status int, err error) {
	s.metrics.renders.WithLabelValues(format, "error").Inc()
	if status >= http.StatusInternalServerError {
		s.log.Error("render request failed", err)
	} else {
		s.log.Warn("render request rejected", logger.Fields{"error": err.Error(), "status": status})
	}
	writeJSON(w, status, map[string]interface{}{
		"error":  err.Error(),
		"status": status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
