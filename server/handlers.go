package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/timeseer/forecastkit"
	"github.com/timeseer/forecastkit/engine"
)

// previewRows bounds the sanitized-row sample returned with a dataset.
const previewRows = 10

// forecastPayload is the body of POST /api/datasets/{id}/forecast.
type forecastPayload struct {
	Column         string `json:"column" validate:"required"`
	ModelType      string `json:"model_type" validate:"omitempty,oneof=auto manual"`
	P              int    `json:"p" validate:"gte=0"`
	D              int    `json:"d" validate:"gte=0"`
	Q              int    `json:"q" validate:"gte=0"`
	Seasonal       bool   `json:"seasonal"`
	SeasonalPeriod int    `json:"seasonal_period" validate:"gte=0"`
}

// CreateDataset ingests a multipart upload and opens a session for it.
func (s *Server) CreateDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		renderError(w, r, newAPIError(http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
			fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		renderError(w, r, newAPIError(http.StatusBadRequest, "MISSING_FILE", `multipart field "file" is required`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		renderError(w, r, fmt.Errorf("unable to read upload: %w", err))
		return
	}

	id, analyzer := s.newSession()
	ds, err := analyzer.Load(header.Filename, data)
	if err != nil {
		s.dropSession(id)
		s.logger.Warn("upload rejected",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		renderError(w, r, err)
		return
	}

	summaries := make(map[string]any, len(ds.Schema.ValueColumns))
	for _, col := range ds.Schema.ValueColumns {
		summaries[col] = analyzer.Stats(col)
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"id":           id,
		"name":         ds.Name,
		"schema":       ds.Schema,
		"rows":         len(ds.Rows),
		"skipped_rows": ds.Skipped,
		"dropped_rows": ds.Dropped,
		"preview":      analyzer.Preview(previewRows),
		"stats":        summaries,
	})
}

// GetDataset returns the session's schema, row counts, and a preview
// of the sanitized rows.
func (s *Server) GetDataset(w http.ResponseWriter, r *http.Request) {
	analyzer := s.session(sessionID(r))
	ds := analyzer.Dataset()

	render.JSON(w, r, map[string]any{
		"id":           sessionID(r),
		"name":         ds.Name,
		"schema":       ds.Schema,
		"rows":         len(ds.Rows),
		"skipped_rows": ds.Skipped,
		"dropped_rows": ds.Dropped,
		"preview":      analyzer.Preview(previewRows),
	})
}

// GetSeries returns the projected series for one value column.
func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	analyzer := s.session(sessionID(r))
	proj, err := analyzer.Project(columnParam(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"column": columnParam(r),
		"series": proj,
	})
}

// GetStats returns min/max/avg for one column.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	analyzer := s.session(sessionID(r))
	render.JSON(w, r, map[string]any{
		"column": columnParam(r),
		"stats":  analyzer.Stats(columnParam(r)),
	})
}

// RunForecast validates the payload and runs one forecast through the
// engine. Engine failures do not invalidate previously returned data.
func (s *Server) RunForecast(w http.ResponseWriter, r *http.Request) {
	var payload forecastPayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		renderError(w, r, newAPIError(http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON"))
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		renderError(w, r, newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", err.Error()))
		return
	}

	cfg := engine.ModelConfig{
		Type:           engine.ModelAuto,
		Seasonal:       payload.Seasonal,
		SeasonalPeriod: payload.SeasonalPeriod,
	}
	if payload.ModelType == string(engine.ModelManual) {
		cfg.Type = engine.ModelManual
		cfg.Order = engine.Order{P: payload.P, D: payload.D, Q: payload.Q}
	}

	analyzer := s.session(sessionID(r))
	out, err := analyzer.Forecast(r.Context(), payload.Column, cfg)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

// GetChart renders the last outcome for the column as an echarts html
// page, or the bare series when no forecast has run yet.
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	analyzer := s.session(sessionID(r))
	column := columnParam(r)

	rec, err := analyzer.ReconciledFor(column)
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := forecastkit.RenderChart(w, column, rec); err != nil {
		s.logger.Error("chart render failed", slog.String("error", err.Error()))
	}
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
