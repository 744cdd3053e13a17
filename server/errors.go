package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/timeseer/forecastkit"
	"github.com/timeseer/forecastkit/engine"
	"github.com/timeseer/forecastkit/schema"
	"github.com/timeseer/forecastkit/series"
	"github.com/timeseer/forecastkit/tabular"
)

// APIError is the structured JSON error body returned on failures.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{
		StatusCode: status,
		ErrorCode:  code,
		Message:    message,
	}
}

// apiError maps the pipeline error taxonomy onto HTTP statuses.
// Ingestion and schema failures are the user's data to fix (422);
// engine failures are upstream (502) and leave prior results
// intact.
func apiError(err error) *APIError {
	switch {
	case errors.Is(err, tabular.ErrEmptyInput):
		return newAPIError(http.StatusUnprocessableEntity, "EMPTY_INPUT", "no parseable rows in the uploaded file")
	case errors.Is(err, schema.ErrNoValueColumns):
		return newAPIError(http.StatusUnprocessableEntity, "NO_VALUE_COLUMNS", "no numeric columns detected in the uploaded file")
	case errors.Is(err, schema.ErrDuplicateHeader):
		return newAPIError(http.StatusUnprocessableEntity, "DUPLICATE_HEADER", err.Error())
	case errors.Is(err, series.ErrUnknownColumn):
		return newAPIError(http.StatusBadRequest, "UNKNOWN_COLUMN", err.Error())
	case errors.Is(err, series.ErrEmptySeries):
		return newAPIError(http.StatusUnprocessableEntity, "EMPTY_SERIES", err.Error())
	case errors.Is(err, engine.ErrInvalidSeasonalPeriod):
		return newAPIError(http.StatusBadRequest, "INVALID_SEASONAL_PERIOD", err.Error())
	case errors.Is(err, engine.ErrRejected):
		return newAPIError(http.StatusBadRequest, "ENGINE_REJECTED", err.Error())
	case errors.Is(err, engine.ErrUnavailable):
		return newAPIError(http.StatusBadGateway, "ENGINE_UNAVAILABLE", "forecast engine unavailable; previous results remain valid")
	case errors.Is(err, engine.ErrMalformedResponse):
		return newAPIError(http.StatusBadGateway, "ENGINE_MALFORMED_RESPONSE", err.Error())
	case errors.Is(err, forecastkit.ErrSuperseded):
		return newAPIError(http.StatusConflict, "SUPERSEDED", "forecast superseded by a newer request")
	case errors.Is(err, forecastkit.ErrNoDataset):
		return newAPIError(http.StatusNotFound, "NO_DATASET", err.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *APIError
	if !errors.As(err, &ae) {
		ae = apiError(err)
	}
	render.Status(r, ae.StatusCode)
	render.JSON(w, r, ae)
}
