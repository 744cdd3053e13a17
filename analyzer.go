// Package forecastkit wires the upload-to-forecast pipeline together:
// parse a tabular upload, infer its schema, sanitize rows, project a
// chosen column into a time series, request a forecast from an external
// engine, and reconcile the result back onto the series.
package forecastkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/timeseer/forecastkit/engine"
	"github.com/timeseer/forecastkit/reconcile"
	"github.com/timeseer/forecastkit/sanitize"
	"github.com/timeseer/forecastkit/schema"
	"github.com/timeseer/forecastkit/series"
	"github.com/timeseer/forecastkit/stats"
	"github.com/timeseer/forecastkit/tabular"
)

var (
	ErrNoDataset  = errors.New("no dataset loaded")
	ErrNoEngine   = errors.New("no forecast engine client configured")
	ErrSuperseded = errors.New("forecast superseded by a newer request")
)

// Dataset is the immutable result of one upload after parsing, schema
// inference, and sanitization.
type Dataset struct {
	Name    string              `json:"name"`
	Schema  *schema.Schema      `json:"schema"`
	Rows    []sanitize.CleanRow `json:"-"`
	Skipped int                 `json:"skipped_rows"`
	Dropped int                 `json:"dropped_rows"`
}

// Outcome is the result of one forecast run.
type Outcome struct {
	Column     string               `json:"column"`
	Series     series.Series        `json:"series"`
	Plan       series.SplitPlan     `json:"plan"`
	Reconciled reconcile.Reconciled `json:"reconciled"`
	Metrics    engine.Metrics       `json:"metrics"`
	ModelInfo  *engine.ModelInfo    `json:"model_info,omitempty"`
}

// Analyzer runs the pipeline for one session. Each upload and forecast
// builds fresh immutable structures; concurrent analyzers never share
// state. At most one engine call is outstanding per analyzer and a new
// call supersedes the previous one (last-request-wins).
type Analyzer struct {
	opt    *Options
	client engine.Client

	mu         sync.Mutex
	dataset    *Dataset
	cancelPrev context.CancelFunc
	outcome    *Outcome
}

// NewAnalyzer creates an Analyzer talking to the given engine client.
// If no options are provided a default is used.
func NewAnalyzer(client engine.Client, opt *Options) *Analyzer {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.TrainFraction <= 0 || opt.TrainFraction >= 1 {
		opt.TrainFraction = DefaultTrainFraction
	}
	if opt.EngineTimeout <= 0 {
		opt.EngineTimeout = DefaultEngineTimeout
	}
	return &Analyzer{
		opt:    opt,
		client: client,
	}
}

// Load ingests one upload. CSV is assumed unless the filename carries
// an Excel extension. Ingestion and schema errors are terminal for the
// upload; per-row damage degrades to skip/drop counts reported through
// warning events.
func (a *Analyzer) Load(name string, data []byte) (*Dataset, error) {
	tbl, err := a.parse(name, data)
	if err != nil {
		return nil, err
	}
	a.opt.Observer.emit(Event{Stage: StageParse, Message: "parsed upload", Rows: len(tbl.Rows)})
	if tbl.Skipped > 0 {
		a.opt.Observer.emit(Event{
			Stage:   StageParse,
			Message: fmt.Sprintf("skipped %d malformed lines", tbl.Skipped),
			Rows:    tbl.Skipped,
			Warning: true,
		})
	}

	s, err := schema.Infer(tbl.Header, tbl.Rows)
	if err != nil {
		return nil, fmt.Errorf("unable to infer schema: %w", err)
	}
	a.opt.Observer.emit(Event{
		Stage:   StageSchema,
		Message: fmt.Sprintf("index column %q, %d value columns", s.IndexColumn, len(s.ValueColumns)),
	})

	cleaned := sanitize.Clean(tbl.Rows, s)
	a.opt.Observer.emit(Event{Stage: StageClean, Message: "sanitized rows", Rows: len(cleaned.Rows)})
	if cleaned.Dropped > 0 {
		a.opt.Observer.emit(Event{
			Stage:   StageClean,
			Message: fmt.Sprintf("dropped %d rows with no usable index or values", cleaned.Dropped),
			Rows:    cleaned.Dropped,
			Warning: true,
		})
	}

	ds := &Dataset{
		Name:    name,
		Schema:  s,
		Rows:    cleaned.Rows,
		Skipped: tbl.Skipped,
		Dropped: cleaned.Dropped,
	}

	a.mu.Lock()
	a.dataset = ds
	a.outcome = nil
	a.mu.Unlock()
	return ds, nil
}

func (a *Analyzer) parse(name string, data []byte) (*tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return tabular.ParseExcel(bytes.NewReader(data))
	default:
		return tabular.Parse(bytes.NewReader(data), nil)
	}
}

// Dataset returns the currently loaded dataset, or nil.
func (a *Analyzer) Dataset() *Dataset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dataset
}

// Outcome returns the last successful forecast outcome, or nil. A
// failed forecast run leaves the previous outcome readable.
func (a *Analyzer) Outcome() *Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

// Stats summarizes a column of the loaded dataset for chart scaling.
// Absent datasets or columns yield the zero summary.
func (a *Analyzer) Stats(column string) stats.Summary {
	ds := a.Dataset()
	if ds == nil {
		return stats.Summary{}
	}
	return stats.Summarize(ds.Rows, column)
}

// PreviewRow is one sanitized row shaped for display tables.
type PreviewRow struct {
	Index  string              `json:"index"`
	Values map[string]*float64 `json:"values"`
}

// Preview returns up to n sanitized rows of the loaded dataset in file
// order, for showing the user what their upload parsed into.
func (a *Analyzer) Preview(n int) []PreviewRow {
	ds := a.Dataset()
	if ds == nil || n <= 0 {
		return nil
	}
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}
	out := make([]PreviewRow, 0, n)
	for _, row := range ds.Rows[:n] {
		out = append(out, PreviewRow{Index: row.Index, Values: row.Values})
	}
	return out
}

// Project extracts the series for one value column of the loaded
// dataset.
func (a *Analyzer) Project(column string) (series.Series, error) {
	ds := a.Dataset()
	if ds == nil {
		return nil, ErrNoDataset
	}
	a.opt.Observer.emit(Event{Stage: StageProject, Message: fmt.Sprintf("projecting column %q", column)})
	return series.Project(ds.Rows, ds.Schema, column)
}

// ReconciledFor returns the display series for a column: the last
// outcome's reconciled series when one exists for it, otherwise the
// bare projected series with no forecast attached.
func (a *Analyzer) ReconciledFor(column string) (reconcile.Reconciled, error) {
	if out := a.Outcome(); out != nil && out.Column == column {
		return out.Reconciled, nil
	}
	proj, err := a.Project(column)
	if err != nil {
		return nil, err
	}
	return reconcile.Merge(proj, 0, nil, nil), nil
}

// Forecast runs one end-to-end forecast for a column. A newer call
// supersedes an in-flight one; the superseded call fails with
// ErrSuperseded. Engine failures are terminal for this run only.
func (a *Analyzer) Forecast(ctx context.Context, column string, cfg engine.ModelConfig) (*Outcome, error) {
	if a.client == nil {
		return nil, ErrNoEngine
	}

	proj, err := a.Project(column)
	if err != nil {
		return nil, err
	}

	plan, err := series.PlanSplit(len(proj), a.opt.TrainFraction)
	if err != nil {
		return nil, fmt.Errorf("unable to plan split: %w", err)
	}

	req, err := engine.BuildRequest(proj, plan, a.opt.TrainFraction, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to build forecast request: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, a.opt.EngineTimeout)
	defer cancel()

	a.mu.Lock()
	if a.cancelPrev != nil {
		a.cancelPrev()
	}
	a.cancelPrev = cancel
	a.mu.Unlock()

	a.opt.Observer.emit(Event{
		Stage:   StageForecast,
		Message: fmt.Sprintf("requesting %d step forecast for %q", req.ForecastSteps, column),
	})
	res, err := a.client.Forecast(runCtx, req)
	if err != nil {
		if runCtx.Err() == context.Canceled && ctx.Err() == nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}

	// the stepper is only needed when the engine omits dates; opaque
	// index keys make it unavailable and synthetic labels are used
	stepper, err := series.NewDateStepper(proj, a.opt.Calendar)
	if err != nil {
		stepper = nil
	}

	merged := reconcile.Merge(proj, plan.TrainCount, res, stepper)
	a.opt.Observer.emit(Event{Stage: StageReconcile, Message: "reconciled forecast", Rows: len(merged)})

	out := &Outcome{
		Column:     column,
		Series:     proj,
		Plan:       plan,
		Reconciled: merged,
		Metrics:    res.Metrics,
		ModelInfo:  res.ModelInfo,
	}

	a.mu.Lock()
	// a superseded run that raced its cancellation must not clobber
	// the winner's outcome
	if runCtx.Err() != context.Canceled {
		a.outcome = out
	}
	a.mu.Unlock()
	return out, nil
}
