package forecastkit

// Stage identifies where in the pipeline an event was emitted.
type Stage string

const (
	StageParse     Stage = "parse"
	StageSchema    Stage = "schema"
	StageClean     Stage = "clean"
	StageProject   Stage = "project"
	StageForecast  Stage = "forecast"
	StageReconcile Stage = "reconcile"
)

// Event is a structured progress or warning notification. The pipeline
// has no dependency on any particular notification mechanism; the
// presentation layer subscribes through an Observer.
type Event struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Rows    int    `json:"rows,omitempty"`
	Warning bool   `json:"warning,omitempty"`
}

// Observer receives pipeline events. A nil observer drops them.
type Observer func(Event)

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}
