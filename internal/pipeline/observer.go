package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/featuredocs/internal/eventstore"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
	"git.home.luguber.info/inful/featuredocs/internal/metrics"
)

// Observer receives callbacks around stage execution and the run lifecycle.
type Observer interface {
	OnRunStart(report *Report)
	OnStageComplete(stage StageName, d time.Duration, result StageResult, err error)
	OnRunComplete(report *Report)
}

type observers []Observer

func (o observers) OnRunStart(r *Report) {
	for _, x := range o {
		x.OnRunStart(r)
	}
}

func (o observers) OnStageComplete(stage StageName, d time.Duration, result StageResult, err error) {
	for _, x := range o {
		x.OnStageComplete(stage, d, result, err)
	}
}

func (o observers) OnRunComplete(r *Report) {
	for _, x := range o {
		x.OnRunComplete(r)
	}
}

// recorderObserver adapts metrics.Recorder into an Observer.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnRunStart(*Report) {}

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult, _ error) {
	r.rec.ObserveStageDuration(string(stage), d)
	r.rec.IncStageResult(string(stage), metrics.ResultLabel(result))
}

func (r recorderObserver) OnRunComplete(report *Report) {
	r.rec.ObserveRunDuration(report.Duration())
	r.rec.IncRunOutcome(metrics.OutcomeLabel(report.Outcome))
}

// historyObserver writes run lifecycle events to the event store. Failures
// are logged and never affect the run.
type historyObserver struct {
	store    eventstore.Store
	runID    string
	revision string
}

func (h historyObserver) OnRunStart(report *Report) {
	e, err := eventstore.NewRunStarted(report.RunID, string(report.Mode), h.revision)
	h.record(e, err)
}

func (h historyObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult, stageErr error) {
	e, err := eventstore.NewStageCompleted(h.runID, string(stage), string(result), d, stageErr)
	h.record(e, err)
}

func (h historyObserver) OnRunComplete(report *Report) {
	var runErr error
	if len(report.Errors) > 0 {
		runErr = report.Errors[0]
	}
	e, err := eventstore.NewRunCompleted(report.RunID, string(report.Outcome), report.Duration(), string(report.FailedStage()), runErr)
	h.record(e, err)
}

func (h historyObserver) record(e eventstore.Event, err error) {
	if h.store == nil {
		return
	}
	if err == nil {
		err = eventstore.Record(context.Background(), h.store, e)
	}
	if err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(h.runID), logfields.Error(err))
	}
}
