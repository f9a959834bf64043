package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// Stage is a discrete unit of work in a run.
type Stage func(ctx context.Context, st *State) error

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Warnings are recorded and the run continues.
func runStages(ctx context.Context, st *State, stages []StageDef, obs Observer) error {
	r := st.Report
	for _, def := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(def.Name, err)
			r.Errors = append(r.Errors, se)
			r.StageResults[def.Name] = StageResultCanceled
			obs.OnStageComplete(def.Name, 0, StageResultCanceled, se)
			return se
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		r.Stages = append(r.Stages, def.Name)
		r.StageDurations[def.Name] = dur

		result := StageResultSuccess
		var se *StageError
		if err != nil {
			se = classify(def.Name, err)
			switch se.Kind {
			case StageErrorWarning:
				result = StageResultWarning
				r.Warnings = append(r.Warnings, se)
			case StageErrorCanceled:
				result = StageResultCanceled
				r.Errors = append(r.Errors, se)
			default:
				result = StageResultFatal
				r.Errors = append(r.Errors, se)
			}
		}
		r.StageResults[def.Name] = result

		attrs := []any{
			logfields.RunID(r.RunID),
			logfields.Stage(string(def.Name)),
			logfields.DurationMS(float64(dur) / float64(time.Millisecond)),
		}
		switch result {
		case StageResultSuccess:
			slog.Debug("Stage completed", attrs...)
			obs.OnStageComplete(def.Name, dur, result, nil)
		case StageResultWarning:
			slog.Warn("Stage completed with warnings", append(attrs, logfields.Error(se.Err))...)
			obs.OnStageComplete(def.Name, dur, result, se)
		default:
			slog.Error("Stage failed", append(attrs, logfields.Error(se.Err))...)
			obs.OnStageComplete(def.Name, dur, result, se)
			return se
		}
	}
	return nil
}
