package pipeline

import (
	"fmt"
	"time"
)

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageResult enumerates per-stage classification outcomes.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// Report captures what a run did.
type Report struct {
	RunID          string
	Mode           Mode
	Start          time.Time
	End            time.Time
	Stages         []StageName // executed, in order
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Errors         []error // fatal or canceled; at most one
	Warnings       []error

	Features       int
	Categories     int
	Pages          []string // written page paths
	PagesHash      string
	MissingImages  []string
	AssetsCopied   int
	AssetsSkipped  bool
	DanglingImages int
	Published      []string
	Notified       bool

	Outcome Outcome
}

func newReport(runID string, mode Mode) *Report {
	return &Report{
		RunID:          runID,
		Mode:           mode,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

func (r *Report) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// FailedStage is the stage that aborted the run, or "".
func (r *Report) FailedStage() StageName {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok {
			return se.Stage
		}
	}
	return ""
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("features=%d categories=%d pages=%d assets=%d published=%d duration=%s warnings=%d errors=%d outcome=%s",
		r.Features, r.Categories, len(r.Pages), r.AssetsCopied, len(r.Published),
		r.Duration().Truncate(time.Millisecond), len(r.Warnings), len(r.Errors), r.Outcome)
}

func (r *Report) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}
