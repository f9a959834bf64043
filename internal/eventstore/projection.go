// Package eventstore records pipeline runs in SQLite and folds the events
// back into run summaries for the history command.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

const runStatusRunning = "running"

// StageSummary is one stage line of a run.
type StageSummary struct {
	Stage    string        `json:"stage"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunSummary is the read model of one run.
type RunSummary struct {
	RunID        string         `json:"run_id"`
	Command      string         `json:"command"`
	Revision     string         `json:"revision,omitempty"`
	Status       string         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	Duration     time.Duration  `json:"duration,omitempty"`
	Stages       []StageSummary `json:"stages,omitempty"`
	Pages        int            `json:"pages"`
	PagesHash    string         `json:"pages_hash,omitempty"`
	AssetsCopied int            `json:"assets_copied"`
	Published    []string       `json:"published,omitempty"`
	ErrorStage   string         `json:"error_stage,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// RunHistoryProjection folds stored events into run summaries.
type RunHistoryProjection struct {
	store   Store
	runs    map[string]*RunSummary
	maxSize int
}

// NewRunHistoryProjection creates a projection over store keeping at most
// maxSize runs.
func NewRunHistoryProjection(store Store, maxSize int) *RunHistoryProjection {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &RunHistoryProjection{store: store, runs: make(map[string]*RunSummary), maxSize: maxSize}
}

// Rebuild reconstructs the projection from every stored event.
func (p *RunHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	p.runs = make(map[string]*RunSummary)
	for _, e := range events {
		p.Apply(e)
	}
	return nil
}

// Apply folds one event into the projection.
func (p *RunHistoryProjection) Apply(event Event) {
	runID := event.RunID()
	if runID == "" {
		return
	}
	s, ok := p.runs[runID]
	if !ok {
		s = &RunSummary{RunID: runID, Status: runStatusRunning, StartedAt: event.Timestamp()}
		p.runs[runID] = s
	}

	switch event.Type() {
	case TypeRunStarted:
		var payload RunStarted
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.Command = payload.Command
			s.Revision = payload.Revision
		}
		s.StartedAt = event.Timestamp()

	case TypeStageCompleted:
		var payload StageCompleted
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.Stages = append(s.Stages, StageSummary{
				Stage:    payload.Stage,
				Result:   payload.Result,
				Duration: time.Duration(payload.DurationMS) * time.Millisecond,
				Error:    payload.Error,
			})
		}

	case TypePagesRendered:
		var payload PagesRendered
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.Pages = payload.Count
			s.PagesHash = payload.Hash
		}

	case TypeAssetsSynced:
		var payload AssetsSynced
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.AssetsCopied = payload.Copied
		}

	case TypeSitePublished:
		var payload SitePublished
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.Published = payload.Targets
		}

	case TypeRunCompleted:
		var payload RunCompleted
		if json.Unmarshal(event.Payload(), &payload) == nil {
			s.Status = payload.Outcome
			s.Duration = time.Duration(payload.DurationMS) * time.Millisecond
			s.ErrorStage = payload.Stage
			s.ErrorMessage = payload.Error
		}
		done := event.Timestamp()
		s.CompletedAt = &done
	}
}

// History returns up to limit runs, newest first. limit <= 0 means the
// projection's maximum.
func (p *RunHistoryProjection) History(limit int) []RunSummary {
	if limit <= 0 || limit > p.maxSize {
		limit = p.maxSize
	}
	out := make([]RunSummary, 0, len(p.runs))
	for _, s := range p.runs {
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].RunID > out[j].RunID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Run returns the summary of one run.
func (p *RunHistoryProjection) Run(runID string) (RunSummary, bool) {
	s, ok := p.runs[runID]
	if !ok {
		return RunSummary{}, false
	}
	return *s, true
}
