package eventstore

import (
	"encoding/json"
	"time"
)

// Event type names as stored in the events table.
const (
	TypeRunStarted     = "RunStarted"
	TypeStageCompleted = "StageCompleted"
	TypePagesRendered  = "PagesRendered"
	TypeAssetsSynced   = "AssetsSynced"
	TypeSitePublished  = "SitePublished"
	TypeRunCompleted   = "RunCompleted"
)

// RunStarted is emitted when a pipeline run begins.
type RunStarted struct {
	BaseEvent
	Command  string `json:"command"`
	Revision string `json:"revision,omitempty"`
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID, command, revision string) (*RunStarted, error) {
	e := &RunStarted{Command: command, Revision: revision}
	return e, e.init(runID, TypeRunStarted, e)
}

// StageCompleted is emitted after every stage, whatever its result.
type StageCompleted struct {
	BaseEvent
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(runID, stage, result string, d time.Duration, stageErr error) (*StageCompleted, error) {
	e := &StageCompleted{Stage: stage, Result: result, DurationMS: d.Milliseconds()}
	if stageErr != nil {
		e.Error = stageErr.Error()
	}
	return e, e.init(runID, TypeStageCompleted, e)
}

// PagesRendered records the generated page set.
type PagesRendered struct {
	BaseEvent
	Count int      `json:"count"`
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
}

// NewPagesRendered creates a PagesRendered event.
func NewPagesRendered(runID string, files []string, hash string) (*PagesRendered, error) {
	e := &PagesRendered{Count: len(files), Hash: hash, Files: files}
	return e, e.init(runID, TypePagesRendered, e)
}

// AssetsSynced records the screenshot sync.
type AssetsSynced struct {
	BaseEvent
	Copied  int  `json:"copied"`
	Skipped bool `json:"skipped"`
}

// NewAssetsSynced creates an AssetsSynced event.
func NewAssetsSynced(runID string, copied int, skipped bool) (*AssetsSynced, error) {
	e := &AssetsSynced{Copied: copied, Skipped: skipped}
	return e, e.init(runID, TypeAssetsSynced, e)
}

// SitePublished lists the directories the built site was copied into.
type SitePublished struct {
	BaseEvent
	Targets []string `json:"targets"`
}

// NewSitePublished creates a SitePublished event.
func NewSitePublished(runID string, targets []string) (*SitePublished, error) {
	e := &SitePublished{Targets: targets}
	return e, e.init(runID, TypeSitePublished, e)
}

// RunCompleted closes a run. Outcome is success, warning, failed or canceled.
type RunCompleted struct {
	BaseEvent
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
	Stage      string `json:"stage,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewRunCompleted creates a RunCompleted event. failedStage and runErr are
// empty for successful runs.
func NewRunCompleted(runID, outcome string, d time.Duration, failedStage string, runErr error) (*RunCompleted, error) {
	e := &RunCompleted{Outcome: outcome, DurationMS: d.Milliseconds(), Stage: failedStage}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	return e, e.init(runID, TypeRunCompleted, e)
}

// init fills the embedded BaseEvent with payload marshaled from the outer
// event value.
func (e *BaseEvent) init(runID, eventType string, outer any) error {
	e.EventRunID = runID
	e.EventType = eventType
	e.EventTimestamp = time.Now()
	payload, err := json.Marshal(outer)
	if err != nil {
		return wrap(ErrMarshalPayloadFailed, err)
	}
	e.EventPayload = payload
	return nil
}
