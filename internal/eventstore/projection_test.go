package eventstore

import (
	"errors"
	"testing"
	"time"
)

func record(t *testing.T, store Store, e Event, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	if err := Record(t.Context(), store, e); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestRunHistoryProjection(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store.now = func() time.Time { return clock }

	e1, err := NewRunStarted("run-a", "generate", "abc123")
	record(t, store, e1, err)
	s1, err := NewStageCompleted("run-a", "render_pages", "success", 40*time.Millisecond, nil)
	record(t, store, s1, err)
	p1, err := NewPagesRendered("run-a", []string{"booker.md", "league.md"}, "hash")
	record(t, store, p1, err)
	a1, err := NewAssetsSynced("run-a", 5, false)
	record(t, store, a1, err)
	pub, err := NewSitePublished("run-a", []string{"build/docs"})
	record(t, store, pub, err)
	c1, err := NewRunCompleted("run-a", "success", 2*time.Second, "", nil)
	record(t, store, c1, err)

	clock = base.Add(time.Minute)
	e2, err := NewRunStarted("run-b", "generate", "")
	record(t, store, e2, err)
	s2, err := NewStageCompleted("run-b", "run_site_build", "fatal", time.Second, errors.New("exit 1"))
	record(t, store, s2, err)
	c2, err := NewRunCompleted("run-b", "failed", time.Second, "run_site_build", errors.New("exit 1"))
	record(t, store, c2, err)

	proj := NewRunHistoryProjection(store, 10)
	if err := proj.Rebuild(t.Context()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	history := proj.History(0)
	if len(history) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(history))
	}
	if history[0].RunID != "run-b" {
		t.Errorf("expected newest run first, got %s", history[0].RunID)
	}
	if history[0].Status != "failed" || history[0].ErrorStage != "run_site_build" {
		t.Errorf("unexpected failed run summary: %+v", history[0])
	}

	a, ok := proj.Run("run-a")
	if !ok {
		t.Fatal("run-a missing")
	}
	if a.Command != "generate" || a.Revision != "abc123" {
		t.Errorf("unexpected start data: %+v", a)
	}
	if a.Pages != 2 || a.PagesHash != "hash" || a.AssetsCopied != 5 {
		t.Errorf("unexpected counts: %+v", a)
	}
	if len(a.Stages) != 1 || a.Stages[0].Duration != 40*time.Millisecond {
		t.Errorf("unexpected stages: %+v", a.Stages)
	}
	if len(a.Published) != 1 || a.Published[0] != "build/docs" {
		t.Errorf("unexpected published targets: %v", a.Published)
	}
	if a.Status != "success" || a.CompletedAt == nil || a.Duration != 2*time.Second {
		t.Errorf("unexpected completion: %+v", a)
	}

	if got := proj.History(1); len(got) != 1 {
		t.Errorf("limit not applied: %d", len(got))
	}
}

func TestRunHistoryProjection_RunningRun(t *testing.T) {
	proj := NewRunHistoryProjection(newTestStore(t), 0)
	e, err := NewRunStarted("run-x", "render", "")
	if err != nil {
		t.Fatal(err)
	}
	proj.Apply(e)

	s, ok := proj.Run("run-x")
	if !ok || s.Status != runStatusRunning || s.CompletedAt != nil {
		t.Fatalf("unexpected running summary: %+v", s)
	}
}
