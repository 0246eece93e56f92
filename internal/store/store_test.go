package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lfreitas/redator/internal/correction"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), "test-app")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(score int, theme string) correction.Result {
	return correction.Result{
		FinalScore: score,
		Competencies: []correction.Competency{
			{Name: "Competência 1", Score: score / 5, Feedback: "ok"},
			{Name: "Competência 2", Score: score / 5, Feedback: "ok"},
			{Name: "Competência 3", Score: score / 5, Feedback: "ok"},
			{Name: "Competência 4", Score: score / 5, Feedback: "ok"},
			{Name: "Competência 5", Score: score / 5, Feedback: "ok"},
		},
		GeneralSuggestions: "keep writing",
		Theme:              theme,
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	id, err := repo.Append(ctx, "user-1", "Lorem ipsum dolor sit amet.", sampleResult(780, "Meio ambiente"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty record ID")
	}

	records, err := repo.Query(ctx, "user-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ID != id {
		t.Errorf("ID = %q, want %q", rec.ID, id)
	}
	if rec.OwnerID != "user-1" {
		t.Errorf("owner = %q, want user-1", rec.OwnerID)
	}
	if rec.Correction.FinalScore != 780 {
		t.Errorf("finalScore = %d, want 780", rec.Correction.FinalScore)
	}
	if len(rec.Correction.Competencies) != 5 {
		t.Errorf("competencies = %d, want 5", len(rec.Correction.Competencies))
	}
	if rec.Correction.Theme != "Meio ambiente" {
		t.Errorf("theme = %q, want Meio ambiente", rec.Correction.Theme)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected store-assigned timestamp")
	}
}

func TestAppendRequiresOwner(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Corrections().Append(context.Background(), "", "text", sampleResult(500, ""))
	if err == nil {
		t.Fatal("expected error for missing owner")
	}
}

func TestRecordIDsStrictlyIncreasing(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	prev := ""
	for i := 0; i < 5; i++ {
		id, err := repo.Append(ctx, "user-1", "essay", sampleResult(600, "Tecnologia"))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if prev != "" && id <= prev {
			t.Fatalf("IDs not increasing: %q then %q", prev, id)
		}
		prev = id
	}
}

func TestOwnerScoping(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	if _, err := repo.Append(ctx, "alice", "essay A", sampleResult(700, "")); err != nil {
		t.Fatalf("append alice: %v", err)
	}
	if _, err := repo.Append(ctx, "bob", "essay B", sampleResult(800, "")); err != nil {
		t.Fatalf("append bob: %v", err)
	}

	records, err := repo.Query(ctx, "alice")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record for alice, got %d", len(records))
	}
	if records[0].EssayText != "essay A" {
		t.Errorf("essayText = %q, want essay A", records[0].EssayText)
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	if _, err := repo.Append(ctx, "user-1", "first essay", sampleResult(650, "")); err != nil {
		t.Fatalf("append: %v", err)
	}

	snapshots := make(chan []correction.Record, 4)
	cancel, err := repo.Subscribe(ctx, "user-1", func(recs []correction.Record) {
		snapshots <- recs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	select {
	case snap := <-snapshots:
		if len(snap) != 1 {
			t.Fatalf("initial snapshot has %d records, want 1", len(snap))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}
}

func TestSubscribeDeliversAfterAppend(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	snapshots := make(chan []correction.Record, 4)
	cancel, err := repo.Subscribe(ctx, "user-1", func(recs []correction.Record) {
		snapshots <- recs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// Initial (empty) snapshot.
	select {
	case snap := <-snapshots:
		if len(snap) != 0 {
			t.Fatalf("initial snapshot has %d records, want 0", len(snap))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if _, err := repo.Append(ctx, "user-1", "essay", sampleResult(780, "Meio ambiente")); err != nil {
		t.Fatalf("append: %v", err)
	}

	select {
	case snap := <-snapshots:
		if len(snap) != 1 {
			t.Fatalf("snapshot has %d records, want 1", len(snap))
		}
		if snap[0].Correction.FinalScore != 780 {
			t.Errorf("finalScore = %d, want 780", snap[0].Correction.FinalScore)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post-append snapshot")
	}
}

func TestSubscribeScopedToOwner(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	snapshots := make(chan []correction.Record, 4)
	cancel, err := repo.Subscribe(ctx, "alice", func(recs []correction.Record) {
		snapshots <- recs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	<-snapshots // initial

	if _, err := repo.Append(ctx, "bob", "essay B", sampleResult(800, "")); err != nil {
		t.Fatalf("append bob: %v", err)
	}

	select {
	case <-snapshots:
		t.Fatal("alice's subscription saw bob's insert")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeStopsCallbacks(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	snapshots := make(chan []correction.Record, 4)
	cancel, err := repo.Subscribe(ctx, "user-1", func(recs []correction.Record) {
		snapshots <- recs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	<-snapshots // initial

	cancel()

	if _, err := repo.Append(ctx, "user-1", "essay", sampleResult(700, "")); err != nil {
		t.Fatalf("append: %v", err)
	}

	select {
	case <-snapshots:
		t.Fatal("callback delivered after cancel")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeWaitsForInFlightDelivery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	cancel, err := repo.Subscribe(ctx, "user-1", func([]correction.Record) {
		entered <- struct{}{}
		<-release
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Wait for the initial-snapshot delivery to start, then cancel while
	// the callback is still running.
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery to start")
	}

	canceled := make(chan struct{})
	go func() {
		cancel()
		close(canceled)
	}()

	select {
	case <-canceled:
		t.Fatal("cancel returned while a callback was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not return after the callback finished")
	}

	if _, err := repo.Append(ctx, "user-1", "essay", sampleResult(700, "")); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case <-entered:
		t.Fatal("callback delivered after cancel returned")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotifyReportsSnapshotFailure(t *testing.T) {
	s := openTestStore(t)
	repo := s.Corrections()
	ctx := context.Background()

	snapshots := make(chan []correction.Record, 4)
	cancel, err := repo.Subscribe(ctx, "user-1", func(recs []correction.Record) {
		snapshots <- recs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	<-snapshots // initial

	deadCtx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()
	if err := repo.notify(deadCtx, "user-1"); err == nil {
		t.Fatal("expected notify to report the failed snapshot query")
	}

	select {
	case <-snapshots:
		t.Fatal("broadcast delivered despite failed snapshot query")
	case <-time.After(200 * time.Millisecond):
	}

	// Subscribers catch up on the next successful write.
	if _, err := repo.Append(ctx, "user-1", "essay", sampleResult(720, "")); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case snap := <-snapshots:
		if len(snap) != 1 {
			t.Fatalf("snapshot has %d records, want 1", len(snap))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for catch-up snapshot")
	}
}

func TestEventRepoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "gemini-2.0-flash",
		Model:        "gemini-2.0-flash",
		Purpose:      "essay-correction",
		InputTokens:  1200,
		OutputTokens: 600,
		LatencyMs:    850,
		Success:      true,
		RequestBody:  "[user]\nessay text",
		ResponseBody: `{"finalScore":780}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Purpose != "essay-correction" {
		t.Errorf("purpose = %q", events[0].Purpose)
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.InputTokens != 1200 {
		t.Fatalf("unexpected event: %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}

	stats, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(stats) != 1 || stats[0].Calls != 1 || stats[0].InputTokens != 1200 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
