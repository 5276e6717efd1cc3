package metrics

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

func TestCounters(t *testing.T) {
	tests := []struct {
		name string
		inc  func()
		get  func(Metrics) uint64
		want uint64
	}{
		{name: "rules loaded", inc: func() { RulesLoaded(4) }, get: func(m Metrics) uint64 { return m.RulesLoaded }, want: 4},
		{name: "files changed", inc: func() { FilesChanged(7) }, get: func(m Metrics) uint64 { return m.FilesChanged }, want: 7},
		{name: "rule matched", inc: RuleMatched, get: func(m Metrics) uint64 { return m.RuleMatches }, want: 1},
		{name: "reviewers notified", inc: func() { ReviewersNotified(2) }, get: func(m Metrics) uint64 { return m.ReviewersNotified }, want: 2},
		{name: "comment created", inc: CommentCreated, get: func(m Metrics) uint64 { return m.CommentsCreated }, want: 1},
		{name: "comment updated", inc: CommentUpdated, get: func(m Metrics) uint64 { return m.CommentsUpdated }, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			tt.inc()
			if got := tt.get(Get()); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	RulesLoaded(3)
	FilesChanged(3)
	RuleMatched()
	ReviewersNotified(1)
	CommentCreated()
	CommentUpdated()

	Reset()

	if m := Get(); m != (Metrics{}) {
		t.Errorf("after Reset() = %+v, want zero", m)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	Reset()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RuleMatched()
			FilesChanged(2)
		}()
	}
	wg.Wait()

	m := Get()
	if m.RuleMatches != 100 {
		t.Errorf("RuleMatches = %d, want 100", m.RuleMatches)
	}
	if m.FilesChanged != 200 {
		t.Errorf("FilesChanged = %d, want 200", m.FilesChanged)
	}
}

func TestLogValue(t *testing.T) {
	Reset()
	RulesLoaded(2)
	CommentCreated()

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("Run summary", "metrics", Get())

	var record struct {
		Metrics map[string]float64 `json:"metrics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record.Metrics["rules_loaded"] != 2 || record.Metrics["comments_created"] != 1 {
		t.Errorf("metrics = %v", record.Metrics)
	}
}
