package metrics

import (
	"log/slog"
	"sync/atomic"
)

// Metrics tracks what a notification run did.
type Metrics struct {
	RulesLoaded       uint64 `json:"rules_loaded"`
	FilesChanged      uint64 `json:"files_changed"`
	RuleMatches       uint64 `json:"rule_matches"`
	ReviewersNotified uint64 `json:"reviewers_notified"`
	CommentsCreated   uint64 `json:"comments_created"`
	CommentsUpdated   uint64 `json:"comments_updated"`
}

var global = &Metrics{}

// RulesLoaded adds n to the count of ownership rules loaded.
func RulesLoaded(n int) { atomic.AddUint64(&global.RulesLoaded, uint64(n)) }

// FilesChanged adds n to the count of changed files examined.
func FilesChanged(n int) { atomic.AddUint64(&global.FilesChanged, uint64(n)) }

// RuleMatched increments the count of (file, rule) matches.
func RuleMatched() { atomic.AddUint64(&global.RuleMatches, 1) }

// ReviewersNotified adds n to the count of reviewers mentioned.
func ReviewersNotified(n int) { atomic.AddUint64(&global.ReviewersNotified, uint64(n)) }

// CommentCreated increments the count of comments created.
func CommentCreated() { atomic.AddUint64(&global.CommentsCreated, 1) }

// CommentUpdated increments the count of comments updated.
func CommentUpdated() { atomic.AddUint64(&global.CommentsUpdated, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		RulesLoaded:       atomic.LoadUint64(&global.RulesLoaded),
		FilesChanged:      atomic.LoadUint64(&global.FilesChanged),
		RuleMatches:       atomic.LoadUint64(&global.RuleMatches),
		ReviewersNotified: atomic.LoadUint64(&global.ReviewersNotified),
		CommentsCreated:   atomic.LoadUint64(&global.CommentsCreated),
		CommentsUpdated:   atomic.LoadUint64(&global.CommentsUpdated),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.RulesLoaded, 0)
	atomic.StoreUint64(&global.FilesChanged, 0)
	atomic.StoreUint64(&global.RuleMatches, 0)
	atomic.StoreUint64(&global.ReviewersNotified, 0)
	atomic.StoreUint64(&global.CommentsCreated, 0)
	atomic.StoreUint64(&global.CommentsUpdated, 0)
}

// LogValue renders the snapshot as a slog group.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("rules_loaded", m.RulesLoaded),
		slog.Uint64("files_changed", m.FilesChanged),
		slog.Uint64("rule_matches", m.RuleMatches),
		slog.Uint64("reviewers_notified", m.ReviewersNotified),
		slog.Uint64("comments_created", m.CommentsCreated),
		slog.Uint64("comments_updated", m.CommentsUpdated),
	)
}
