package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/provider"
)

type updateCall struct {
	id   string
	body string
}

type fakeStore struct {
	comments  []provider.Comment
	getErr    error
	postErr   error
	updateErr error

	posted  []string
	updated []updateCall
}

func (f *fakeStore) GetComments(ctx context.Context, pr provider.PullRequest) ([]provider.Comment, error) {
	return f.comments, f.getErr
}

func (f *fakeStore) PostComment(ctx context.Context, pr provider.PullRequest, body string) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, body)
	return nil
}

func (f *fakeStore) UpdateComment(ctx context.Context, pr provider.PullRequest, commentID string, body string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, updateCall{id: commentID, body: body})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

var testPR = provider.PullRequest{ID: "PR_kwDOA", Owner: "owner", Repo: "repo", Number: 7}

func TestReconcile_CreatesWhenNoTrackedComment(t *testing.T) {
	store := &fakeStore{comments: []provider.Comment{
		{ID: "1", Author: "someone", Body: "LGTM"},
		{ID: "2", Author: "bot", Body: "cc @alice " + Marker},
	}}

	action, err := NewReconciler(store, discardLogger()).Reconcile(context.Background(), testPR, ownership.NewReviewerSet("@bob", "@alice"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if action != ActionCreate {
		t.Errorf("action = %q, want %q", action, ActionCreate)
	}
	if len(store.posted) != 1 {
		t.Fatalf("PostComment called %d times, want 1", len(store.posted))
	}
	if len(store.updated) != 0 {
		t.Errorf("UpdateComment called %d times, want 0", len(store.updated))
	}
	for _, h := range []string{"@alice", "@bob"} {
		if !strings.Contains(store.posted[0], h) {
			t.Errorf("body %q does not mention %s", store.posted[0], h)
		}
	}
}

func TestReconcile_UpdatesFirstTrackedComment(t *testing.T) {
	store := &fakeStore{comments: []provider.Comment{
		{ID: "10", Body: "first!"},
		{ID: "11", Body: Marker + "\nold body"},
		{ID: "12", Body: Marker + "\nduplicate from an earlier run"},
	}}

	action, err := NewReconciler(store, discardLogger()).Reconcile(context.Background(), testPR, ownership.NewReviewerSet("@alice"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if action != ActionUpdate {
		t.Errorf("action = %q, want %q", action, ActionUpdate)
	}
	if len(store.posted) != 0 {
		t.Errorf("PostComment called %d times, want 0", len(store.posted))
	}
	if len(store.updated) != 1 {
		t.Fatalf("UpdateComment called %d times, want 1", len(store.updated))
	}
	if store.updated[0].id != "11" {
		t.Errorf("updated comment id = %q, want %q", store.updated[0].id, "11")
	}
	if want := ComposeBody(ownership.NewReviewerSet("@alice")); store.updated[0].body != want {
		t.Errorf("updated body = %q, want %q", store.updated[0].body, want)
	}
}

func TestReconcile_LogsDiffAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := &fakeStore{comments: []provider.Comment{
		{ID: "1", Body: ComposeBody(ownership.NewReviewerSet("@alice", "@bob"))},
	}}

	if _, err := NewReconciler(store, logger).Reconcile(context.Background(), testPR, ownership.NewReviewerSet("@alice")); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Comment body changed") {
		t.Errorf("expected diff log line, got %q", out)
	}
	if !strings.Contains(out, "-cc:@alice @bob") {
		t.Errorf("expected removed line in diff, got %q", out)
	}
}

func TestReconcile_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		store *fakeStore
	}{
		{name: "fetch fails", store: &fakeStore{getErr: boom}},
		{name: "create fails", store: &fakeStore{postErr: boom}},
		{
			name: "update fails",
			store: &fakeStore{
				comments:  []provider.Comment{{ID: "4", Body: Marker + "\nold"}},
				updateErr: boom,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReconciler(tt.store, discardLogger()).Reconcile(context.Background(), testPR, ownership.NewReviewerSet("@alice"))
			if !errors.Is(err, boom) {
				t.Errorf("Reconcile() error = %v, want wrapped %v", err, boom)
			}
		})
	}
}

func TestFindTracked(t *testing.T) {
	tests := []struct {
		name     string
		comments []provider.Comment
		wantID   string
		wantOK   bool
	}{
		{name: "no comments"},
		{name: "marker not at start", comments: []provider.Comment{{ID: "1", Body: "x" + Marker}}},
		{name: "marker without newline", comments: []provider.Comment{{ID: "1", Body: "<!-- codenotify report -->"}}},
		{
			name:     "first of several",
			comments: []provider.Comment{{ID: "1", Body: "hi"}, {ID: "2", Body: Marker}, {ID: "3", Body: Marker}},
			wantID:   "2",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindTracked(tt.comments)
			if ok != tt.wantOK {
				t.Fatalf("FindTracked() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.ID != tt.wantID {
				t.Errorf("FindTracked() id = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestComposeBody(t *testing.T) {
	got := ComposeBody(ownership.NewReviewerSet("@bob", "@alice"))
	want := "<!-- codenotify report -->\n\n👔 Code pros! Mind taking a look at this PR?\ncc:@alice @bob"
	if got != want {
		t.Errorf("ComposeBody() = %q, want %q", got, want)
	}
	if !IsTracked(got) {
		t.Error("composed body is not recognised as tracked")
	}
}
