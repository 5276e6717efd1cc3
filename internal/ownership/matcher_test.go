package ownership

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatch(t *testing.T) {
	rules := []Rule{
		{Pattern: "src/*", Reviewers: NewReviewerSet("@alice", "@bob")},
		{Pattern: "README.md", Reviewers: NewReviewerSet("@carol")},
		{Pattern: "docs/*.md", Reviewers: NewReviewerSet("@dave")},
		{Pattern: "cmd/?/main.go", Reviewers: NewReviewerSet("@erin")},
	}

	tests := []struct {
		name  string
		files []string
		rules []Rule
		want  ReviewerSet
	}{
		{
			name:  "no files",
			files: nil,
			rules: rules,
			want:  ReviewerSet{},
		},
		{
			name:  "no rules",
			files: []string{"src/app.py"},
			rules: nil,
			want:  ReviewerSet{},
		},
		{
			name:  "directory rule",
			files: []string{"src/app.py"},
			rules: rules,
			want:  NewReviewerSet("@alice", "@bob"),
		},
		{
			name:  "directory rule is one segment deep",
			files: []string{"src/pkg/app.py"},
			rules: rules,
			want:  ReviewerSet{},
		},
		{
			name:  "multiple rules union",
			files: []string{"src/app.py", "README.md"},
			rules: rules,
			want:  NewReviewerSet("@alice", "@bob", "@carol"),
		},
		{
			name:  "same rule twice does not duplicate",
			files: []string{"src/a.py", "src/b.py"},
			rules: rules,
			want:  NewReviewerSet("@alice", "@bob"),
		},
		{
			name:  "star inside file pattern",
			files: []string{"docs/guide.md", "docs/guide.txt"},
			rules: rules,
			want:  NewReviewerSet("@dave"),
		},
		{
			name:  "question mark",
			files: []string{"cmd/x/main.go"},
			rules: rules,
			want:  NewReviewerSet("@erin"),
		},
		{
			name:  "non-ascii file name",
			files: []string{"src/café.go"},
			rules: rules,
			want:  NewReviewerSet("@alice", "@bob"),
		},
		{
			name:  "unrelated file",
			files: []string{"go.mod"},
			rules: rules,
			want:  ReviewerSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.files, tt.rules)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got.Sorted(), tt.want.Sorted())
			}
		})
	}
}

func TestMatches_Order(t *testing.T) {
	rules := []Rule{
		{Pattern: "src/*", Reviewers: NewReviewerSet("@a")},
		{Pattern: "src/app.py", Reviewers: NewReviewerSet("@b")},
	}

	hits := Matches([]string{"src/app.py", "src/lib.py"}, rules)

	var got []string
	for _, h := range hits {
		got = append(got, h.File+" "+h.Rule.Pattern)
	}
	want := []string{"src/app.py src/*", "src/app.py src/app.py", "src/lib.py src/*"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Matches() = %v, want %v", got, want)
	}
}

func TestLoadAndMatch_EndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		excluded ReviewerSet
		want     []string
	}{
		{name: "no exclusions", excluded: ReviewerSet{}, want: []string{"@alice", "@bob"}},
		{name: "author excluded", excluded: NewReviewerSet("@alice"), want: []string{"@bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := Parse(strings.NewReader("src/* @alice @bob\n"), DefaultFileName, tt.excluded)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got := Match([]string{"src/app.py", "README.md"}, rules).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReviewerSet_Sorted(t *testing.T) {
	s := NewReviewerSet("@zed", "@amy", "@mo")
	want := []string{"@amy", "@mo", "@zed"}
	if got := s.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}
