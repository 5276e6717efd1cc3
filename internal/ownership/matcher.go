package ownership

import "github.com/bmatcuk/doublestar/v4"

// Hit records one rule matching one changed file.
type Hit struct {
	File string
	Rule Rule
}

// Matches returns every (file, rule) pair where the file matches the rule's
// pattern, ordered by file and then by rule.
func Matches(files []string, rules []Rule) []Hit {
	var hits []Hit
	for _, f := range files {
		for _, r := range rules {
			// Patterns are validated at load time, so the error is always nil.
			if ok, _ := doublestar.Match(r.Pattern, f); ok {
				hits = append(hits, Hit{File: f, Rule: r})
			}
		}
	}
	return hits
}

// Match returns the union of the reviewers of every rule that matches at
// least one of the changed files.
func Match(files []string, rules []Rule) ReviewerSet {
	return Reviewers(Matches(files, rules))
}

// Reviewers collects the reviewers of the given hits.
func Reviewers(hits []Hit) ReviewerSet {
	pros := ReviewerSet{}
	for _, h := range hits {
		pros.Union(h.Rule.Reviewers)
	}
	return pros
}
