package ownership

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/drewdunne/codepros/internal/errs"
)

// DefaultFileName is the ownership file looked up at the repository root.
const DefaultFileName = "CODEPROS"

const (
	reasonMissingFile  = "line missing file"
	reasonBadReviewer  = "pro incorrect"
	reasonBadPattern   = "pattern invalid"
	maxLineLengthBytes = 1024 * 1024
)

// Load reads the ownership file at path and returns its rules in file order.
// Reviewers in excluded are dropped from every rule, and rules left with no
// reviewers are skipped. A missing file yields no rules and no error.
func Load(path string, excluded ReviewerSet) ([]Rule, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ownership file: %w", err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path), excluded)
}

// Parse reads ownership rules from r. name is used in error messages only.
func Parse(r io.Reader, name string, excluded ReviewerSet) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLengthBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		rule, ok, err := parseLine(line, excluded)
		if err != nil {
			return nil, errs.NewMalformedLine(name, lineNum, err.Error(), line)
		}
		if ok {
			rules = append(rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ownership file: %w", err)
	}

	return rules, nil
}

// parseLine returns ok=false for lines that produce no rule without being
// malformed: comments, blank lines, and lines whose reviewers were all excluded.
func parseLine(line string, excluded ReviewerSet) (Rule, bool, error) {
	if line == "" || line[0] == '#' {
		return Rule{}, false, nil
	}

	tokens := strings.Split(line, " ")
	if tokens[0] == "" {
		return Rule{}, false, errors.New(reasonMissingFile)
	}

	reviewers := NewReviewerSet(tokens[1:]...)
	reviewers.Subtract(excluded)
	if len(reviewers) == 0 {
		return Rule{}, false, nil
	}

	// Validation runs after exclusion: a malformed handle that was excluded
	// never fails the load.
	for h := range reviewers {
		if !validHandle(h) {
			return Rule{}, false, errors.New(reasonBadReviewer)
		}
	}

	pattern := Normalize(tokens[0])
	if pattern == "" {
		return Rule{}, false, errors.New(reasonMissingFile)
	}
	if !doublestar.ValidatePattern(pattern) {
		return Rule{}, false, errors.New(reasonBadPattern)
	}

	return Rule{Pattern: pattern, Reviewers: reviewers}, true, nil
}
