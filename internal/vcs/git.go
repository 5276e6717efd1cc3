// Package vcs runs the local git commands a notification run needs against
// the checked-out workspace.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Git runs git against a working tree.
type Git struct {
	binary string
}

// New creates a Git using the git binary on PATH.
func New() *Git {
	return &Git{binary: "git"}
}

// Deepen fetches n more commits into a shallow clone so that the merge base
// of the pull request is available locally.
func (g *Git) Deepen(ctx context.Context, dir string, n int) error {
	if n <= 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, g.binary, "-C", dir, "-c", "protocol.version=2", "fetch", "--deepen", strconv.Itoa(n))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("deepening history: %w: %s", err, bytes.TrimSpace(output))
	}
	return nil
}

// ListChangedFiles returns the paths changed between the merge base of base
// and head, in git's output order. Paths are returned unquoted, exactly as
// stored in the tree.
func (g *Git) ListChangedFiles(ctx context.Context, dir, base, head string) ([]string, error) {
	cmd := exec.CommandContext(ctx, g.binary, "-C", dir, "diff", "--name-only", "-z", base+"..."+head)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	var files []string
	for _, path := range strings.Split(string(output), "\x00") {
		if path != "" {
			files = append(files, path)
		}
	}
	return files, nil
}
