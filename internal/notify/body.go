package notify

import (
	"fmt"
	"strings"

	"github.com/drewdunne/codepros/internal/ownership"
)

// Marker is the first line of every comment this bot writes. Comments are
// recognised by this prefix, never by author.
const Marker = "<!-- codenotify report -->\n"

const bodyTemplate = "👔 Code pros! Mind taking a look at this PR?\ncc:%s"

// ComposeBody renders the full comment body for the given reviewers.
// Handles are sorted so the same set always yields the same body.
func ComposeBody(reviewers ownership.ReviewerSet) string {
	return Marker + "\n" + fmt.Sprintf(bodyTemplate, strings.Join(reviewers.Sorted(), " "))
}

// IsTracked reports whether body belongs to a comment written by this bot.
func IsTracked(body string) bool {
	return strings.HasPrefix(body, Marker)
}
