package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FallbackNoteName is used when the naming oracle returns nothing usable
const FallbackNoteName = "note"

var (
	unsafeNameRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separatorRunsRe = regexp.MustCompile(`[-\s]+`)
)

// SanitizeNoteName reduces oracle output to a filesystem-safe token:
// only word characters, whitespace and hyphens survive, runs of
// whitespace/hyphens collapse to one hyphen, and the result is lowercased.
func SanitizeNoteName(raw string) string {
	name := unsafeNameRe.ReplaceAllString(raw, "")
	name = strings.TrimSpace(name)
	name = separatorRunsRe.ReplaceAllString(name, "-")
	return strings.ToLower(name)
}

// CandidateName returns the n-th collision candidate for base:
// base, base-1, base-2, ...
func CandidateName(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// BackReference is the line inserted into the source note after an
// extracted segment
func BackReference(noteName string) string {
	return fmt.Sprintf("- sent to [[%s]]", noteName)
}

// NoteEnvelope wraps extracted content in the derived note's frontmatter
func NoteEnvelope(now time.Time, content string) string {
	return fmt.Sprintf(`---
date_creation: %s
time_creation: %s
tags:
---

%s
`, now.Format("2006-01-02"), now.Format("15:04:05"), content)
}

// ExtractionRecord describes one successful extraction, for reporting
type ExtractionRecord struct {
	SegmentID   int
	Description string
	Lines       string
	NoteName    string
	NotePath    string
}
