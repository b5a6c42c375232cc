package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var deadlineFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2 January 2006",
	"02 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"02/01/2006",
	"2006/01/02",
}

var monthNameRegex = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(20\d{2})\b`)

// parseDeadline parses a curated deadline string. Deadlines are stored as
// dates, so any time-of-day component is dropped.
func parseDeadline(text string) (time.Time, error) {
	text = cleanDeadlineString(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}

	for _, format := range deadlineFormats {
		if t, err := time.Parse(format, text); err == nil {
			return dateOnly(t), nil
		}
	}

	// Month-name dates embedded in longer text, e.g. "Apply by March 15, 2026".
	if m := monthNameRegex.FindStringSubmatch(text); len(m) == 4 {
		candidate := fmt.Sprintf("%s %s %s", m[1], m[2], m[3])
		for _, format := range []string{"January 2 2006", "Jan 2 2006"} {
			if t, err := time.Parse(format, candidate); err == nil {
				return dateOnly(t), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse deadline: %s", text)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// cleanDeadlineString strips label prefixes that curated sources leave in
// front of the actual date.
func cleanDeadlineString(s string) string {
	prefixes := []string{
		"Closing date:", "Deadline:", "Apply by:", "Due date:",
		"Expires:", "Ends:",
	}
	sLower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(sLower, strings.ToLower(p)); idx != -1 {
			s = s[idx+len(p):]
			sLower = sLower[idx+len(p):]
		}
	}
	return strings.TrimSpace(s)
}
