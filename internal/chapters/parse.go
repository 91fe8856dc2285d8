// Package chapters mines timestamped chapter lists out of video descriptions
// to build the chapter and question catalogs.
package chapters

import (
	"regexp"
	"strings"

	"github.com/sells-group/expert-answers/internal/timestamp"
)

// Chapter is one "TS Title" line from a description.
type Chapter struct {
	Timestamp string
	Title     string
	Seconds   int
}

var (
	// "12:34 - Title", with a hyphen, en dash or em dash.
	dashedLineRe = regexp.MustCompile(`^((?:\d+:)?\d{1,2}:\d{2})\s*[-–—]\s*(.+)$`)
	// "12:34 Title".
	plainLineRe = regexp.MustCompile(`^((?:\d+:)?\d{1,2}:\d{2})\s+(.+)$`)
)

// ParseDescription returns the chapter lines of a description in order.
// Lines that do not start with a timestamp are ignored.
func ParseDescription(description string) []Chapter {
	var out []Chapter
	for _, raw := range strings.Split(description, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		m := dashedLineRe.FindStringSubmatch(line)
		if m == nil {
			m = plainLineRe.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}

		ts, title := m[1], strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		secs, err := timestamp.ParseSeconds(ts)
		if err != nil {
			continue
		}
		out = append(out, Chapter{Timestamp: ts, Title: title, Seconds: secs})
	}
	return out
}
