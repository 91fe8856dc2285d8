// Package timestamp parses and formats video time offsets and links.
package timestamp

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Zero is the offset used when a video has no recognizable timestamp.
const Zero = "00:00:00"

const watchURL = "https://www.youtube.com/watch?v="

var (
	hmsRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2}):(\d{2})\b`)
	msRe  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	cueRe = regexp.MustCompile(`(?:at|timestamp|time|start|begins?)\s*:?\s*(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// ErrInvalidDateRange is returned by ParseDateRange for malformed input.
var ErrInvalidDateRange = eris.New("timestamp: date range must be YYYY-MM-DD,YYYY-MM-DD")

// ParseSeconds converts "M:SS", "MM:SS" or "H:MM:SS" into seconds.
func ParseSeconds(token string) (int, error) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, eris.Errorf("timestamp: unrecognized format %q", token)
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return nums[0]*60 + nums[1], nil
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2], nil
	}
	return 0, eris.Errorf("timestamp: unrecognized format %q", token)
}

// FormatHMS renders seconds as zero-padded HH:MM:SS.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Seconds is the inverse of FormatHMS. Malformed input yields 0.
func Seconds(hms string) int {
	s, err := ParseSeconds(hms)
	if err != nil {
		return 0
	}
	return s
}

// Extract finds the first plausible timestamp in a video's title and
// description and returns it as HH:MM:SS.
func Extract(description, title string) (string, bool) {
	text := strings.ToLower(title + " " + description)

	if m := hmsRe.FindStringSubmatch(text); m != nil {
		return pad(m[1], m[2], m[3]), true
	}

	for _, loc := range msRe.FindAllStringSubmatchIndex(text, -1) {
		mins, _ := strconv.Atoi(text[loc[2]:loc[3]])
		// Minutes above 12 read as clock times or scores more often than
		// offsets in these descriptions.
		if mins > 12 || nearURL(text, loc[0], loc[1]) {
			continue
		}
		return pad("0", text[loc[2]:loc[3]], text[loc[4]:loc[5]]), true
	}

	if m := cueRe.FindStringSubmatch(text); m != nil {
		if m[3] != "" {
			return pad(m[1], m[2], m[3]), true
		}
		if mins, _ := strconv.Atoi(m[1]); mins < 60 {
			return pad("0", m[1], m[2]), true
		}
	}

	return "", false
}

// Resolve is Extract with the Zero default.
func Resolve(description, title string) string {
	if ts, ok := Extract(description, title); ok {
		return ts
	}
	return Zero
}

func nearURL(text string, start, end int) bool {
	lo := max(0, start-10)
	hi := min(len(text), end+10)
	return strings.Contains(text[lo:hi], "http")
}

func pad(h, m, s string) string {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(s)
	return fmt.Sprintf("%02d:%02d:%02d", hi, mi, si)
}

// FormatVideoLink returns the canonical watch URL for a video.
func FormatVideoLink(videoID string) string {
	return watchURL + videoID
}

// FormatChapterLink returns the watch URL starting at the given offset.
func FormatChapterLink(videoID string, seconds int) string {
	if seconds <= 0 {
		return FormatVideoLink(videoID)
	}
	return fmt.Sprintf("%s%s&t=%ds", watchURL, videoID, seconds)
}

// BaseURL strips the time-offset suffix so that two offsets into the same
// video compare equal.
func BaseURL(rawURL string) string {
	if i := strings.Index(rawURL, "&t="); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// VideoID extracts the video id from a watch or short link. Returns "" when
// the URL carries none.
func VideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	if strings.EqualFold(u.Host, "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	return ""
}

// ParseDateRange converts "YYYY-MM-DD,YYYY-MM-DD" into RFC 3339 bounds for
// the search provider. Either side may be blank. Empty input yields no
// bounds.
func ParseDateRange(dateRange string) (after, before string, err error) {
	if strings.TrimSpace(dateRange) == "" {
		return "", "", nil
	}
	parts := strings.Split(dateRange, ",")
	if len(parts) != 2 {
		return "", "", ErrInvalidDateRange
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if start != "" {
		if !isDate(start) {
			return "", "", eris.Wrapf(ErrInvalidDateRange, "start %q", start)
		}
		after = start + "T00:00:00Z"
	}
	if end != "" {
		if !isDate(end) {
			return "", "", eris.Wrapf(ErrInvalidDateRange, "end %q", end)
		}
		before = end + "T23:59:59Z"
	}
	return after, before, nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isDate(s string) bool {
	return dateRe.MatchString(s)
}
