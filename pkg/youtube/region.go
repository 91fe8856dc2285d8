package youtube

import (
	"strings"

	"github.com/sells-group/expert-answers/internal/model"
)

var countryNames = map[string]string{
	"US": "United States",
	"IN": "India",
	"GB": "United Kingdom",
	"CA": "Canada",
	"AU": "Australia",
	"DE": "Germany",
	"FR": "France",
	"JP": "Japan",
	"CN": "China",
}

// regionKeywords is checked in order; the first keyword found in the channel
// title wins.
var regionKeywords = []struct {
	keyword string
	region  string
}{
	{"new york", "United States"},
	{"california", "United States"},
	{"london", "United Kingdom"},
	{"mumbai", "India"},
	{"delhi", "India"},
	{"bangalore", "India"},
	{"sydney", "Australia"},
	{"toronto", "Canada"},
}

// InferRegion guesses a channel's region, preferring the country declared in
// its details and falling back to city names in its title. Returns "" when
// nothing can be inferred.
func InferRegion(channelTitle string, details *model.ChannelDetails) string {
	if details != nil && details.Country != "" {
		if name, ok := countryNames[strings.ToUpper(details.Country)]; ok {
			return name
		}
		return details.Country
	}

	title := strings.ToLower(channelTitle)
	for _, rk := range regionKeywords {
		if strings.Contains(title, rk.keyword) {
			return rk.region
		}
	}
	return ""
}
