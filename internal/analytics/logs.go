package analytics

import "fmt"

// LogEntry is the minimal log-record shape the analytics engine accepts.
// Provider-specific raw maps are converted to this shape once, at the
// provider boundary. Timestamp is "2006-01-02 15:04:05" in UTC.
type LogEntry struct {
	Timestamp     string   `json:"timestamp"`
	Type          int      `json:"type"`
	ResponseTimes []Sample `json:"response_times,omitempty"`
}

// Sample is one nested response-time measurement. A nil Value is excluded
// from response-time aggregates.
type Sample struct {
	Value *float64 `json:"value"`
}

// Log entry type codes: 1 = down, 2 = up, anything else = paused/unknown.
const (
	logTypeDown = 1
	logTypeUp   = 2
)

// Timestamp prefix lengths for point dates and period filtering.
const (
	minutePrefixLen = 16 // "2006-01-02 15:04"
	datePrefixLen   = 10 // "2006-01-02"
)

// LogPoint is one status observation in the point series.
type LogPoint struct {
	Date   string `json:"date"`
	Status int    `json:"status"`
}

// LogTrendResult holds uptime statistics over one window of log entries.
type LogTrendResult struct {
	UptimePercent   float64    `json:"uptime_percent"`
	DowntimeEvents  int        `json:"downtime_events"`
	LongestDowntime int        `json:"longest_downtime"`
	TotalChecks     int        `json:"total_checks"`
	Points          []LogPoint `json:"points"`
	MinResponse     *float64   `json:"min_response"`
	MaxResponse     *float64   `json:"max_response"`
	AvgResponse     *float64   `json:"avg_response"`
}

// LogTrend computes uptime statistics over the given logs. Uptime percentage
// is up-count over total (0 when empty); longest downtime is the longest run
// of consecutive down entries, reset by anything that is not down.
func LogTrend(logs []LogEntry) LogTrendResult {
	result := LogTrendResult{
		TotalChecks: len(logs),
		Points:      make([]LogPoint, 0, len(logs)),
	}

	upCount := 0
	current := 0
	for _, entry := range logs {
		switch entry.Type {
		case logTypeUp:
			upCount++
			current = 0
		case logTypeDown:
			result.DowntimeEvents++
			current++
			if current > result.LongestDowntime {
				result.LongestDowntime = current
			}
		default:
			current = 0
		}

		date := entry.Timestamp
		if len(date) > minutePrefixLen {
			date = date[:minutePrefixLen]
		}
		result.Points = append(result.Points, LogPoint{
			Date:   date,
			Status: entry.Type,
		})
	}

	if result.TotalChecks > 0 {
		result.UptimePercent = float64(upCount) / float64(result.TotalChecks) * 100
	}

	sum := 0.0
	count := 0
	for _, entry := range logs {
		for _, sample := range entry.ResponseTimes {
			if sample.Value == nil {
				continue
			}
			v := *sample.Value
			sum += v
			count++
			if result.MinResponse == nil || v < *result.MinResponse {
				result.MinResponse = ptr(v)
			}
			if result.MaxResponse == nil || v > *result.MaxResponse {
				result.MaxResponse = ptr(v)
			}
		}
	}
	if count > 0 {
		result.AvgResponse = ptr(sum / float64(count))
	}

	return result
}

// LogCompare filters logs to each period's inclusive date range and applies
// LogTrend, keyed positionally as period1, period2, and so on. Filtering
// compares the date prefix of the timestamp lexicographically.
func LogCompare(logs []LogEntry, periods []Period) map[string]LogTrendResult {
	results := make(map[string]LogTrendResult, len(periods))
	for i, period := range periods {
		var filtered []LogEntry
		for _, entry := range logs {
			if len(entry.Timestamp) < datePrefixLen {
				continue
			}
			date := entry.Timestamp[:datePrefixLen]
			if period.Start <= date && date <= period.End {
				filtered = append(filtered, entry)
			}
		}
		results[fmt.Sprintf("period%d", i+1)] = LogTrend(filtered)
	}
	return results
}
