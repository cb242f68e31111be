package uptimerobot

import (
	"sort"
	"time"

	"github.com/jonesrussell/sitepulse/internal/analytics"
)

// Monitor is the provider's monitor record with the extended field set
// requested by GetMonitor.
type Monitor struct {
	ID                 int64               `json:"id"`
	FriendlyName       string              `json:"friendly_name"`
	URL                string              `json:"url"`
	Status             int                 `json:"status"`
	CustomUptimeRatio  string              `json:"custom_uptime_ratio"`
	AllTimeUptimeRatio string              `json:"all_time_uptime_ratio"`
	SSL                *SSLInfo            `json:"ssl,omitempty"`
	Logs               []Log               `json:"logs"`
	ResponseTimes      []ResponseTime      `json:"response_times"`
	AlertContacts      []AlertContact      `json:"alert_contacts"`
	MaintenanceWindows []MaintenanceWindow `json:"mwindows"`
}

// Log is one raw monitor log event. Datetime is a unix timestamp.
type Log struct {
	Type     int       `json:"type"`
	Datetime int64     `json:"datetime"`
	Duration int64     `json:"duration"`
	Reason   LogReason `json:"reason"`
}

type LogReason struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// ResponseTime is one response-time measurement in milliseconds.
type ResponseTime struct {
	Datetime int64   `json:"datetime"`
	Value    float64 `json:"value"`
}

type SSLInfo struct {
	Brand      string `json:"brand"`
	Product    string `json:"product"`
	Expires    int64  `json:"expires"`
	Disabled   int    `json:"disable_notifications"`
	IgnoreErrs int    `json:"ignore_ssl_errors"`
}

type AlertContact struct {
	ID        string `json:"id"`
	Value     string `json:"value"`
	Type      int    `json:"type"`
	Threshold int    `json:"threshold"`
}

type MaintenanceWindow struct {
	ID        int64  `json:"id"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// logTimeLayout is the timestamp format the analytics engine slices by
// prefix, always rendered in UTC.
const logTimeLayout = "2006-01-02 15:04:05"

// ConvertLogs maps raw monitor logs to analytics log entries, oldest first.
// Response-time samples are attached to the latest log entry at or before the
// sample's timestamp; samples preceding the first log are dropped.
func ConvertLogs(monitor *Monitor) []analytics.LogEntry {
	logs := make([]Log, len(monitor.Logs))
	copy(logs, monitor.Logs)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Datetime < logs[j].Datetime
	})

	entries := make([]analytics.LogEntry, len(logs))
	for i, raw := range logs {
		entries[i] = analytics.LogEntry{
			Timestamp: time.Unix(raw.Datetime, 0).UTC().Format(logTimeLayout),
			Type:      raw.Type,
		}
	}

	for _, sample := range monitor.ResponseTimes {
		idx := -1
		for i, raw := range logs {
			if raw.Datetime <= sample.Datetime {
				idx = i
			} else {
				break
			}
		}
		if idx < 0 {
			continue
		}
		value := sample.Value
		entries[idx].ResponseTimes = append(entries[idx].ResponseTimes, analytics.Sample{
			Value: &value,
		})
	}

	return entries
}
