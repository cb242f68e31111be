package models

// Monitor status codes as reported by the uptime provider.
const (
	UptimeStatusPaused     = 0
	UptimeStatusNotChecked = 1
	UptimeStatusUp         = 2
	UptimeStatusSeemsDown  = 8
	UptimeStatusDown       = 9
)

// Log entry type codes in the uptime provider's log history.
const (
	UptimeLogDown = 1
	UptimeLogUp   = 2
)

// UptimeStatusText maps a monitor status code to a display label.
func UptimeStatusText(code int) string {
	switch code {
	case UptimeStatusPaused:
		return "paused"
	case UptimeStatusNotChecked:
		return "not checked"
	case UptimeStatusUp:
		return "up"
	case UptimeStatusSeemsDown:
		return "seems down"
	case UptimeStatusDown:
		return "down"
	default:
		return "unknown"
	}
}
