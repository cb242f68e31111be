// Package models defines the persisted record types produced by the
// acquisition pipeline and consumed by the analytics engine.
package models

import "time"

// Site is a tracked URL owned by a single user. The uptime columns cache the
// last state mirrored from the uptime provider and are last-write-wins.
type Site struct {
	ID                  string     `json:"id"                               db:"id"`
	UserID              string     `json:"user_id"                          db:"user_id"`
	URL                 string     `json:"url"                              db:"url"`
	Title               string     `json:"title"                            db:"title"`
	Description         string     `json:"description"                      db:"description"`
	UptimeMonitorID     *string    `json:"uptime_monitor_id,omitempty"      db:"uptime_monitor_id"`
	LastUptimeStatus    *int       `json:"last_uptime_status,omitempty"     db:"last_uptime_status"`
	LastUptimeCheckedAt *time.Time `json:"last_uptime_checked_at,omitempty" db:"last_uptime_checked_at"`
	CreatedAt           time.Time  `json:"created_at"                       db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"                       db:"updated_at"`
}

// Page is the canonical URL unit performance facts key off. One Page per
// unique URL per user, created lazily on the first performance check.
type Page struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	URL       string    `json:"url"        db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
