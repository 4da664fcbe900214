package models

import "time"

// SystemMetrics is a point-in-time summary of process health.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	MailFailures             uint64    `json:"mailFailures"`
	Goroutines               int       `json:"goroutines"`
	UptimeSeconds            int64     `json:"uptimeSeconds"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
