// Package domain holds the entities shared across services. All of them are
// read models here: writes to applications, groups, users, and rules belong
// to the external CRUD layer, and log records are written by the ingestion
// pipeline.
package domain

import "time"

// Log levels known to the system. Levels arrive as free strings from
// ingestion; DefaultLevels is the chart-legend fallback when a filtered set
// is empty.
var DefaultLevels = []string{"error", "warn", "info", "debug"}

// LogRecord is immutable once written; it disappears only through retention
// expiry.
type LogRecord struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Timestamp     time.Time `json:"timestamp"`
	Level         string    `json:"level"`
	Message       string    `json:"message"`
	TraceID       string    `json:"traceId"`
}

// Application is an emitting service registered by the admin layer.
type Application struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// AccessGroup grants its members visibility over its assigned applications
// while the group is active.
type AccessGroup struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Members              []string `json:"members"`
	AssignedApplications []string `json:"assignedApplications"`
	IsActive             bool     `json:"isActive"`
}

// RiskRule flags applications whose recent log volume crosses a threshold.
// The (LogType, Operator) pair is unique across rules; the CRUD layer
// enforces it.
type RiskRule struct {
	ID        string `json:"id"`
	LogType   string `json:"logType"`
	Operator  string `json:"operator"`
	Unit      string `json:"unit"`
	Time      int    `json:"time"`
	Threshold int    `json:"threshold"`
}

// RetentionPolicy is the single logical instance driving log expiry.
type RetentionPolicy struct {
	RetentionDays int       `json:"retentionDays"`
	UpdatedBy     string    `json:"updatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Principal is the authenticated caller context assembled at the boundary:
// identity from the session layer's token, preferences from the directory.
type Principal struct {
	ID             string
	Email          string
	Name           string
	RecordsPerPage int
}

// User is the directory read model behind a Principal.
type User struct {
	ID             string
	Email          string
	Name           string
	RecordsPerPage int
}
