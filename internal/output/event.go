package output

import "time"

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type EventName string

const (
	EventRunStarted      EventName = "run_started"
	EventFileCorrections EventName = "file_corrections"
	EventFileSkipped     EventName = "file_skipped"
	EventFileFailed      EventName = "file_failed"
	EventFileUpdated     EventName = "file_updated"
	EventTagUpdated      EventName = "tag_updated"
	EventReportWritten   EventName = "report_written"
	EventRunFinished     EventName = "run_finished"
)

type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Event     EventName      `json:"event"`
	Path      string         `json:"path,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
