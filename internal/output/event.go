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
	EventFileOrganized   EventName = "file_organized"
	EventFileDuplicate   EventName = "file_duplicate"
	EventSidecarDeleted  EventName = "sidecar_deleted"
	EventFileFailed      EventName = "file_failed"
	EventFileSkipped     EventName = "file_skipped"
	EventMetadataMissing EventName = "metadata_missing"
	EventCleanupStarted  EventName = "cleanup_started"
	EventDirRemoved      EventName = "dir_removed"
	EventDirRemoveFailed EventName = "dir_remove_failed"
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
