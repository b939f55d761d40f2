package models

import (
	"time"
)

// AutomationStateID is the primary key of the single automation_state row.
const AutomationStateID = "ingestion"

// AutomationState is the persisted run control for the ingestion scheduler.
// The running flag is deliberately absent: mutual exclusion lives in process
// memory so a crashed process never leaves a stuck lock behind.
type AutomationState struct {
	ID              string        `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Enabled         bool          `gorm:"column:enabled;not null;default:true" json:"enabled"`
	IntervalMinutes int           `gorm:"column:interval_minutes;not null;default:5" json:"intervalMinutes"`
	LastRunAt       *time.Time    `gorm:"column:last_run_at;type:timestamp" json:"lastRunAt"`
	LastRunDuration time.Duration `gorm:"column:last_run_duration_ns" json:"lastRunDuration"`

	// Cumulative counters across all poll cycles
	Processed     int64 `gorm:"column:processed;not null;default:0" json:"processed"`
	Created       int64 `gorm:"column:created;not null;default:0" json:"created"`
	RepliesStored int64 `gorm:"column:replies_stored;not null;default:0" json:"repliesStored"`
	Skipped       int64 `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Errors        int64 `gorm:"column:errors;not null;default:0" json:"errors"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (AutomationState) TableName() string {
	return "automation_state"
}
