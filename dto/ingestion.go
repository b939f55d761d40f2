package dto

import "time"

// IngestionStatus is the operational view of the automation controller.
type IngestionStatus struct {
	Enabled         bool          `json:"enabled"`
	Running         bool          `json:"running"`
	IntervalMinutes int           `json:"intervalMinutes"`
	LastRunAt       *time.Time    `json:"lastRunAt"`
	LastRunDuration time.Duration `json:"lastRunDuration"`
	Processed       int64         `json:"processed"`
	Created         int64         `json:"created"`
	RepliesStored   int64         `json:"repliesStored"`
	Skipped         int64         `json:"skipped"`
	Errors          int64         `json:"errors"`
}

// CycleResult summarizes a single poll cycle.
type CycleResult struct {
	Accounts      int           `json:"accounts"`
	Processed     int           `json:"processed"`
	Created       int           `json:"created"`
	RepliesStored int           `json:"repliesStored"`
	Skipped       int           `json:"skipped"`
	Errors        int           `json:"errors"`
	Duration      time.Duration `json:"duration"`
}

type SetIntervalRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

type BackfillRequest struct {
	AccountID string    `json:"accountId" binding:"required"`
	From      time.Time `json:"from" binding:"required"`
	To        time.Time `json:"to" binding:"required"`
}

// ApplicationCreatedEvent is published after a submission becomes an
// Application record.
type ApplicationCreatedEvent struct {
	ApplicationID   string    `json:"applicationId"`
	Email           string    `json:"email"`
	JobID           string    `json:"jobId,omitempty"`
	SourceMessageID string    `json:"sourceMessageId"`
	CreatedAt       time.Time `json:"createdAt"`
}
