package errors

import "github.com/pkg/errors"

var (
	// ingestion errors
	ErrIngestionRunning   = errors.New("ingestion cycle already running")
	ErrIngestionDisabled  = errors.New("ingestion is disabled")
	ErrIntervalOutOfRange = errors.New("polling interval must be between 1 and 60 minutes")

	// account errors
	ErrAccountNotFound = errors.New("mailbox account not found")
	ErrAccountInactive = errors.New("mailbox account is inactive")

	// submission errors
	ErrNoAttachments         = errors.New("submission has no attachments")
	ErrNoResumeAttachment    = errors.New("no resume-like attachment found")
	ErrResumeTextTooShort    = errors.New("extracted resume text below minimum length")
	ErrParseRetriesExhausted = errors.New("resume parsing failed after all retries")
)
