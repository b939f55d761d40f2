package interfaces

import "context"

// Notifier sends transactional email. Fire-and-forget: failures are logged,
// never surfaced to ingestion correctness.
type Notifier interface {
	SendApplicationConfirmation(ctx context.Context, toAddress, toName, jobTitle string) error
}
