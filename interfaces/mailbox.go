package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

// MailboxClient fetches and parses messages from one IMAP account. A session
// is opened per call and closed on every exit path. Fetching never marks a
// message seen; MarkSeen is a separate, explicit operation.
type MailboxClient interface {
	FetchMessages(ctx context.Context, account *models.MailboxAccount, filter dto.SearchFilter) ([]dto.InboundMessage, error)
	MarkSeen(ctx context.Context, account *models.MailboxAccount, uids []uint32) error
}
