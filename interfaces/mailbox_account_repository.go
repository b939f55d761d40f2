package interfaces

import (
	"context"
	"time"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type MailboxAccountRepository interface {
	Create(ctx context.Context, account *models.MailboxAccount) (string, error)
	GetByID(ctx context.Context, id string) (*models.MailboxAccount, error)
	ListActive(ctx context.Context) ([]*models.MailboxAccount, error)
	// RecordPoll stores the poll attempt time and, when lastEmail is not nil,
	// advances the incremental-fetch high-water mark.
	RecordPoll(ctx context.Context, id string, checkedAt time.Time, lastEmail *time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
}
