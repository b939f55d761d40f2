package interfaces

import (
	"context"
	"time"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type EmailRecordRepository interface {
	Create(ctx context.Context, record *models.EmailRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.EmailRecord, error)
	// GetByMessageID returns nil, nil when no record exists. Message IDs are
	// matched with angle brackets stripped.
	GetByMessageID(ctx context.Context, messageID string) (*models.EmailRecord, error)
	GetByAnyMessageID(ctx context.Context, messageIDs []string) (*models.EmailRecord, error)
	ListByThread(ctx context.Context, threadID string) ([]*models.EmailRecord, error)
	ListByStatus(ctx context.Context, status enum.EmailStatus, limit int) ([]*models.EmailRecord, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.EmailRecord, error)
	AttachLinks(ctx context.Context, id string, applicationID, candidateID, jobID, clientID string) error
}
