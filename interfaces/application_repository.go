package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) (string, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// GetBySourceMessageID returns nil, nil when no application was derived
	// from the given message.
	GetBySourceMessageID(ctx context.Context, messageID string) (*models.Application, error)
	// GetByEmailAndJob matches jobID == "" against applications with no job
	// assignment.
	GetByEmailAndJob(ctx context.Context, email, jobID string) (*models.Application, error)
	ListByStatus(ctx context.Context, status enum.ApplicationStatus, limit, offset int) ([]*models.Application, int64, error)
	ListBySource(ctx context.Context, source enum.ApplicationSource, limit, offset int) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, id string, status enum.ApplicationStatus) error
	Delete(ctx context.Context, id string) error
}
