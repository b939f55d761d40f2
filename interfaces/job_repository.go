package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (string, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	// ListMatchable returns jobs in open, draft or on-hold status.
	ListMatchable(ctx context.Context) ([]*models.Job, error)
}
