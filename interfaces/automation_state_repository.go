package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type AutomationStateRepository interface {
	// Get returns the singleton state row, creating it with defaults when
	// missing.
	Get(ctx context.Context) (*models.AutomationState, error)
	Save(ctx context.Context, state *models.AutomationState) error
}
