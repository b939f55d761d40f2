package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

const defaultIntervalMinutes = 5

type automationStateRepository struct {
	db *gorm.DB
}

func NewAutomationStateRepository(db *gorm.DB) interfaces.AutomationStateRepository {
	return &automationStateRepository{
		db: db,
	}
}

func (r *automationStateRepository) Get(ctx context.Context) (*models.AutomationState, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "automationStateRepository.Get")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var state models.AutomationState
	err := r.db.WithContext(ctx).
		Where("id = ?", models.AutomationStateID).
		First(&state).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.AutomationState{
			ID:              models.AutomationStateID,
			Enabled:         true,
			IntervalMinutes: defaultIntervalMinutes,
		}
		if err := r.db.WithContext(ctx).Create(&state).Error; err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		return &state, nil
	}

	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &state, nil
}

func (r *automationStateRepository) Save(ctx context.Context, state *models.AutomationState) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "automationStateRepository.Save")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if state == nil {
		return ErrInvalidInput
	}

	state.ID = models.AutomationStateID
	state.UpdatedAt = utils.Now()

	return r.db.WithContext(ctx).Save(state).Error
}
