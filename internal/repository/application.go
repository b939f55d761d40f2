package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) interfaces.ApplicationRepository {
	return &applicationRepository{
		db: db,
	}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if application == nil {
		return "", ErrInvalidInput
	}

	application.SourceMessageID = utils.NormalizeMessageID(application.SourceMessageID)

	result := r.db.WithContext(ctx).Create(application)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return application.ID, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var application models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) GetBySourceMessageID(ctx context.Context, messageID string) (*models.Application, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.GetBySourceMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	messageID = utils.NormalizeMessageID(messageID)
	if messageID == "" {
		return nil, nil
	}

	var application models.Application
	if err := r.db.WithContext(ctx).Where("source_message_id = ?", messageID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) GetByEmailAndJob(ctx context.Context, email, jobID string) (*models.Application, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.GetByEmailAndJob")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	query := r.db.WithContext(ctx).Where("email = ?", email)
	if jobID == "" {
		query = query.Where("job_id = '' OR job_id IS NULL")
	} else {
		query = query.Where("job_id = ?", jobID)
	}

	var application models.Application
	if err := query.First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status enum.ApplicationStatus, limit, offset int) ([]*models.Application, int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.ListByStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var applications []*models.Application
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	return applications, count, nil
}

func (r *applicationRepository) ListBySource(ctx context.Context, source enum.ApplicationSource, limit, offset int) ([]*models.Application, int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.ListBySource")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var applications []*models.Application
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("source = ?", source).
		Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	return applications, count, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status enum.ApplicationStatus) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.UpdateStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if id == "" {
		return ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": utils.Now(),
		})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.Delete")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if id == "" {
		return ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Application{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}
