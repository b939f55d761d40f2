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
)

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) interfaces.JobRepository {
	return &jobRepository{
		db: db,
	}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "jobRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if job == nil {
		return "", ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Create(job)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return job.ID, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "jobRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListMatchable(ctx context.Context) ([]*models.Job, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "jobRepository.ListMatchable")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var jobs []*models.Job
	if err := r.db.WithContext(ctx).
		Where("status IN ?", enum.MatchableJobStatuses).
		Order("published_at ASC NULLS LAST, created_at ASC").
		Find(&jobs).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return jobs, nil
}
