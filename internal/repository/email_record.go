package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

type emailRecordRepository struct {
	db *gorm.DB
}

func NewEmailRecordRepository(db *gorm.DB) interfaces.EmailRecordRepository {
	return &emailRecordRepository{
		db: db,
	}
}

func (r *emailRecordRepository) Create(ctx context.Context, record *models.EmailRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if record == nil {
		return "", ErrInvalidInput
	}

	record.MessageID = utils.NormalizeMessageID(record.MessageID)
	if record.Subject != "" {
		record.CleanSubject = utils.NormalizeSubject(record.Subject)
	}

	// Creation is idempotent per message ID
	existing := &models.EmailRecord{}
	err := r.db.WithContext(ctx).
		Where("message_id = ?", record.MessageID).
		First(existing).Error

	if err == nil {
		span.SetTag("duplicate", true)
		return existing.ID, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return "", err
	}

	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return record.ID, nil
}

func (r *emailRecordRepository) GetByID(ctx context.Context, id string) (*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var record models.EmailRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &record, nil
}

func (r *emailRecordRepository) GetByMessageID(ctx context.Context, messageID string) (*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.GetByMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	messageID = utils.NormalizeMessageID(messageID)

	var record models.EmailRecord
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &record, nil
}

// GetByAnyMessageID resolves the first existing record among a set of
// candidate IDs, used for thread resolution against References headers.
func (r *emailRecordRepository) GetByAnyMessageID(ctx context.Context, messageIDs []string) (*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.GetByAnyMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if len(messageIDs) == 0 {
		return nil, nil
	}

	cleaned := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		if id = utils.NormalizeMessageID(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	var record models.EmailRecord
	if err := r.db.WithContext(ctx).
		Where("message_id IN ?", cleaned).
		Order("received_at ASC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &record, nil
}

func (r *emailRecordRepository) ListByThread(ctx context.Context, threadID string) ([]*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.ListByThread")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var records []*models.EmailRecord
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("received_at ASC").
		Find(&records).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return records, nil
}

func (r *emailRecordRepository) ListByStatus(ctx context.Context, status enum.EmailStatus, limit int) ([]*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.ListByStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var records []*models.EmailRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("received_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return records, nil
}

func (r *emailRecordRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.EmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.ListByDateRange")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var records []*models.EmailRecord
	if err := r.db.WithContext(ctx).
		Where("received_at BETWEEN ? AND ?", from, to).
		Order("received_at ASC").
		Find(&records).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return records, nil
}

// AttachLinks sets the resolved application/candidate/job/client references
// on a stored record. Empty values are left untouched.
func (r *emailRecordRepository) AttachLinks(ctx context.Context, id string, applicationID, candidateID, jobID, clientID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRecordRepository.AttachLinks")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if id == "" {
		return ErrInvalidInput
	}

	updates := map[string]interface{}{
		"updated_at": utils.Now(),
	}
	if applicationID != "" {
		updates["application_id"] = applicationID
	}
	if candidateID != "" {
		updates["candidate_id"] = candidateID
	}
	if jobID != "" {
		updates["job_id"] = jobID
	}
	if clientID != "" {
		updates["client_id"] = clientID
	}

	result := r.db.WithContext(ctx).
		Model(&models.EmailRecord{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
