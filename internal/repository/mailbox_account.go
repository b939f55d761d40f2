package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

type mailboxAccountRepository struct {
	db            *gorm.DB
	encryptionKey string
}

// NewMailboxAccountRepository wraps account storage. When encryptionKey is
// set, IMAP passwords are encrypted before write and decrypted after read;
// values that fail to decrypt are returned as-is (legacy plaintext rows).
func NewMailboxAccountRepository(db *gorm.DB, encryptionKey string) interfaces.MailboxAccountRepository {
	return &mailboxAccountRepository{
		db:            db,
		encryptionKey: encryptionKey,
	}
}

func (r *mailboxAccountRepository) Create(ctx context.Context, account *models.MailboxAccount) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxAccountRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if account == nil {
		return "", ErrInvalidInput
	}

	encrypted, err := utils.EncryptString(account.ImapPassword, r.encryptionKey)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	account.ImapPassword = encrypted

	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return account.ID, nil
}

func (r *mailboxAccountRepository) GetByID(ctx context.Context, id string) (*models.MailboxAccount, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxAccountRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var account models.MailboxAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	account.ImapPassword = utils.DecryptString(account.ImapPassword, r.encryptionKey)
	return &account, nil
}

func (r *mailboxAccountRepository) ListActive(ctx context.Context) ([]*models.MailboxAccount, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxAccountRepository.ListActive")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var accounts []*models.MailboxAccount
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	for _, account := range accounts {
		account.ImapPassword = utils.DecryptString(account.ImapPassword, r.encryptionKey)
	}
	return accounts, nil
}

func (r *mailboxAccountRepository) RecordPoll(ctx context.Context, id string, checkedAt time.Time, lastEmail *time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxAccountRepository.RecordPoll")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagAccount(span, id)

	if id == "" {
		return ErrInvalidInput
	}

	updates := map[string]interface{}{
		"last_checked_at": checkedAt,
		"updated_at":      utils.Now(),
	}
	if lastEmail != nil {
		updates["last_email_timestamp"] = *lastEmail
	}

	result := r.db.WithContext(ctx).
		Model(&models.MailboxAccount{}).
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

func (r *mailboxAccountRepository) SetActive(ctx context.Context, id string, active bool) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxAccountRepository.SetActive")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagAccount(span, id)

	result := r.db.WithContext(ctx).
		Model(&models.MailboxAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
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
