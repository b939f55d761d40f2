package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// EmailRecord is the durable log of every inbound and outbound message.
// MessageID is the dedup key: at most one record exists per unique ID.
type EmailRecord struct {
	ID         string              `gorm:"column:id;type:varchar(50);primaryKey"`
	AccountID  string              `gorm:"column:account_id;type:varchar(50);index"`
	Direction  enum.EmailDirection `gorm:"column:direction;type:varchar(20);index;not null"`
	MessageID  string              `gorm:"column:message_id;uniqueIndex;type:varchar(255);not null"`
	ThreadID   string              `gorm:"column:thread_id;type:varchar(255);index"`
	InReplyTo  string              `gorm:"column:in_reply_to;type:varchar(255);index"`
	References pq.StringArray      `gorm:"column:references;type:text[]"`

	Subject      string         `gorm:"column:subject;type:varchar(1000)"`
	CleanSubject string         `gorm:"column:clean_subject;type:varchar(1000);index"`
	FromAddress  string         `gorm:"column:from_address;type:varchar(255);index"`
	FromName     string         `gorm:"column:from_name;type:varchar(255)"`
	ToAddresses  pq.StringArray `gorm:"column:to_addresses;type:text[]"`

	BodyText string `gorm:"column:body_text;type:text"`
	BodyHTML string `gorm:"column:body_html;type:text"`

	Status       enum.EmailStatus `gorm:"column:status;type:varchar(50);index"`
	ErrorMessage string           `gorm:"column:error_message;type:text"`

	// Resolved links, attached after processing; never otherwise mutated
	ApplicationID string `gorm:"column:application_id;type:varchar(50);index"`
	CandidateID   string `gorm:"column:candidate_id;type:varchar(50);index"`
	JobID         string `gorm:"column:job_id;type:varchar(50);index"`
	ClientID      string `gorm:"column:client_id;type:varchar(50);index"`

	ReceivedAt *time.Time `gorm:"column:received_at;type:timestamp;index"`
	SentAt     *time.Time `gorm:"column:sent_at;type:timestamp"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (EmailRecord) TableName() string {
	return "email_records"
}

func (e *EmailRecord) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("email", 24)
	}
	e.CreatedAt = utils.Now()
	return nil
}
