package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// Application is a submission awaiting review. SourceMessageID carries the
// dedup key for mailbox-ingested applications.
type Application struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	FirstName string `gorm:"column:first_name;type:varchar(255)" json:"firstName"`
	LastName  string `gorm:"column:last_name;type:varchar(255)" json:"lastName"`
	Email     string `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	Phone     string `gorm:"column:phone;type:varchar(50)" json:"phone"`

	JobID string `gorm:"column:job_id;type:varchar(50);index" json:"jobId"`

	ResumeURL  string  `gorm:"column:resume_url;type:varchar(1000)" json:"resumeUrl"`
	ResumeText string  `gorm:"column:resume_text;type:text" json:"resumeText"`
	Parsed     JSONMap `gorm:"column:parsed;type:jsonb" json:"parsed"`

	AIValidity enum.ResumeValidity `gorm:"column:ai_validity;type:varchar(20);default:unknown" json:"aiValidity"`
	AIScore    float64             `gorm:"column:ai_score" json:"aiScore"`
	AIReason   string              `gorm:"column:ai_reason;type:text" json:"aiReason"`

	VideoURL    string           `gorm:"column:video_url;type:varchar(1000)" json:"videoUrl"`
	VideoKind   enum.VideoKind   `gorm:"column:video_kind;type:varchar(20)" json:"videoKind"`
	VideoOrigin enum.VideoOrigin `gorm:"column:video_origin;type:varchar(20)" json:"videoOrigin"`

	Source          enum.ApplicationSource `gorm:"column:source;type:varchar(50);index;not null" json:"source"`
	SourceMessageID string                 `gorm:"column:source_message_id;type:varchar(255);index" json:"sourceMessageId"`
	Status          enum.ApplicationStatus `gorm:"column:status;type:varchar(50);index;not null" json:"status"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateNanoIDWithPrefix("app", 24)
	}
	a.CreatedAt = utils.Now()
	return nil
}
