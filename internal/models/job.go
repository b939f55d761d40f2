package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

type Job struct {
	ID       string         `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ClientID string         `gorm:"column:client_id;type:varchar(50);index" json:"clientId"`
	Title    string         `gorm:"column:title;type:varchar(500);index;not null" json:"title"`
	Status   enum.JobStatus `gorm:"column:status;type:varchar(50);index;not null" json:"status"`

	PublishedAt *time.Time `gorm:"column:published_at;type:timestamp;index" json:"publishedAt"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = utils.GenerateNanoIDWithPrefix("job", 16)
	}
	return nil
}

// MatchTimestamp is the instant used for temporal tie-breaks when several
// jobs share a matching title: publish time when set, creation time otherwise.
func (j *Job) MatchTimestamp() time.Time {
	if j.PublishedAt != nil {
		return *j.PublishedAt
	}
	return j.CreatedAt
}
