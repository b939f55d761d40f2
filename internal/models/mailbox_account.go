package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// MailboxAccount holds the IMAP endpoint and credentials for one monitored
// inbox, plus the incremental-fetch high-water mark advanced by the poller.
type MailboxAccount struct {
	ID           string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Name         string `gorm:"column:name;type:varchar(255)" json:"name"`
	EmailAddress string `gorm:"column:email_address;type:varchar(255);index" json:"emailAddress"`

	// IMAP configuration. Password is encrypted at rest.
	ImapServer   string `gorm:"column:imap_server;type:varchar(255);not null" json:"imapServer"`
	ImapPort     int    `gorm:"column:imap_port;not null" json:"imapPort"`
	ImapUsername string `gorm:"column:imap_username;type:varchar(255);not null" json:"imapUsername"`
	ImapPassword string `gorm:"column:imap_password;type:varchar(500);not null" json:"-"`
	ImapTLS      bool   `gorm:"column:imap_tls;not null;default:true" json:"imapTls"`
	Folder       string `gorm:"column:folder;type:varchar(100);default:INBOX" json:"folder"`

	// Processing configuration
	IsActive                 bool                   `gorm:"column:is_active;not null;default:true" json:"isActive"`
	AutoProcessAttachments   bool                   `gorm:"column:auto_process_attachments;not null;default:true" json:"autoProcessAttachments"`
	DefaultApplicationStatus enum.ApplicationStatus `gorm:"column:default_application_status;type:varchar(50);default:pending" json:"defaultApplicationStatus"`

	// Poll state, updated only by the account's own poll path
	LastCheckedAt      *time.Time `gorm:"column:last_checked_at;type:timestamp" json:"lastCheckedAt"`
	LastEmailTimestamp *time.Time `gorm:"column:last_email_timestamp;type:timestamp" json:"lastEmailTimestamp"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (MailboxAccount) TableName() string {
	return "mailbox_accounts"
}

func (m *MailboxAccount) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("mbacc", 16)
	}
	return nil
}
