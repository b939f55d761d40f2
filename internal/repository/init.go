package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type Repositories struct {
	EmailRecordRepository     interfaces.EmailRecordRepository
	ApplicationRepository     interfaces.ApplicationRepository
	JobRepository             interfaces.JobRepository
	MailboxAccountRepository  interfaces.MailboxAccountRepository
	AutomationStateRepository interfaces.AutomationStateRepository
}

func InitRepositories(db *gorm.DB, ingestionConfig *config.IngestionConfig) *Repositories {
	return &Repositories{
		EmailRecordRepository:     NewEmailRecordRepository(db),
		ApplicationRepository:     NewApplicationRepository(db),
		JobRepository:             NewJobRepository(db),
		MailboxAccountRepository:  NewMailboxAccountRepository(db, ingestionConfig.CredentialsKey),
		AutomationStateRepository: NewAutomationStateRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.EmailRecord{},
		&models.Application{},
		&models.Job{},
		&models.MailboxAccount{},
		&models.AutomationState{},
	)
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return nil
}
