package services

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"

	appconfig "github.com/mtauhidul/ats-backend-demo-sub000/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/repository"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/events"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/imap"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/ingestion"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/matcher"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/notify"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/parser"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/resume"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/storage"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/storage/aws_client"
)

type Services struct {
	MailboxClient  interfaces.MailboxClient
	ResumeParser   interfaces.ResumeParser
	StorageService interfaces.StorageService
	Notifier       interfaces.Notifier
	EventPublisher interfaces.EventPublisher
	JobMatcher     *matcher.JobMatcher
	ResumePipeline *resume.Pipeline
	Controller     *ingestion.AutomationController
	Orchestrator   *ingestion.Orchestrator
}

func InitServices(cfg *appconfig.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.StorageConfig.Region),
	}
	if cfg.StorageConfig.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.StorageConfig.AccessKeyID,
			cfg.StorageConfig.AccessKeySecret,
			"",
		)
	}
	s3Client := aws_client.NewS3Client(awsConfig)

	publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQConfig, log)
	if err != nil {
		return nil, err
	}

	resumeParser := parser.NewParserService(cfg.ParserConfig)
	pipeline := resume.NewPipeline(resumeParser, log, cfg.ParserConfig.MaxAttempts)
	jobMatcher := matcher.NewJobMatcher(repos.JobRepository)
	controller := ingestion.NewAutomationController()
	ledger := ingestion.NewDedupLedger(repos.EmailRecordRepository, repos.ApplicationRepository)
	mailboxClient := imap.NewMailboxClient(log)
	storageService := storage.NewStorageService(s3Client, cfg.StorageConfig)
	notifier := notify.NewSendGridNotifier(cfg.SendGridConfig)

	orchestrator := ingestion.NewOrchestrator(
		controller,
		ledger,
		mailboxClient,
		pipeline,
		jobMatcher,
		storageService,
		notifier,
		publisher,
		repos.EmailRecordRepository,
		repos.ApplicationRepository,
		repos.MailboxAccountRepository,
		repos.AutomationStateRepository,
		cfg.IngestionConfig,
		log,
	)

	services := Services{
		MailboxClient:  mailboxClient,
		ResumeParser:   resumeParser,
		StorageService: storageService,
		Notifier:       notifier,
		EventPublisher: publisher,
		JobMatcher:     jobMatcher,
		ResumePipeline: pipeline,
		Controller:     controller,
		Orchestrator:   orchestrator,
	}

	return &services, nil
}
