package ingestion

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/matcher"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/resume"
)

var resumeText = strings.Repeat("Backend engineer, Go, Postgres, RabbitMQ, five years of experience. ", 3)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()
	return appLogger
}

// ---- collaborator fakes ----

type fakeMailbox struct {
	messages []dto.InboundMessage
	fetchErr error
	filters  []dto.SearchFilter
}

func (f *fakeMailbox) FetchMessages(ctx context.Context, account *models.MailboxAccount, filter dto.SearchFilter) ([]dto.InboundMessage, error) {
	f.filters = append(f.filters, filter)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.messages, nil
}

func (f *fakeMailbox) MarkSeen(ctx context.Context, account *models.MailboxAccount, uids []uint32) error {
	return nil
}

type fakeParser struct{}

func (fakeParser) ExtractText(ctx context.Context, content []byte, fileType string) (string, error) {
	return resumeText, nil
}

func (fakeParser) Parse(ctx context.Context, text string) (*dto.ParsedResume, error) {
	return &dto.ParsedResume{FirstName: "Jane", LastName: "Doe", Skills: []string{"Go"}}, nil
}

func (fakeParser) Validate(ctx context.Context, text string) (*dto.ResumeValidation, error) {
	return &dto.ResumeValidation{IsValid: true, Score: 0.9}, nil
}

type fakeStorage struct {
	documents   []string
	videos      []string
	videoFails  bool
	documentErr error
}

func (f *fakeStorage) UploadDocument(ctx context.Context, content []byte, filename string) (string, error) {
	if f.documentErr != nil {
		return "", f.documentErr
	}
	f.documents = append(f.documents, filename)
	return "https://cdn.example.com/resumes/" + filename, nil
}

func (f *fakeStorage) UploadVideo(ctx context.Context, content []byte, filename string) (string, error) {
	if f.videoFails {
		return "", errors.New("upload failed")
	}
	f.videos = append(f.videos, filename)
	return "https://cdn.example.com/videos/" + filename, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendApplicationConfirmation(ctx context.Context, toAddress, toName, jobTitle string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toAddress)
	return nil
}

type fakePublisher struct {
	events []dto.ApplicationCreatedEvent
	err    error
}

func (f *fakePublisher) PublishApplicationCreated(ctx context.Context, event dto.ApplicationCreatedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// ---- repository fakes ----

type fakeEmailRecords struct {
	mu                sync.Mutex
	records           []*models.EmailRecord
	nextID            int
	createErr         error
	getByMessageIDErr error
	// when set, GetByMessageID errors only for this message ID
	getByMessageIDErrOn string
}

func (f *fakeEmailRecords) Create(ctx context.Context, record *models.EmailRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	if record.ID == "" {
		record.ID = utils.GenerateNanoIDWithPrefix("email", 16)
	}
	f.records = append(f.records, record)
	return record.ID, nil
}

func (f *fakeEmailRecords) GetByID(ctx context.Context, id string) (*models.EmailRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRecords) GetByMessageID(ctx context.Context, messageID string) (*models.EmailRecord, error) {
	if f.getByMessageIDErr != nil {
		return nil, f.getByMessageIDErr
	}
	if f.getByMessageIDErrOn != "" && f.getByMessageIDErrOn == messageID {
		return nil, errors.New("connection reset")
	}
	for _, r := range f.records {
		if r.MessageID == messageID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRecords) GetByAnyMessageID(ctx context.Context, messageIDs []string) (*models.EmailRecord, error) {
	for _, id := range messageIDs {
		if r, _ := f.GetByMessageID(ctx, id); r != nil {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRecords) ListByThread(ctx context.Context, threadID string) ([]*models.EmailRecord, error) {
	var out []*models.EmailRecord
	for _, r := range f.records {
		if r.ThreadID == threadID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEmailRecords) ListByStatus(ctx context.Context, status enum.EmailStatus, limit int) ([]*models.EmailRecord, error) {
	var out []*models.EmailRecord
	for _, r := range f.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEmailRecords) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.EmailRecord, error) {
	return f.records, nil
}

func (f *fakeEmailRecords) AttachLinks(ctx context.Context, id string, applicationID, candidateID, jobID, clientID string) error {
	return nil
}

func (f *fakeEmailRecords) byStatus(status enum.EmailStatus) []*models.EmailRecord {
	out, _ := f.ListByStatus(context.Background(), status, 0)
	return out
}

type fakeApplications struct {
	applications []*models.Application
	createErr    error
}

func (f *fakeApplications) Create(ctx context.Context, application *models.Application) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if application.ID == "" {
		application.ID = utils.GenerateNanoIDWithPrefix("app", 16)
	}
	f.applications = append(f.applications, application)
	return application.ID, nil
}

func (f *fakeApplications) GetByID(ctx context.Context, id string) (*models.Application, error) {
	for _, a := range f.applications {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeApplications) GetBySourceMessageID(ctx context.Context, messageID string) (*models.Application, error) {
	for _, a := range f.applications {
		if a.SourceMessageID == messageID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeApplications) GetByEmailAndJob(ctx context.Context, email, jobID string) (*models.Application, error) {
	for _, a := range f.applications {
		if a.Email == email && a.JobID == jobID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeApplications) ListByStatus(ctx context.Context, status enum.ApplicationStatus, limit, offset int) ([]*models.Application, int64, error) {
	return f.applications, int64(len(f.applications)), nil
}

func (f *fakeApplications) ListBySource(ctx context.Context, source enum.ApplicationSource, limit, offset int) ([]*models.Application, int64, error) {
	return f.applications, int64(len(f.applications)), nil
}

func (f *fakeApplications) UpdateStatus(ctx context.Context, id string, status enum.ApplicationStatus) error {
	return nil
}

func (f *fakeApplications) Delete(ctx context.Context, id string) error { return nil }

type pollRecord struct {
	accountID string
	checkedAt time.Time
	lastEmail *time.Time
}

type fakeAccounts struct {
	accounts []*models.MailboxAccount
	polls    []pollRecord
}

func (f *fakeAccounts) Create(ctx context.Context, account *models.MailboxAccount) (string, error) {
	f.accounts = append(f.accounts, account)
	return account.ID, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id string) (*models.MailboxAccount, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) ListActive(ctx context.Context) ([]*models.MailboxAccount, error) {
	var out []*models.MailboxAccount
	for _, a := range f.accounts {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) RecordPoll(ctx context.Context, id string, checkedAt time.Time, lastEmail *time.Time) error {
	f.polls = append(f.polls, pollRecord{accountID: id, checkedAt: checkedAt, lastEmail: lastEmail})
	for _, a := range f.accounts {
		if a.ID == id {
			a.LastCheckedAt = &checkedAt
			if lastEmail != nil {
				a.LastEmailTimestamp = lastEmail
			}
		}
	}
	return nil
}

func (f *fakeAccounts) SetActive(ctx context.Context, id string, active bool) error {
	for _, a := range f.accounts {
		if a.ID == id {
			a.IsActive = active
		}
	}
	return nil
}

type fakeState struct {
	state *models.AutomationState
	saves int
}

func (f *fakeState) Get(ctx context.Context) (*models.AutomationState, error) {
	if f.state == nil {
		f.state = &models.AutomationState{ID: models.AutomationStateID, Enabled: true, IntervalMinutes: 5}
	}
	return f.state, nil
}

func (f *fakeState) Save(ctx context.Context, state *models.AutomationState) error {
	f.saves++
	f.state = state
	return nil
}

type fakeJobs struct {
	jobs []*models.Job
}

func (f *fakeJobs) Create(ctx context.Context, job *models.Job) (string, error) {
	f.jobs = append(f.jobs, job)
	return job.ID, nil
}

func (f *fakeJobs) GetByID(ctx context.Context, id string) (*models.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeJobs) ListMatchable(ctx context.Context) ([]*models.Job, error) {
	return f.jobs, nil
}

// ---- harness ----

type harness struct {
	orchestrator *Orchestrator
	mailbox      *fakeMailbox
	storage      *fakeStorage
	notifier     *fakeNotifier
	publisher    *fakePublisher
	emails       *fakeEmailRecords
	applications *fakeApplications
	accounts     *fakeAccounts
	state        *fakeState
	jobs         *fakeJobs
}

func newHarness() *harness {
	log := getLogger()
	h := &harness{
		mailbox:      &fakeMailbox{},
		storage:      &fakeStorage{},
		notifier:     &fakeNotifier{},
		publisher:    &fakePublisher{},
		emails:       &fakeEmailRecords{},
		applications: &fakeApplications{},
		accounts:     &fakeAccounts{},
		state:        &fakeState{},
		jobs:         &fakeJobs{},
	}

	pipeline := resume.NewPipeline(fakeParser{}, log, 1)
	jobMatcher := matcher.NewJobMatcher(h.jobs)
	ledger := NewDedupLedger(h.emails, h.applications)

	h.orchestrator = NewOrchestrator(
		NewAutomationController(),
		ledger,
		h.mailbox,
		pipeline,
		jobMatcher,
		h.storage,
		h.notifier,
		h.publisher,
		h.emails,
		h.applications,
		h.accounts,
		h.state,
		&config.IngestionConfig{DefaultLookbackDays: 7},
		log,
	)
	return h
}

func testAccount() *models.MailboxAccount {
	return &models.MailboxAccount{
		ID:                     "mbacc_test0001",
		Name:                   "Careers Inbox",
		EmailAddress:           "careers@example.com",
		ImapServer:             "imap.example.com",
		ImapPort:               993,
		IsActive:               true,
		AutoProcessAttachments: true,
	}
}

func submissionMessage() dto.InboundMessage {
	return dto.InboundMessage{
		UID:         42,
		MessageID:   "msg-001@mail.example.com",
		FromAddress: "jane.doe@example.com",
		FromName:    "Jane Doe",
		Subject:     "Application for Backend Engineer",
		BodyText:    "Please find my resume attached.",
		Timestamp:   time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Attachments: []dto.Attachment{
			{Filename: "jane_doe_resume.pdf", ContentType: "application/pdf", Content: []byte("%PDF"), Size: 4},
		},
	}
}

func openJob(id, title string, publishedAt time.Time) *models.Job {
	return &models.Job{ID: id, Title: title, Status: enum.JobOpen, PublishedAt: &publishedAt}
}

// ---- tests ----

func TestRunCycle_FullSubmission(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.jobs.jobs = append(h.jobs.jobs, openJob("job_backend0001", "Backend Engineer", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	msg := submissionMessage()
	h.mailbox.messages = []dto.InboundMessage{msg}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accounts)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Errors)

	require.Len(t, h.applications.applications, 1)
	application := h.applications.applications[0]
	assert.Equal(t, "Jane", application.FirstName)
	assert.Equal(t, "Doe", application.LastName)
	assert.Equal(t, "jane.doe@example.com", application.Email)
	assert.Equal(t, "job_backend0001", application.JobID)
	assert.Equal(t, enum.SourceEmail, application.Source)
	assert.Equal(t, msg.MessageID, application.SourceMessageID)
	assert.Equal(t, enum.ApplicationPending, application.Status)
	assert.Equal(t, strings.TrimSpace(resumeText), application.ResumeText)
	assert.NotEmpty(t, application.ResumeURL)

	processed := h.emails.byStatus(enum.EmailStatusProcessed)
	require.Len(t, processed, 1)
	assert.Equal(t, application.ID, processed[0].ApplicationID)
	assert.Equal(t, msg.MessageID, processed[0].ThreadID)
	assert.Equal(t, "job_backend0001", processed[0].JobID)

	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, application.ID, h.publisher.events[0].ApplicationID)
	assert.Equal(t, []string{"jane.doe@example.com"}, h.notifier.sent)

	// high-water mark advanced to the processed message
	require.Len(t, h.accounts.polls, 1)
	require.NotNil(t, h.accounts.polls[0].lastEmail)
	assert.Equal(t, msg.Timestamp, *h.accounts.polls[0].lastEmail)
}

func TestRunCycle_SeenMessageSkipped(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	h.mailbox.messages = []dto.InboundMessage{msg}
	_, err := h.emails.Create(context.Background(), &models.EmailRecord{MessageID: msg.MessageID, Status: enum.EmailStatusProcessed})
	require.NoError(t, err)

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, h.applications.applications)

	// nothing processed, high-water mark untouched
	require.Len(t, h.accounts.polls, 1)
	assert.Nil(t, h.accounts.polls[0].lastEmail)
}

func TestRunCycle_ReplyInheritsThread(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())

	_, err := h.emails.Create(context.Background(), &models.EmailRecord{
		MessageID:     "original@mail.example.com",
		ThreadID:      "original@mail.example.com",
		ApplicationID: "app_original0001",
		JobID:         "job_backend0001",
		Status:        enum.EmailStatusProcessed,
	})
	require.NoError(t, err)

	h.mailbox.messages = []dto.InboundMessage{{
		MessageID:   "reply@mail.example.com",
		InReplyTo:   "original@mail.example.com",
		FromAddress: "jane.doe@example.com",
		Subject:     "Re: Application for Backend Engineer",
		Timestamp:   time.Now().UTC(),
	}}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RepliesStored)

	received := h.emails.byStatus(enum.EmailStatusReceived)
	require.Len(t, received, 1)
	assert.Equal(t, "original@mail.example.com", received[0].ThreadID)
	assert.Equal(t, "app_original0001", received[0].ApplicationID)
	assert.Equal(t, "job_backend0001", received[0].JobID)
}

func TestRunCycle_ReplyWithUnknownReferencesMintsThread(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.mailbox.messages = []dto.InboundMessage{{
		MessageID:   "orphan-reply@mail.example.com",
		InReplyTo:   "never-seen@mail.example.com",
		FromAddress: "jane.doe@example.com",
		Subject:     "Re: Application",
		Timestamp:   time.Now().UTC(),
	}}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RepliesStored)

	received := h.emails.byStatus(enum.EmailStatusReceived)
	require.Len(t, received, 1)
	assert.Equal(t, "orphan-reply@mail.example.com", received[0].ThreadID)
	assert.Empty(t, received[0].ApplicationID)
}

func TestRunCycle_NoAttachmentsRecordsFailure(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	msg.Attachments = nil
	h.mailbox.messages = []dto.InboundMessage{msg}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, h.applications.applications)

	failed := h.emails.byStatus(enum.EmailStatusFailed)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ErrorMessage, "no attachments")
}

func TestRunCycle_NoResumeAttachmentRecordsFailure(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	msg.Attachments = []dto.Attachment{{Filename: "photo.png", ContentType: "image/png"}}
	h.mailbox.messages = []dto.InboundMessage{msg}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)

	failed := h.emails.byStatus(enum.EmailStatusFailed)
	require.Len(t, failed, 1)
}

func TestRunCycle_DuplicateSenderSkipped(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.jobs.jobs = append(h.jobs.jobs, openJob("job_backend0001", "Backend Engineer", time.Now().Add(-time.Hour)))
	h.applications.applications = append(h.applications.applications, &models.Application{
		ID:    "app_existing0001",
		Email: "jane.doe@example.com",
		JobID: "job_backend0001",
	})
	h.mailbox.messages = []dto.InboundMessage{submissionMessage()}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Created)
	assert.Len(t, h.applications.applications, 1)
}

func TestRunCycle_DuplicateSourceMessageSkipped(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	h.applications.applications = append(h.applications.applications, &models.Application{
		ID:              "app_existing0001",
		Email:           "someone.else@example.com",
		SourceMessageID: msg.MessageID,
	})
	h.mailbox.messages = []dto.InboundMessage{msg}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, h.applications.applications, 1)
}

func TestRunCycle_VideoAttachmentBeatsLink(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	msg.BodyText += "\nMy intro: https://www.loom.com/share/abc123def456"
	msg.Attachments = append(msg.Attachments, dto.Attachment{Filename: "intro.mp4", ContentType: "video/mp4", Content: []byte("vid")})
	h.mailbox.messages = []dto.InboundMessage{msg}

	_, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, h.applications.applications, 1)
	application := h.applications.applications[0]
	assert.Equal(t, enum.VideoFromAttachment, application.VideoOrigin)
	assert.Contains(t, application.VideoURL, "intro.mp4")
	assert.Equal(t, enum.VideoIntroduction, application.VideoKind)
}

func TestRunCycle_VideoLinkWhenNoAttachment(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	msg.BodyText += "\nMy intro: https://www.loom.com/share/abc123def456"
	h.mailbox.messages = []dto.InboundMessage{msg}

	_, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, h.applications.applications, 1)
	application := h.applications.applications[0]
	assert.Equal(t, enum.VideoFromLink, application.VideoOrigin)
	assert.Equal(t, "https://www.loom.com/share/abc123def456", application.VideoURL)
}

func TestRunCycle_VideoUploadFailureKeepsApplication(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.storage.videoFails = true
	msg := submissionMessage()
	msg.Attachments = append(msg.Attachments, dto.Attachment{Filename: "intro.mp4", ContentType: "video/mp4", Content: []byte("vid")})
	h.mailbox.messages = []dto.InboundMessage{msg}

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	require.Len(t, h.applications.applications, 1)
	assert.Empty(t, h.applications.applications[0].VideoURL)
}

func TestRunCycle_DedupCheckErrorDefersMessage(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.mailbox.messages = []dto.InboundMessage{submissionMessage()}
	h.emails.getByMessageIDErr = errors.New("connection reset")

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, h.emails.records)
	assert.Empty(t, h.applications.applications)

	// No record exists for the message, so the high-water mark must stay
	// behind it; the next cycle refetches and retries.
	require.Len(t, h.accounts.polls, 1)
	assert.Nil(t, h.accounts.polls[0].lastEmail)
}

func TestRunCycle_UnrecordableFailureDefersMessage(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	msg := submissionMessage()
	msg.Attachments = nil
	h.mailbox.messages = []dto.InboundMessage{msg}
	h.emails.createErr = errors.New("insert failed")

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, h.emails.records)

	require.Len(t, h.accounts.polls, 1)
	assert.Nil(t, h.accounts.polls[0].lastEmail)
}

func TestRunCycle_DeferredMessageHoldsBackWholeBatch(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())

	broken := submissionMessage()
	later := submissionMessage()
	later.MessageID = "msg-002@mail.example.com"
	later.FromAddress = "john.smith@example.com"
	later.Timestamp = broken.Timestamp.Add(time.Hour)
	later.InReplyTo = "never-seen@mail.example.com"
	h.mailbox.messages = []dto.InboundMessage{broken, later}

	// First message fails its dedup check, second stores fine as a reply.
	h.emails.getByMessageIDErrOn = broken.MessageID

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.RepliesStored)

	// The stored reply must not drag the mark past the deferred message.
	require.Len(t, h.accounts.polls, 1)
	assert.Nil(t, h.accounts.polls[0].lastEmail)
}

func TestRunCycle_MutualExclusion(t *testing.T) {
	h := newHarness()
	require.True(t, h.orchestrator.controller.TryBegin())

	_, err := h.orchestrator.RunCycle(context.Background())
	assert.True(t, errors.Is(err, ingestionerrors.ErrIngestionRunning))
	assert.Equal(t, 0, h.state.saves)
}

func TestRunCycle_CountersPersistedOnAccountFailure(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.mailbox.fetchErr = errors.New("connection refused")

	result, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)

	assert.Equal(t, 1, h.state.saves)
	assert.Equal(t, int64(1), h.state.state.Errors)
	assert.NotNil(t, h.state.state.LastRunAt)
}

func TestRunCycle_CountersAccumulateAcrossCycles(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())
	h.mailbox.messages = []dto.InboundMessage{submissionMessage()}

	_, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)

	// Second cycle refetches the same message; dedup turns it into a skip.
	_, err = h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), h.state.state.Processed)
	assert.Equal(t, int64(1), h.state.state.Created)
	assert.Equal(t, int64(1), h.state.state.Skipped)
	assert.Equal(t, 2, h.state.saves)
}

func TestRunCycle_LookbackFilterForFreshAccount(t *testing.T) {
	h := newHarness()
	h.accounts.accounts = append(h.accounts.accounts, testAccount())

	_, err := h.orchestrator.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, h.mailbox.filters, 1)
	filter := h.mailbox.filters[0]
	assert.Equal(t, dto.SearchSince, filter.Mode)
	assert.WithinDuration(t, time.Now().Add(-7*24*time.Hour), filter.Since, time.Minute)
}

func TestTrigger_Disabled(t *testing.T) {
	h := newHarness()
	state, err := h.state.Get(context.Background())
	require.NoError(t, err)
	state.Enabled = false

	_, err = h.orchestrator.Trigger(context.Background())
	assert.True(t, errors.Is(err, ingestionerrors.ErrIngestionDisabled))
}

func TestSetInterval_Bounds(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	assert.True(t, errors.Is(h.orchestrator.SetInterval(ctx, 0), ingestionerrors.ErrIntervalOutOfRange))
	assert.True(t, errors.Is(h.orchestrator.SetInterval(ctx, 61), ingestionerrors.ErrIntervalOutOfRange))

	require.NoError(t, h.orchestrator.SetInterval(ctx, 15))
	assert.Equal(t, 15, h.state.state.IntervalMinutes)
}

func TestBackfill_NeverAdvancesHighWaterMark(t *testing.T) {
	h := newHarness()
	account := testAccount()
	h.accounts.accounts = append(h.accounts.accounts, account)
	h.mailbox.messages = []dto.InboundMessage{submissionMessage()}

	result, err := h.orchestrator.Backfill(context.Background(), dto.BackfillRequest{
		AccountID: account.ID,
		From:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	require.Len(t, h.accounts.polls, 1)
	assert.Nil(t, h.accounts.polls[0].lastEmail)
	assert.Nil(t, account.LastEmailTimestamp)
}

func TestBackfill_AccountNotFound(t *testing.T) {
	h := newHarness()

	_, err := h.orchestrator.Backfill(context.Background(), dto.BackfillRequest{AccountID: "mbacc_missing"})
	assert.True(t, errors.Is(err, ingestionerrors.ErrAccountNotFound))
}

func TestBackfill_InactiveAccount(t *testing.T) {
	h := newHarness()
	account := testAccount()
	account.IsActive = false
	h.accounts.accounts = append(h.accounts.accounts, account)

	_, err := h.orchestrator.Backfill(context.Background(), dto.BackfillRequest{AccountID: account.ID})
	assert.True(t, errors.Is(err, ingestionerrors.ErrAccountInactive))
}

func TestStatus_ReflectsStateAndController(t *testing.T) {
	h := newHarness()
	state, err := h.state.Get(context.Background())
	require.NoError(t, err)
	state.Processed = 12
	state.Created = 4
	state.IntervalMinutes = 10

	status, err := h.orchestrator.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.False(t, status.Running)
	assert.Equal(t, 10, status.IntervalMinutes)
	assert.Equal(t, int64(12), status.Processed)
	assert.Equal(t, int64(4), status.Created)

	require.True(t, h.orchestrator.controller.TryBegin())
	status, err = h.orchestrator.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Running)
}
