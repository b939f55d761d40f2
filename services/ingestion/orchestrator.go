package ingestion

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/classifier"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/extractor"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/matcher"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/resume"
)

// Orchestrator runs the poll cycle state machine: per account, per message,
// dedup then classify then branch into reply storage or submission
// processing. Accounts and messages are processed sequentially; the
// AutomationController is the sole concurrency guard.
type Orchestrator struct {
	controller *AutomationController
	ledger     *DedupLedger

	mailboxClient             interfaces.MailboxClient
	pipeline                  *resume.Pipeline
	jobMatcher                *matcher.JobMatcher
	storageService            interfaces.StorageService
	notifier                  interfaces.Notifier
	eventPublisher            interfaces.EventPublisher
	emailRecordRepository     interfaces.EmailRecordRepository
	applicationRepository     interfaces.ApplicationRepository
	mailboxAccountRepository  interfaces.MailboxAccountRepository
	automationStateRepository interfaces.AutomationStateRepository

	ingestionConfig *config.IngestionConfig
	log             logger.Logger
}

func NewOrchestrator(
	controller *AutomationController,
	ledger *DedupLedger,
	mailboxClient interfaces.MailboxClient,
	pipeline *resume.Pipeline,
	jobMatcher *matcher.JobMatcher,
	storageService interfaces.StorageService,
	notifier interfaces.Notifier,
	eventPublisher interfaces.EventPublisher,
	emailRecordRepository interfaces.EmailRecordRepository,
	applicationRepository interfaces.ApplicationRepository,
	mailboxAccountRepository interfaces.MailboxAccountRepository,
	automationStateRepository interfaces.AutomationStateRepository,
	ingestionConfig *config.IngestionConfig,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		controller:                controller,
		ledger:                    ledger,
		mailboxClient:             mailboxClient,
		pipeline:                  pipeline,
		jobMatcher:                jobMatcher,
		storageService:            storageService,
		notifier:                  notifier,
		eventPublisher:            eventPublisher,
		emailRecordRepository:     emailRecordRepository,
		applicationRepository:     applicationRepository,
		mailboxAccountRepository:  mailboxAccountRepository,
		automationStateRepository: automationStateRepository,
		ingestionConfig:           ingestionConfig,
		log:                       log,
	}
}

// RunCycle executes one poll cycle over all active accounts. A cycle already
// in progress makes this a no-op returning ErrIngestionRunning. State and
// counters are persisted on every exit path.
func (o *Orchestrator) RunCycle(ctx context.Context) (*dto.CycleResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.RunCycle")
	defer span.Finish()
	tracing.TagComponentService(span)

	if !o.controller.TryBegin() {
		o.log.Info("poll cycle already running, skipping")
		return nil, ingestionerrors.ErrIngestionRunning
	}

	startedAt := utils.Now()
	result := &dto.CycleResult{}

	state, err := o.automationStateRepository.Get(ctx)
	if err != nil {
		o.controller.End(startedAt)
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Guaranteed cleanup: counters and run metadata persist even when an
	// account blows up mid-cycle.
	defer func() {
		o.controller.End(startedAt)
		result.Duration = time.Since(startedAt)

		state.LastRunAt = utils.Ptr(startedAt)
		state.LastRunDuration = result.Duration
		state.Processed += int64(result.Processed)
		state.Created += int64(result.Created)
		state.RepliesStored += int64(result.RepliesStored)
		state.Skipped += int64(result.Skipped)
		state.Errors += int64(result.Errors)

		if err := o.automationStateRepository.Save(ctx, state); err != nil {
			o.log.Errorf("failed to persist automation state: %v", err)
		}
	}()

	accounts, err := o.mailboxAccountRepository.ListActive(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return result, err
	}
	result.Accounts = len(accounts)
	span.SetTag("accounts", len(accounts))

	for _, account := range accounts {
		if err := o.processAccount(ctx, account, result); err != nil {
			// Fatal for this account only; the cycle continues.
			o.log.Errorf("[%s] account poll failed: %v", account.ID, err)
			result.Errors++
		}
	}

	o.log.Infof("poll cycle done: %d processed, %d created, %d replies, %d skipped, %d errors",
		result.Processed, result.Created, result.RepliesStored, result.Skipped, result.Errors)

	return result, nil
}

// processAccount fetches messages since the account's high-water mark and
// runs each through the per-message state machine. The high-water mark only
// advances when at least one new message was processed.
func (o *Orchestrator) processAccount(ctx context.Context, account *models.MailboxAccount, result *dto.CycleResult) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.processAccount")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)

	filter := o.incrementalFilter(account)

	messages, err := o.mailboxClient.FetchMessages(ctx, account, filter)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	span.SetTag("fetched", len(messages))

	var latestProcessed *time.Time
	processedAny := false

	deferredAny := false
	for i := range messages {
		switch o.processMessage(ctx, account, &messages[i], result) {
		case outcomeSkipped:
			// Has a record already; nothing to advance.
		case outcomeDeferred:
			deferredAny = true
		default:
			processedAny = true
			ts := messages[i].Timestamp
			if latestProcessed == nil || ts.After(*latestProcessed) {
				latestProcessed = utils.Ptr(ts)
			}
		}
	}

	checkedAt := utils.Now()
	// A deferred message has no record; advancing the mark would put it
	// permanently out of reach, so the whole batch is refetched next cycle.
	if !processedAny || deferredAny {
		latestProcessed = nil
	}
	if err := o.mailboxAccountRepository.RecordPoll(ctx, account.ID, checkedAt, latestProcessed); err != nil {
		tracing.TraceErr(span, err)
		o.log.Errorf("[%s] failed to record poll: %v", account.ID, err)
	}

	return nil
}

func (o *Orchestrator) incrementalFilter(account *models.MailboxAccount) dto.SearchFilter {
	if account.LastEmailTimestamp != nil {
		return dto.SearchFilter{
			Mode:  dto.SearchSince,
			Since: *account.LastEmailTimestamp,
		}
	}
	lookback := time.Duration(o.ingestionConfig.DefaultLookbackDays) * 24 * time.Hour
	return dto.SearchFilter{
		Mode:  dto.SearchSince,
		Since: utils.Now().Add(-lookback),
	}
}

type messageOutcome int

const (
	outcomeSkipped messageOutcome = iota
	outcomeReply
	outcomeCreated
	outcomeFailed
	// outcomeDeferred marks a message the cycle could not leave a record
	// for. The high-water mark must not advance past it, so the next poll
	// refetches and retries it.
	outcomeDeferred
)

// processMessage runs one message through dedup, classification and the
// matching branch. A processing failure is recorded against the message and
// never aborts the batch.
func (o *Orchestrator) processMessage(ctx context.Context, account *models.MailboxAccount, msg *dto.InboundMessage, result *dto.CycleResult) messageOutcome {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.processMessage")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	tracing.TagMessage(span, msg.MessageID)

	seen, err := o.ledger.SeenMessage(ctx, msg.MessageID)
	if err != nil {
		// The check itself failed, so the message may or may not have a
		// record. Writing a failure record here could duplicate an existing
		// one; defer instead and let the next cycle refetch.
		tracing.TraceErr(span, err)
		result.Errors++
		span.SetTag("outcome", "deferred")
		return outcomeDeferred
	}
	if seen {
		o.log.Debugf("[%s] message %s already processed, skipping", account.ID, msg.MessageID)
		result.Skipped++
		span.SetTag("outcome", "skipped")
		return outcomeSkipped
	}

	decision := classifier.ClassifyMessage(*msg)
	span.SetTag("is_reply", decision.IsReply)
	span.SetTag("rule", string(decision.Rule))

	if decision.IsReply {
		if err := o.storeReply(ctx, account, msg); err != nil {
			tracing.TraceErr(span, err)
			result.Errors++
			if o.recordFailure(ctx, account, msg, err) != nil {
				span.SetTag("outcome", "deferred")
				return outcomeDeferred
			}
			span.SetTag("outcome", "failed")
			return outcomeFailed
		}
		result.Processed++
		result.RepliesStored++
		span.SetTag("outcome", "reply")
		return outcomeReply
	}

	if err := o.processSubmission(ctx, account, msg); err != nil {
		if err == errDuplicateSubmission {
			result.Skipped++
			span.SetTag("outcome", "skipped")
			return outcomeSkipped
		}
		tracing.TraceErr(span, err)
		result.Errors++
		if o.recordFailure(ctx, account, msg, err) != nil {
			span.SetTag("outcome", "deferred")
			return outcomeDeferred
		}
		span.SetTag("outcome", "failed")
		return outcomeFailed
	}

	result.Processed++
	result.Created++
	span.SetTag("outcome", "created")
	return outcomeCreated
}

// storeReply links a reply to its original thread when the referenced
// messages are known, otherwise mints a new thread from the reply itself.
func (o *Orchestrator) storeReply(ctx context.Context, account *models.MailboxAccount, msg *dto.InboundMessage) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.storeReply")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	tracing.TagMessage(span, msg.MessageID)

	refs := make([]string, 0, len(msg.References)+1)
	if msg.InReplyTo != "" {
		refs = append(refs, msg.InReplyTo)
	}
	refs = append(refs, msg.References...)

	var original *models.EmailRecord
	if len(refs) > 0 {
		var err error
		original, err = o.emailRecordRepository.GetByAnyMessageID(ctx, refs)
		if err != nil {
			tracing.TraceErr(span, err)
			return err
		}
	}

	record := o.newEmailRecord(account, msg)
	record.Status = enum.EmailStatusReceived

	if original != nil {
		record.ThreadID = original.ThreadID
		record.ApplicationID = original.ApplicationID
		record.CandidateID = original.CandidateID
		record.JobID = original.JobID
		record.ClientID = original.ClientID
		span.SetTag("thread.resolved", true)
	} else {
		record.ThreadID = msg.MessageID
		span.SetTag("thread.resolved", false)
	}

	_, err := o.emailRecordRepository.Create(ctx, record)
	return err
}

// errDuplicateSubmission signals the second and third dedup checks; callers
// count it as a skip, not an error.
var errDuplicateSubmission = errors.New("duplicate submission")

// processSubmission runs the full submission branch: attachments, resume
// pipeline, video extraction, job matching, application creation and the
// fire-and-forget side effects.
func (o *Orchestrator) processSubmission(ctx context.Context, account *models.MailboxAccount, msg *dto.InboundMessage) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.processSubmission")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	tracing.TagMessage(span, msg.MessageID)

	hasApp, err := o.ledger.HasApplicationForMessage(ctx, msg.MessageID)
	if err != nil {
		return err
	}
	if hasApp {
		o.log.Debugf("[%s] application already exists for message %s", account.ID, msg.MessageID)
		return errDuplicateSubmission
	}

	if len(msg.Attachments) == 0 {
		return ingestionerrors.ErrNoAttachments
	}

	resumeAttachment := extractor.FindResumeAttachment(msg.Attachments)
	if resumeAttachment == nil {
		return ingestionerrors.ErrNoResumeAttachment
	}

	pipelineResult, err := o.pipeline.Process(ctx, *resumeAttachment)
	if err != nil {
		return err
	}

	job, err := o.jobMatcher.Match(ctx, msg.Subject, msg.BodyText, msg.Timestamp)
	if err != nil {
		return err
	}
	jobID := ""
	jobTitle := ""
	if job != nil {
		jobID = job.ID
		jobTitle = job.Title
	}

	duplicate, err := o.ledger.HasApplicationForSender(ctx, msg.FromAddress, jobID)
	if err != nil {
		return err
	}
	if duplicate {
		o.log.Debugf("[%s] sender %s already applied to job %q", account.ID, msg.FromAddress, jobID)
		return errDuplicateSubmission
	}

	resumeURL, err := o.storageService.UploadDocument(ctx, resumeAttachment.Content, resumeAttachment.Filename)
	if err != nil {
		return err
	}

	application := o.buildApplication(account, msg, pipelineResult, jobID, resumeURL)
	o.attachVideo(ctx, account, msg, application)

	applicationID, err := o.applicationRepository.Create(ctx, application)
	if err != nil {
		return err
	}
	span.SetTag("application.id", applicationID)

	record := o.newEmailRecord(account, msg)
	record.Status = enum.EmailStatusProcessed
	record.ThreadID = msg.MessageID
	record.ApplicationID = applicationID
	record.JobID = jobID
	if _, err := o.emailRecordRepository.Create(ctx, record); err != nil {
		return err
	}

	// Fire-and-forget side effects; failures are logged, never fatal.
	event := dto.ApplicationCreatedEvent{
		ApplicationID:   applicationID,
		Email:           application.Email,
		JobID:           jobID,
		SourceMessageID: msg.MessageID,
		CreatedAt:       utils.Now(),
	}
	if err := o.eventPublisher.PublishApplicationCreated(ctx, event); err != nil {
		o.log.Warnf("failed to publish application.created for %s: %v", applicationID, err)
	}
	if err := o.notifier.SendApplicationConfirmation(ctx, application.Email, application.FirstName, jobTitle); err != nil {
		o.log.Warnf("failed to send confirmation to %s: %v", application.Email, err)
	}

	return nil
}

func (o *Orchestrator) buildApplication(account *models.MailboxAccount, msg *dto.InboundMessage, pipelineResult *resume.Result, jobID, resumeURL string) *models.Application {
	firstName, lastName := utils.GuessNameFromAddress(msg.FromName, msg.FromAddress)

	application := &models.Application{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           msg.FromAddress,
		JobID:           jobID,
		ResumeURL:       resumeURL,
		ResumeText:      pipelineResult.Text,
		AIValidity:      pipelineResult.Validity,
		AIScore:         pipelineResult.Score,
		AIReason:        pipelineResult.Reason,
		Source:          enum.SourceEmail,
		SourceMessageID: msg.MessageID,
		Status:          account.DefaultApplicationStatus,
	}
	if application.Status == "" {
		application.Status = enum.ApplicationPending
	}

	// Structured parse output beats names guessed from the sender header.
	if parsed := pipelineResult.Parsed; parsed != nil {
		if parsed.FirstName != "" {
			application.FirstName = parsed.FirstName
		}
		if parsed.LastName != "" {
			application.LastName = parsed.LastName
		}
		application.Phone = parsed.Phone
		application.Parsed = models.JSONMap{
			"skills":     parsed.Skills,
			"experience": parsed.Experience,
			"education":  parsed.Education,
			"summary":    parsed.Summary,
		}
	}

	return application
}

// attachVideo resolves the submission's video: a video attachment beats any
// link found in the body; first match wins on both sides. Upload failures
// only cost the video reference, never the application.
func (o *Orchestrator) attachVideo(ctx context.Context, account *models.MailboxAccount, msg *dto.InboundMessage, application *models.Application) {
	if videoAttachment := extractor.FindVideoAttachment(msg.Attachments); videoAttachment != nil {
		if !account.AutoProcessAttachments {
			return
		}
		url, err := o.storageService.UploadVideo(ctx, videoAttachment.Content, videoAttachment.Filename)
		if err != nil {
			o.log.Warnf("failed to upload video %s: %v", videoAttachment.Filename, err)
			return
		}
		application.VideoURL = url
		application.VideoKind = extractor.ClassifyVideoKind(videoAttachment.Filename)
		application.VideoOrigin = enum.VideoFromAttachment
		return
	}

	links := extractor.ExtractVideoLinks(msg.BodyText, msg.BodyHTML)
	if len(links) > 0 {
		application.VideoURL = links[0]
		application.VideoKind = extractor.ClassifyVideoKind(links[0])
		application.VideoOrigin = enum.VideoFromLink
	}
}

// recordFailure stores a failed EmailRecord so the message is never refetched
// into the same error; the record doubles as the dedup entry. Returns an
// error when the record could not be written, in which case the caller must
// not advance the high-water mark past the message.
func (o *Orchestrator) recordFailure(ctx context.Context, account *models.MailboxAccount, msg *dto.InboundMessage, processingErr error) error {
	record := o.newEmailRecord(account, msg)
	record.Status = enum.EmailStatusFailed
	record.ErrorMessage = processingErr.Error()

	if _, err := o.emailRecordRepository.Create(ctx, record); err != nil {
		o.log.Errorf("[%s] failed to store failure record for %s: %v", account.ID, msg.MessageID, err)
		return err
	}
	return nil
}

func (o *Orchestrator) newEmailRecord(account *models.MailboxAccount, msg *dto.InboundMessage) *models.EmailRecord {
	return &models.EmailRecord{
		AccountID:    account.ID,
		Direction:    enum.EmailInbound,
		MessageID:    msg.MessageID,
		InReplyTo:    msg.InReplyTo,
		References:   pq.StringArray(msg.References),
		Subject:      msg.Subject,
		CleanSubject: utils.NormalizeSubject(msg.Subject),
		FromAddress:  msg.FromAddress,
		FromName:     msg.FromName,
		ToAddresses:  pq.StringArray(msg.ToAddresses),
		BodyText:     msg.BodyText,
		BodyHTML:     msg.BodyHTML,
		ReceivedAt:   utils.Ptr(msg.Timestamp),
	}
}
