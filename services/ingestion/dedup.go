package ingestion

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

// DedupLedger layers the three idempotency checks that keep reprocessing and
// overlapping runs from producing duplicate records.
type DedupLedger struct {
	emailRecordRepository interfaces.EmailRecordRepository
	applicationRepository interfaces.ApplicationRepository
}

func NewDedupLedger(
	emailRecordRepository interfaces.EmailRecordRepository,
	applicationRepository interfaces.ApplicationRepository,
) *DedupLedger {
	return &DedupLedger{
		emailRecordRepository: emailRecordRepository,
		applicationRepository: applicationRepository,
	}
}

// SeenMessage reports whether an EmailRecord already exists for the message
// ID. First check: runs before any side effect.
func (d *DedupLedger) SeenMessage(ctx context.Context, messageID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DedupLedger.SeenMessage")
	defer span.Finish()
	tracing.TagMessage(span, messageID)

	record, err := d.emailRecordRepository.GetByMessageID(ctx, messageID)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return record != nil, nil
}

// HasApplicationForMessage reports whether an Application was already derived
// from the message. Second check: closes the window where a concurrent cycle
// created the application after the first check passed.
func (d *DedupLedger) HasApplicationForMessage(ctx context.Context, messageID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DedupLedger.HasApplicationForMessage")
	defer span.Finish()
	tracing.TagMessage(span, messageID)

	application, err := d.applicationRepository.GetBySourceMessageID(ctx, messageID)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return application != nil, nil
}

// HasApplicationForSender reports whether the sender already applied to the
// same job (or with no job assignment when jobID is empty). Third check:
// catches resubmission under a fresh message ID, e.g. a forwarded duplicate.
func (d *DedupLedger) HasApplicationForSender(ctx context.Context, email, jobID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DedupLedger.HasApplicationForSender")
	defer span.Finish()
	span.SetTag("email", email)
	span.SetTag("job_id", jobID)

	application, err := d.applicationRepository.GetByEmailAndJob(ctx, email, jobID)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return application != nil, nil
}
