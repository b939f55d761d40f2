package ingestion

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

const (
	minIntervalMinutes = 1
	maxIntervalMinutes = 60
)

// Trigger starts a cycle on demand. Returns ErrIngestionRunning when one is
// already in progress and ErrIngestionDisabled when ingestion is switched
// off.
func (o *Orchestrator) Trigger(ctx context.Context) (*dto.CycleResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.Trigger")
	defer span.Finish()
	tracing.TagComponentService(span)

	state, err := o.automationStateRepository.Get(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if !state.Enabled {
		return nil, ingestionerrors.ErrIngestionDisabled
	}

	return o.RunCycle(ctx)
}

// Backfill fetches a date range for one account and runs every message
// through the regular per-message path. Dedup makes re-covering an already
// polled range harmless.
func (o *Orchestrator) Backfill(ctx context.Context, request dto.BackfillRequest) (*dto.CycleResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.Backfill")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagAccount(span, request.AccountID)

	account, err := o.mailboxAccountRepository.GetByID(ctx, request.AccountID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if account == nil {
		return nil, ingestionerrors.ErrAccountNotFound
	}
	if !account.IsActive {
		return nil, ingestionerrors.ErrAccountInactive
	}

	if !o.controller.TryBegin() {
		return nil, ingestionerrors.ErrIngestionRunning
	}

	startedAt := utils.Now()
	result := &dto.CycleResult{Accounts: 1}
	defer func() {
		o.controller.End(startedAt)
		result.Duration = utils.Now().Sub(startedAt)
	}()

	filter := dto.SearchFilter{
		Mode:   dto.SearchSince,
		Since:  request.From,
		Before: request.To,
	}

	messages, err := o.mailboxClient.FetchMessages(ctx, account, filter)
	if err != nil {
		tracing.TraceErr(span, err)
		return result, err
	}
	span.SetTag("fetched", len(messages))

	for i := range messages {
		o.processMessage(ctx, account, &messages[i], result)
	}

	// Backfill records the poll attempt but never advances the high-water
	// mark; it must not disturb regular incremental polling.
	if err := o.mailboxAccountRepository.RecordPoll(ctx, account.ID, utils.Now(), nil); err != nil {
		o.log.Errorf("[%s] failed to record backfill poll: %v", account.ID, err)
	}

	return result, nil
}

// Status merges the persisted automation state with the in-memory running
// flag.
func (o *Orchestrator) Status(ctx context.Context) (*dto.IngestionStatus, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.Status")
	defer span.Finish()
	tracing.TagComponentService(span)

	state, err := o.automationStateRepository.Get(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &dto.IngestionStatus{
		Enabled:         state.Enabled,
		Running:         o.controller.IsRunning(),
		IntervalMinutes: state.IntervalMinutes,
		LastRunAt:       state.LastRunAt,
		LastRunDuration: state.LastRunDuration,
		Processed:       state.Processed,
		Created:         state.Created,
		RepliesStored:   state.RepliesStored,
		Skipped:         state.Skipped,
		Errors:          state.Errors,
	}, nil
}

// SetEnabled flips the persisted enabled flag; the change takes effect on the
// next scheduled tick, never mid-cycle.
func (o *Orchestrator) SetEnabled(ctx context.Context, enabled bool) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.SetEnabled")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("enabled", enabled)

	state, err := o.automationStateRepository.Get(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	state.Enabled = enabled
	return o.automationStateRepository.Save(ctx, state)
}

// SetInterval updates the polling interval. Valid range 1..60 minutes;
// effective from the next scheduled tick.
func (o *Orchestrator) SetInterval(ctx context.Context, minutes int) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.SetInterval")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("minutes", minutes)

	if minutes < minIntervalMinutes || minutes > maxIntervalMinutes {
		return ingestionerrors.ErrIntervalOutOfRange
	}

	state, err := o.automationStateRepository.Get(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	state.IntervalMinutes = minutes
	return o.automationStateRepository.Save(ctx, state)
}
