package resume

import (
	"context"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// MinResumeTextLength is the shortest extracted text accepted as a usable
// resume. Anything shorter fails the submission rather than producing a
// corrupted record.
const MinResumeTextLength = 100

const defaultParseAttempts = 3

// Result is the outcome of a full pipeline run over one attachment.
type Result struct {
	Text     string
	Parsed   *dto.ParsedResume
	Validity enum.ResumeValidity
	Score    float64
	Reason   string
}

type Pipeline struct {
	parser      interfaces.ResumeParser
	log         logger.Logger
	maxAttempts int
}

func NewPipeline(parser interfaces.ResumeParser, log logger.Logger, maxAttempts int) *Pipeline {
	if maxAttempts <= 0 {
		maxAttempts = defaultParseAttempts
	}
	return &Pipeline{
		parser:      parser,
		log:         log,
		maxAttempts: maxAttempts,
	}
}

// Process extracts, parses and scores a resume attachment.
// Extraction failure or short text aborts the submission. Parsing retries
// with exponential backoff and aborts when exhausted. Validity scoring is
// advisory: on failure the result carries validity unknown.
func (p *Pipeline) Process(ctx context.Context, attachment dto.Attachment) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Pipeline.Process")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("filename", attachment.Filename)
	span.SetTag("size", attachment.Size)

	fileType := utils.FileExtension(attachment.Filename)
	if fileType == "" {
		fileType = utils.GetFileExtensionFromContentType(attachment.ContentType)
	}

	text, err := p.parser.ExtractText(ctx, attachment.Content, fileType)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "text extraction failed")
	}

	text = strings.TrimSpace(text)
	if len(text) < MinResumeTextLength {
		tracing.TraceErr(span, ingestionerrors.ErrResumeTextTooShort)
		span.SetTag("text_length", len(text))
		return nil, ingestionerrors.ErrResumeTextTooShort
	}

	parsed, err := p.parseWithRetries(ctx, text)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	result := &Result{
		Text:     text,
		Parsed:   parsed,
		Validity: enum.ResumeUnknown,
	}

	validation, err := p.parser.Validate(ctx, text)
	if err != nil {
		// Advisory only: record unknown and move on.
		p.log.Warnf("resume validity scoring failed: %v", err)
		span.SetTag("validity", "unknown")
		return result, nil
	}

	if validation.IsValid {
		result.Validity = enum.ResumeValid
	} else {
		result.Validity = enum.ResumeInvalid
	}
	result.Score = validation.Score
	result.Reason = validation.Reason
	span.SetTag("validity", string(result.Validity))

	return result, nil
}

func (p *Pipeline) parseWithRetries(ctx context.Context, text string) (*dto.ParsedResume, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Pipeline.parseWithRetries")
	defer span.Finish()
	tracing.TagComponentService(span)

	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		parsed, err := p.parser.Parse(ctx, text)
		if err == nil {
			span.SetTag("attempts", attempt)
			return parsed, nil
		}
		lastErr = err
		p.log.Warnf("resume parse attempt %d/%d failed: %v", attempt, p.maxAttempts, err)

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}

	span.SetTag("attempts", p.maxAttempts)
	return nil, errors.Wrapf(ingestionerrors.ErrParseRetriesExhausted, "last error: %v", lastErr)
}
