package resume

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
)

var longText = strings.Repeat("Seasoned backend engineer with Go and Postgres experience. ", 5)

type fakeParser struct {
	extractText  string
	extractErr   error
	parseErr     error
	parseFailN   int
	parseCalls   int
	parsed       *dto.ParsedResume
	validation   *dto.ResumeValidation
	validateErr  error
	extractCalls int
}

func (f *fakeParser) ExtractText(ctx context.Context, content []byte, fileType string) (string, error) {
	f.extractCalls++
	return f.extractText, f.extractErr
}

func (f *fakeParser) Parse(ctx context.Context, text string) (*dto.ParsedResume, error) {
	f.parseCalls++
	if f.parseErr != nil && (f.parseFailN == 0 || f.parseCalls <= f.parseFailN) {
		return nil, f.parseErr
	}
	if f.parsed != nil {
		return f.parsed, nil
	}
	return &dto.ParsedResume{FirstName: "Jane", LastName: "Doe"}, nil
}

func (f *fakeParser) Validate(ctx context.Context, text string) (*dto.ResumeValidation, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.validation != nil {
		return f.validation, nil
	}
	return &dto.ResumeValidation{IsValid: true, Score: 0.9}, nil
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()
	return appLogger
}

func testPipeline(parser *fakeParser) *Pipeline {
	return NewPipeline(parser, getLogger(), 3)
}

func testAttachment() dto.Attachment {
	return dto.Attachment{Filename: "resume.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4"), Size: 8}
}

func TestProcess_Success(t *testing.T) {
	parser := &fakeParser{
		extractText: longText,
		parsed:      &dto.ParsedResume{FirstName: "Jane", LastName: "Doe", Skills: []string{"Go"}},
		validation:  &dto.ResumeValidation{IsValid: true, Score: 0.87, Reason: "looks like a resume"},
	}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Jane", result.Parsed.FirstName)
	assert.Equal(t, enum.ResumeValid, result.Validity)
	assert.Equal(t, 0.87, result.Score)
}

func TestProcess_ExtractionFailureAborts(t *testing.T) {
	parser := &fakeParser{extractErr: errors.New("corrupt document")}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, parser.parseCalls)
}

func TestProcess_ShortTextAborts(t *testing.T) {
	parser := &fakeParser{extractText: "John Doe\njohn@example.com"}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingestionerrors.ErrResumeTextTooShort))
	assert.Nil(t, result)
	assert.Equal(t, 0, parser.parseCalls)
}

func TestProcess_ParseRetriesThenSucceeds(t *testing.T) {
	parser := &fakeParser{
		extractText: longText,
		parseErr:    errors.New("service unavailable"),
		parseFailN:  2,
	}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, parser.parseCalls)
}

func TestProcess_ParseRetriesExhausted(t *testing.T) {
	parser := &fakeParser{
		extractText: longText,
		parseErr:    errors.New("service unavailable"),
	}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingestionerrors.ErrParseRetriesExhausted))
	assert.Nil(t, result)
	assert.Equal(t, 3, parser.parseCalls)
}

func TestProcess_ValidationFailureIsAdvisory(t *testing.T) {
	parser := &fakeParser{
		extractText: longText,
		validateErr: errors.New("scoring service down"),
	}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, enum.ResumeUnknown, result.Validity)
}

func TestProcess_InvalidResumeStillReturned(t *testing.T) {
	parser := &fakeParser{
		extractText: longText,
		validation:  &dto.ResumeValidation{IsValid: false, Score: 0.12, Reason: "reads like a cover letter"},
	}

	result, err := testPipeline(parser).Process(context.Background(), testAttachment())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, enum.ResumeInvalid, result.Validity)
	assert.Equal(t, "reads like a cover letter", result.Reason)
}
