package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

// parserService talks to the remote resume-parsing service over HTTP. All
// calls are synchronous; retries belong to the pipeline, not here.
type parserService struct {
	config     *config.ParserConfig
	httpClient *http.Client
}

func NewParserService(cfg *config.ParserConfig) interfaces.ResumeParser {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &parserService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *parserService) ExtractText(ctx context.Context, content []byte, fileType string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "parserService.ExtractText")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("file_type", fileType)
	span.SetTag("content_size", len(content))

	request := dto.ExtractTextRequest{
		Content:  content,
		FileType: fileType,
	}

	var response dto.ExtractTextResponse
	if err := s.post(ctx, "/v1/extract-text", request, &response); err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	span.SetTag("text_length", len(response.Text))
	return response.Text, nil
}

func (s *parserService) Parse(ctx context.Context, text string) (*dto.ParsedResume, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "parserService.Parse")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("text_length", len(text))

	request := dto.ParseResumeRequest{Text: text}

	var response dto.ParsedResume
	if err := s.post(ctx, "/v1/parse-resume", request, &response); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &response, nil
}

func (s *parserService) Validate(ctx context.Context, text string) (*dto.ResumeValidation, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "parserService.Validate")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("text_length", len(text))

	request := dto.ValidateResumeRequest{Text: text}

	var response dto.ResumeValidation
	if err := s.post(ctx, "/v1/validate-resume", request, &response); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &response, nil
}

func (s *parserService) post(ctx context.Context, path string, request, response interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Url+path, bytes.NewBuffer(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	if s.config.ApiKey != "" {
		req.Header.Set("X-API-KEY", s.config.ApiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}

	return nil
}
