package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
)

// ResumeParser is the remote text-extraction, structured-parsing and
// validity-scoring collaborator. All calls are synchronous and may fail
// transiently; retry policy belongs to the caller.
type ResumeParser interface {
	ExtractText(ctx context.Context, content []byte, fileType string) (string, error)
	Parse(ctx context.Context, text string) (*dto.ParsedResume, error)
	Validate(ctx context.Context, text string) (*dto.ResumeValidation, error)
}
