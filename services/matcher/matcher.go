package matcher

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

const (
	minTitleLength = 3
	maxTitleLength = 100
)

// explicitJobIDPattern finds tokens following "job id", "job ref", "job #"
// and similar. Token length 10..30 keeps short words and prose fragments out.
var explicitJobIDPattern = regexp.MustCompile(`(?i)job[\s_-]*(?:id|ref(?:erence)?|#)[:\s#]*([A-Za-z0-9_-]{10,30})`)

// titlePatterns is ordered; the first pattern that yields a usable title
// wins.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)application\s+for\s+(?:the\s+)?(?:position\s+of\s+)?(.+)`),
	regexp.MustCompile(`(?i)applying\s+(?:to|for)\s+(?:the\s+)?(.+)`),
	regexp.MustCompile(`(?i)interested\s+in\s+(?:the\s+)?(.+?)(?:\s+(?:position|role|opening))?$`),
	regexp.MustCompile(`(?i)position\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)(?:candidate|applicant)\s+for\s+(.+)`),
	regexp.MustCompile(`(?i)re(?:garding)?\s*:?\s*(.+?)\s+(?:position|role|opening|vacancy)`),
}

type JobMatcher struct {
	jobRepository interfaces.JobRepository
}

func NewJobMatcher(jobRepository interfaces.JobRepository) *JobMatcher {
	return &JobMatcher{
		jobRepository: jobRepository,
	}
}

// Match resolves which job a submission targets. An explicit job reference
// wins when it resolves to an existing job; otherwise title heuristics run
// against matchable jobs with a temporal tie-break. Returns nil when nothing
// matches, leaving the submission unassigned.
func (m *JobMatcher) Match(ctx context.Context, subject, body string, receivedAt time.Time) (*models.Job, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "JobMatcher.Match")
	defer span.Finish()
	tracing.TagComponentService(span)

	if jobID := extractExplicitJobID(subject + "\n" + body); jobID != "" {
		span.SetTag("explicit_job_id", jobID)
		job, err := m.jobRepository.GetByID(ctx, jobID)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		if job != nil {
			span.SetTag("matched_by", "explicit_id")
			return job, nil
		}
		// Non-resolving reference falls through to title matching.
	}

	title := ExtractJobTitle(subject, body)
	if title == "" {
		span.SetTag("matched_by", "none")
		return nil, nil
	}
	span.SetTag("candidate_title", title)

	jobs, err := m.jobRepository.ListMatchable(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	var matches []*models.Job
	for _, job := range jobs {
		if titlesMatch(job.Title, title) {
			matches = append(matches, job)
		}
	}

	if len(matches) == 0 {
		span.SetTag("matched_by", "none")
		return nil, nil
	}

	span.SetTag("matched_by", "title")
	span.SetTag("title_matches", len(matches))
	return pickByTimestamp(matches, receivedAt), nil
}

func extractExplicitJobID(text string) string {
	match := explicitJobIDPattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// ExtractJobTitle pulls a candidate job title from the subject, falling back
// to the first lines of the body. Pure function; ordered patterns, first
// usable hit wins.
func ExtractJobTitle(subject, body string) string {
	sources := []string{utils.NormalizeSubject(subject)}
	for i, line := range strings.Split(body, "\n") {
		if i >= 5 {
			break
		}
		sources = append(sources, line)
	}

	for _, pattern := range titlePatterns {
		for _, source := range sources {
			match := pattern.FindStringSubmatch(source)
			if len(match) < 2 {
				continue
			}
			title := normalizeTitle(match[1])
			if len(title) >= minTitleLength && len(title) <= maxTitleLength {
				return title
			}
		}
	}
	return ""
}

func normalizeTitle(title string) string {
	title = utils.CollapseWhitespace(title)
	title = strings.Trim(title, ` .,;:!?"'-`)
	return title
}

func titlesMatch(jobTitle, candidateTitle string) bool {
	a := strings.ToLower(utils.CollapseWhitespace(jobTitle))
	b := strings.ToLower(candidateTitle)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// pickByTimestamp disambiguates same-title matches against the message's
// received time. Before every publish time: earliest job. After every publish
// time: latest job. Otherwise: the latest publish time not after receivedAt.
func pickByTimestamp(matches []*models.Job, receivedAt time.Time) *models.Job {
	earliest := matches[0]
	latest := matches[0]
	var best *models.Job

	for _, job := range matches {
		ts := job.MatchTimestamp()
		if ts.Before(earliest.MatchTimestamp()) {
			earliest = job
		}
		if ts.After(latest.MatchTimestamp()) {
			latest = job
		}
		if !ts.After(receivedAt) {
			if best == nil || ts.After(best.MatchTimestamp()) {
				best = job
			}
		}
	}

	if best == nil {
		// Message predates every match.
		return earliest
	}
	return best
}
