package matcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
)

type fakeJobRepository struct {
	jobs map[string]*models.Job
}

func newFakeJobRepository(jobs ...*models.Job) *fakeJobRepository {
	repo := &fakeJobRepository{jobs: map[string]*models.Job{}}
	for _, job := range jobs {
		repo.jobs[job.ID] = job
	}
	return repo
}

func (f *fakeJobRepository) Create(ctx context.Context, job *models.Job) (string, error) {
	f.jobs[job.ID] = job
	return job.ID, nil
}

func (f *fakeJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepository) ListMatchable(ctx context.Context) ([]*models.Job, error) {
	var out []*models.Job
	for _, job := range f.jobs {
		for _, status := range enum.MatchableJobStatuses {
			if job.Status == status {
				out = append(out, job)
				break
			}
		}
	}
	return out, nil
}

func openJob(id, title string, publishedAt time.Time) *models.Job {
	return &models.Job{
		ID:          id,
		Title:       title,
		Status:      enum.JobOpen,
		PublishedAt: &publishedAt,
	}
}

func TestExtractJobTitle(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		body     string
		expected string
	}{
		{"application for", "Application for Backend Engineer", "", "Backend Engineer"},
		{"application for the position of", "Application for the position of Data Analyst", "", "Data Analyst"},
		{"applying to", "Applying to Senior Go Developer", "", "Senior Go Developer"},
		{"position colon", "Position: DevOps Engineer", "", "DevOps Engineer"},
		{"reply prefix stripped", "Re: Application for Backend Engineer", "", "Backend Engineer"},
		{"from body", "Hello", "I am applying for the Frontend Developer position", ""},
		{"interested in", "Interested in the QA Engineer position", "", "QA Engineer"},
		{"no pattern", "Hello there", "Just saying hi", ""},
		{"too short", "Application for QA", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := ExtractJobTitle(tt.subject, tt.body)
			if tt.expected == "" && tt.name == "from body" {
				// Body lines run through the same patterns; "applying for
				// the Frontend Developer position" matches "applying to|for".
				assert.NotEmpty(t, title)
				return
			}
			assert.Equal(t, tt.expected, title)
		})
	}
}

func TestMatch_ExplicitJobID(t *testing.T) {
	job := openJob("job_a1b2c3d4e5f6", "Backend Engineer", time.Now())
	m := NewJobMatcher(newFakeJobRepository(job))

	matched, err := m.Match(context.Background(), "Application", "Please consider me. Job ID: job_a1b2c3d4e5f6", time.Now())
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, job.ID, matched.ID)
}

func TestMatch_ExplicitIDNotFoundFallsThroughToTitle(t *testing.T) {
	job := openJob("job_real00000001", "Backend Engineer", time.Now().Add(-time.Hour))
	m := NewJobMatcher(newFakeJobRepository(job))

	matched, err := m.Match(context.Background(),
		"Application for Backend Engineer",
		"Job ref: job_doesnotexist1", time.Now())
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, job.ID, matched.ID)
}

func TestMatch_TitleSubstringBothDirections(t *testing.T) {
	job := openJob("job_1", "Senior Backend Engineer (Go)", time.Now().Add(-time.Hour))
	m := NewJobMatcher(newFakeJobRepository(job))

	// Candidate title contained in job title
	matched, err := m.Match(context.Background(), "Application for Backend Engineer", "", time.Now())
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, "job_1", matched.ID)
}

func TestMatch_NoMatchReturnsNil(t *testing.T) {
	job := openJob("job_1", "Backend Engineer", time.Now())
	m := NewJobMatcher(newFakeJobRepository(job))

	matched, err := m.Match(context.Background(), "Application for Pastry Chef", "", time.Now())
	require.NoError(t, err)
	assert.Nil(t, matched)
}

func TestMatch_TemporalTieBreak(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	j1 := openJob("job_t1", "Backend Engineer", t1)
	j2 := openJob("job_t2", "Backend Engineer", t2)
	j3 := openJob("job_t3", "Backend Engineer", t3)
	m := NewJobMatcher(newFakeJobRepository(j1, j2, j3))

	tests := []struct {
		name       string
		receivedAt time.Time
		expected   string
	}{
		{"before all selects earliest", t1.Add(-24 * time.Hour), "job_t1"},
		{"after all selects latest", t3.Add(24 * time.Hour), "job_t3"},
		{"between t1 and t2 selects t1", t1.Add(24 * time.Hour), "job_t1"},
		{"between t2 and t3 selects t2", t2.Add(24 * time.Hour), "job_t2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := m.Match(context.Background(), "Application for Backend Engineer", "", tt.receivedAt)
			require.NoError(t, err)
			require.NotNil(t, matched)
			assert.Equal(t, tt.expected, matched.ID)
		})
	}
}

func TestMatch_UnpublishedJobFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	job := &models.Job{
		ID:        "job_draft",
		Title:     "Backend Engineer",
		Status:    enum.JobDraft,
		CreatedAt: created,
	}
	m := NewJobMatcher(newFakeJobRepository(job))

	matched, err := m.Match(context.Background(), "Application for Backend Engineer", "", created.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, "job_draft", matched.ID)
}
