package enum

type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobOpen   JobStatus = "open"
	JobOnHold JobStatus = "on_hold"
	JobClosed JobStatus = "closed"
)

func (t JobStatus) String() string {
	return string(t)
}

// MatchableJobStatuses are the statuses a submission may be matched against.
var MatchableJobStatuses = []JobStatus{JobOpen, JobDraft, JobOnHold}
