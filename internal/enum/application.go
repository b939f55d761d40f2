package enum

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
)

func (t ApplicationStatus) String() string {
	return string(t)
}

type ApplicationSource string

const (
	SourceManual           ApplicationSource = "manual"
	SourceDirectSubmission ApplicationSource = "direct_submission"
	SourceEmail            ApplicationSource = "email"
)

func (t ApplicationSource) String() string {
	return string(t)
}

type ResumeValidity string

const (
	ResumeValid   ResumeValidity = "valid"
	ResumeInvalid ResumeValidity = "invalid"
	ResumeUnknown ResumeValidity = "unknown"
)

func (t ResumeValidity) String() string {
	return string(t)
}

// VideoKind distinguishes a short introduction clip from a full video resume.
type VideoKind string

const (
	VideoIntroduction VideoKind = "introduction"
	VideoResume       VideoKind = "resume"
)

func (t VideoKind) String() string {
	return string(t)
}

type VideoOrigin string

const (
	VideoFromAttachment VideoOrigin = "attachment"
	VideoFromLink       VideoOrigin = "link"
)

func (t VideoOrigin) String() string {
	return string(t)
}
