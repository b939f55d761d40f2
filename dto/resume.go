package dto

// ExtractTextRequest asks the parsing service for the raw text of a document.
type ExtractTextRequest struct {
	Content  []byte `json:"content"`
	FileType string `json:"fileType"`
}

type ExtractTextResponse struct {
	Text string `json:"text"`
}

type ParseResumeRequest struct {
	Text string `json:"text"`
}

// ParsedResume carries the structured fields recovered from resume text.
type ParsedResume struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Summary    string   `json:"summary"`
}

type ValidateResumeRequest struct {
	Text string `json:"text"`
}

// ResumeValidation is the advisory validity verdict from the scoring service.
type ResumeValidation struct {
	IsValid bool    `json:"isValid"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}
