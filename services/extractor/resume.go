package extractor

import (
	"path/filepath"
	"strings"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
)

var documentExtensions = map[string]int{
	".pdf":  3,
	".docx": 3,
	".doc":  3,
	".rtf":  2,
	".odt":  2,
	".txt":  1,
}

var documentContentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/rtf",
	"application/vnd.oasis.opendocument.text",
	"text/plain",
}

var resumeNameKeywords = []string{"resume", "cv", "curriculum"}

// FindResumeAttachment picks the most resume-like attachment: document
// attachments are scored by extension weight, with a bonus when the filename
// itself says resume/cv. Returns nil when no attachment looks like a
// document.
func FindResumeAttachment(attachments []dto.Attachment) *dto.Attachment {
	best := -1
	bestScore := 0
	for i := range attachments {
		score := documentScore(attachments[i])
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return nil
	}
	return &attachments[best]
}

func documentScore(att dto.Attachment) int {
	name := strings.ToLower(att.Filename)
	ext := filepath.Ext(name)

	score := documentExtensions[ext]
	if score == 0 {
		for _, ct := range documentContentTypes {
			if strings.Contains(strings.ToLower(att.ContentType), ct) {
				score = 1
				break
			}
		}
	}
	if score == 0 {
		return 0
	}

	for _, keyword := range resumeNameKeywords {
		if strings.Contains(name, keyword) {
			score += 10
			break
		}
	}
	return score
}
