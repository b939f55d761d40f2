package extractor

import (
	"path/filepath"
	"strings"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".m4v":  true,
	".3gp":  true,
	".ogv":  true,
	".mpeg": true,
	".mpg":  true,
}

// introKeywords mark a video as a self-introduction rather than a recorded
// resume. Recording-platform names count because candidates rarely rename
// platform exports.
var introKeywords = []string{
	"intro",
	"hello",
	"greeting",
	"pitch",
	"about-me",
	"about_me",
	"aboutme",
	"loom",
	"vidyard",
	"bombbomb",
}

// IsVideoAttachment reports whether an attachment is a video, by extension
// allow-list or declared content type.
func IsVideoAttachment(att dto.Attachment) bool {
	ext := strings.ToLower(filepath.Ext(att.Filename))
	if videoExtensions[ext] {
		return true
	}
	return strings.Contains(strings.ToLower(att.ContentType), "video")
}

// ClassifyVideoKind infers whether a video is a self-introduction or a video
// resume from filename keywords. Ambiguous names default to resume.
func ClassifyVideoKind(filename string) enum.VideoKind {
	name := strings.ToLower(filename)
	for _, keyword := range introKeywords {
		if strings.Contains(name, keyword) {
			return enum.VideoIntroduction
		}
	}
	return enum.VideoResume
}

// FindVideoAttachment returns the first video attachment, or nil. First match
// wins so attachment order in the original message is preserved.
func FindVideoAttachment(attachments []dto.Attachment) *dto.Attachment {
	for i := range attachments {
		if IsVideoAttachment(attachments[i]) {
			return &attachments[i]
		}
	}
	return nil
}
