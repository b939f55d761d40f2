package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/enum"
)

func TestIsVideoAttachment(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		expected    bool
	}{
		{"intro.mp4", "video/mp4", true},
		{"clip.MOV", "", true},
		{"recording.webm", "", true},
		{"talk.mkv", "", true},
		{"old.mpg", "", true},
		{"weird_name", "video/quicktime", true},
		{"resume.pdf", "application/pdf", false},
		{"photo.png", "image/png", false},
		{"notes.txt", "text/plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			att := dto.Attachment{Filename: tt.filename, ContentType: tt.contentType}
			assert.Equal(t, tt.expected, IsVideoAttachment(att))
		})
	}
}

func TestClassifyVideoKind(t *testing.T) {
	tests := []struct {
		filename string
		expected enum.VideoKind
	}{
		{"intro.mp4", enum.VideoIntroduction},
		{"hello_everyone.mov", enum.VideoIntroduction},
		{"my-pitch.webm", enum.VideoIntroduction},
		{"about-me.mp4", enum.VideoIntroduction},
		{"loom-export-1234.mp4", enum.VideoIntroduction},
		{"video_resume.mp4", enum.VideoResume},
		{"jane_doe.mp4", enum.VideoResume},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyVideoKind(tt.filename))
		})
	}
}

func TestFindVideoAttachment_FirstMatchWins(t *testing.T) {
	attachments := []dto.Attachment{
		{Filename: "resume.pdf", ContentType: "application/pdf"},
		{Filename: "first.mp4", ContentType: "video/mp4"},
		{Filename: "second.mov", ContentType: "video/quicktime"},
	}

	found := FindVideoAttachment(attachments)
	assert.NotNil(t, found)
	assert.Equal(t, "first.mp4", found.Filename)
}

func TestFindVideoAttachment_None(t *testing.T) {
	attachments := []dto.Attachment{
		{Filename: "resume.pdf", ContentType: "application/pdf"},
	}
	assert.Nil(t, FindVideoAttachment(attachments))
}

func TestFindResumeAttachment(t *testing.T) {
	attachments := []dto.Attachment{
		{Filename: "photo.png", ContentType: "image/png"},
		{Filename: "notes.txt", ContentType: "text/plain"},
		{Filename: "jane_doe_resume.pdf", ContentType: "application/pdf"},
	}

	found := FindResumeAttachment(attachments)
	assert.NotNil(t, found)
	assert.Equal(t, "jane_doe_resume.pdf", found.Filename)
}

func TestFindResumeAttachment_KeywordBeatsExtensionWeight(t *testing.T) {
	attachments := []dto.Attachment{
		{Filename: "cover_letter.pdf", ContentType: "application/pdf"},
		{Filename: "cv.txt", ContentType: "text/plain"},
	}

	found := FindResumeAttachment(attachments)
	assert.NotNil(t, found)
	assert.Equal(t, "cv.txt", found.Filename)
}

func TestFindResumeAttachment_NoDocuments(t *testing.T) {
	attachments := []dto.Attachment{
		{Filename: "intro.mp4", ContentType: "video/mp4"},
		{Filename: "photo.png", ContentType: "image/png"},
	}
	assert.Nil(t, FindResumeAttachment(attachments))
}
