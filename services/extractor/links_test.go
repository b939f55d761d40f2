package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoLinks_PlainText(t *testing.T) {
	body := "Hi, my intro video is here: https://www.loom.com/share/abc123def456 thanks!"

	links := ExtractVideoLinks(body, "")
	require.Len(t, links, 1)
	assert.Equal(t, "https://www.loom.com/share/abc123def456", links[0])
}

func TestExtractVideoLinks_HTMLHrefs(t *testing.T) {
	html := `<p>Watch my <a href="https://youtu.be/dQw4w9WgXcQ">introduction</a>.</p>`

	links := ExtractVideoLinks("", html)
	require.Len(t, links, 1)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", links[0])
}

func TestExtractVideoLinks_PatternOrderWins(t *testing.T) {
	// A streaming-platform link outranks a cloud-drive link regardless of
	// position in the body.
	body := "Files: https://drive.google.com/file/d/abc123/view and https://vimeo.com/987654321"

	links := ExtractVideoLinks(body, "")
	require.Len(t, links, 2)
	assert.Equal(t, "https://vimeo.com/987654321", links[0])
	assert.Equal(t, "https://drive.google.com/file/d/abc123/view", links[1])
}

func TestExtractVideoLinks_Deduplicated(t *testing.T) {
	body := "https://www.loom.com/share/abc123def456"
	html := `<a href="https://www.loom.com/share/abc123def456">video</a>`

	links := ExtractVideoLinks(body, html)
	assert.Len(t, links, 1)
}

func TestExtractVideoLinks_TrailingPunctuationStripped(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{"See https://vimeo.com/12345.", "https://vimeo.com/12345"},
		{"(video: https://vimeo.com/12345)", "https://vimeo.com/12345"},
		{"link https://vimeo.com/12345, cheers", "https://vimeo.com/12345"},
	}

	for _, tt := range tests {
		links := ExtractVideoLinks(tt.body, "")
		require.Len(t, links, 1, tt.body)
		assert.Equal(t, tt.expected, links[0])
	}
}

func TestExtractVideoLinks_DirectFile(t *testing.T) {
	body := "Direct download: https://cdn.example.com/videos/intro.mp4 enjoy"

	links := ExtractVideoLinks(body, "")
	require.Len(t, links, 1)
	assert.Equal(t, "https://cdn.example.com/videos/intro.mp4", links[0])
}

func TestExtractVideoLinks_NoLinks(t *testing.T) {
	links := ExtractVideoLinks("Please find my resume attached.", "<p>Please find my resume attached.</p>")
	assert.Empty(t, links)
}
