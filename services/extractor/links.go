package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// videoLinkPatterns is ordered: streaming platforms first, then cloud-drive
// and file-transfer services, then a direct-file catch-all. Order decides
// which link wins when a body carries several.
var videoLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[\w\-?=&]+`),
	regexp.MustCompile(`https?://(?:www\.)?vimeo\.com/[\w/]+`),
	regexp.MustCompile(`https?://(?:www\.)?loom\.com/share/[\w\-]+`),
	regexp.MustCompile(`https?://(?:www\.)?vidyard\.com/watch/[\w\-]+`),
	regexp.MustCompile(`https?://drive\.google\.com/[\w/?=&\-]+`),
	regexp.MustCompile(`https?://(?:www\.)?dropbox\.com/[\w/?=&.\-]+`),
	regexp.MustCompile(`https?://(?:www\.)?wetransfer\.com/downloads/[\w/\-]+`),
	regexp.MustCompile(`https?://(?:www\.)?onedrive\.live\.com/[\w/?=&.\-]+`),
	regexp.MustCompile(`https?://\S+\.(?:mp4|mov|avi|webm|mkv|m4v)\b`),
}

// ExtractVideoLinks scans the text and HTML bodies for video-hosting links.
// Returns a de-duplicated list preserving pattern order, then first-seen
// order within a pattern.
func ExtractVideoLinks(bodyText, bodyHTML string) []string {
	var corpus strings.Builder
	corpus.WriteString(bodyText)
	corpus.WriteString("\n")
	corpus.WriteString(bodyHTML)
	for _, href := range extractHrefs(bodyHTML) {
		corpus.WriteString("\n")
		corpus.WriteString(href)
	}
	haystack := corpus.String()

	seen := make(map[string]bool)
	var links []string
	for _, pattern := range videoLinkPatterns {
		for _, match := range pattern.FindAllString(haystack, -1) {
			link := cleanLink(match)
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
		}
	}
	return links
}

// extractHrefs pulls anchor targets out of an HTML body. Links hidden behind
// anchor text never appear in the plain-text rendering, so this catches what
// the regex scan over visible text misses.
func extractHrefs(bodyHTML string) []string {
	if bodyHTML == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return nil
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// cleanLink strips trailing punctuation and HTML-entity artifacts that the
// regex scan drags in from surrounding prose.
func cleanLink(link string) string {
	link = strings.TrimSpace(link)
	for _, suffix := range []string{"&amp;", "&quot;", "&gt;", "&lt;", "&nbsp;"} {
		link = strings.TrimSuffix(link, suffix)
	}
	return strings.TrimRight(link, `.,;:!?)]}>"'`)
}
