package video

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`),
}

// YouTubeID extracts the video id from the common YouTube URL shapes.
func YouTubeID(url string) (string, bool) {
	for _, p := range youtubePatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// EmbedURL rewrites YouTube links to their embeddable form. Other URLs pass through.
func EmbedURL(url string) string {
	if id, ok := YouTubeID(url); ok {
		return "https://www.youtube.com/embed/" + id
	}
	return url
}

var htmlTag = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// Markdown converts HTML descriptions, as pasted from rich editors, to Markdown.
// Plain text is returned unchanged.
func Markdown(description string) (string, error) {
	if !htmlTag.MatchString(description) {
		return description, nil
	}
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(description)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
