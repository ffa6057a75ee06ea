package playback

import "strings"

var mimeTypesBySuffix = []struct {
	suffix   string
	mimeType string
}{
	{".m3u8", "application/x-mpegURL"},
	{".mpd", "application/dash+xml"},
	{".mp4", "video/mp4"},
}

// MimeTypeFromURL derives the MIME type from the URL suffix, ignoring case. Returns "" when unknown.
func MimeTypeFromURL(url string) string {
	lower := strings.ToLower(url)
	for _, m := range mimeTypesBySuffix {
		if strings.HasSuffix(lower, m.suffix) {
			return m.mimeType
		}
	}
	return ""
}
