package fixture

import "regexp"

var (
	driveFileRe = regexp.MustCompile(`^https?://drive\.google\.com/file/d/([\w-]+)`)
	driveOpenRe = regexp.MustCompile(`^https?://drive\.google\.com/(?:open|uc)\?(?:[^#]*&)?id=([\w-]+)`)
)

// PlayableURL rewrites Google Drive share links into their embeddable
// preview form. Other URLs are returned unchanged.
func PlayableURL(raw string) string {
	if m := driveFileRe.FindStringSubmatch(raw); m != nil {
		return drivePreview(m[1])
	}
	if m := driveOpenRe.FindStringSubmatch(raw); m != nil {
		return drivePreview(m[1])
	}
	return raw
}

func drivePreview(id string) string {
	return "https://drive.google.com/file/d/" + id + "/preview"
}
