package linkedin

import "strings"

const profilePathMarker = "linkedin.com/in/"

// ResolveUsername extracts the canonical username from a LinkedIn profile
// URL. It tolerates scheme, www and casing variations; the username runs from
// the profile path marker to the next path separator or query string. The
// second return value is false when the input is empty or is not a profile
// URL.
func ResolveUsername(rawURL string) (string, bool) {
	url := strings.ToLower(strings.TrimSpace(rawURL))
	if url == "" {
		return "", false
	}

	idx := strings.Index(url, profilePathMarker)
	if idx < 0 {
		return "", false
	}

	username := url[idx+len(profilePathMarker):]
	if cut := strings.IndexAny(username, "/?"); cut >= 0 {
		username = username[:cut]
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", false
	}
	return username, true
}
