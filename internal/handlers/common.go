package handlers

import "strings"

// sanitizeRedirect keeps return destinations on this site: only
// relative paths are honored, everything else falls back to the feed.
func sanitizeRedirect(redirectTo string) string {
	if strings.HasPrefix(redirectTo, "/") && !strings.HasPrefix(redirectTo, "//") {
		return redirectTo
	}
	return "/"
}
