package utils

import "strings"

// NormalizeTitle is the dedup key for question titles.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
