package utils

import (
	"regexp"
	"strings"
)

var (
	// Source-annotation brackets some assistants emit, e.g. 【4:0†source】.
	citationPattern = regexp.MustCompile(`【.*?】`)
	// Markdown bold; WhatsApp uses single asterisks.
	boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatForWhatsApp rewrites model output into WhatsApp's text conventions:
// citation brackets are stripped and **bold** becomes *bold*.
func FormatForWhatsApp(text string) string {
	text = citationPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	return boldPattern.ReplaceAllString(text, "*$1*")
}
