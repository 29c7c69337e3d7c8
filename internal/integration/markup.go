// Package integration handles external service interactions and untrusted input
package integration

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// PlainText reduces user-submitted text to what a browser would display,
// dropping tags, scripts and styles. Line breaks inside the text are kept.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		zap.S().Warnf("Failed to parse submitted text, keeping it as is: %v", err)
		return strings.TrimSpace(s)
	}
	doc.Find("script, style, iframe, object").Remove()
	return strings.TrimSpace(doc.Text())
}
