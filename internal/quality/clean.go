// Package quality cleans extracted article text and scores it.
package quality

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	boilerplate     = regexp.MustCompile(`(?i)(read more|subscribe to|sign up)[^\n]*`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)

	artifactReplacer = strings.NewReplacer(
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\ufeff", "",
		"\ufffd", "",
		"\u00a0", " ",
		"\r\n", "\n",
		"\r", "\n",
	)
)

// CleanTitle normalizes a headline: NFKC, artifact runes and whitespace.
// Boilerplate phrases are left alone since they occur in real headlines.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}
	title = norm.NFKC.String(title)
	title = artifactReplacer.Replace(title)
	return strings.Join(strings.Fields(title), " ")
}

// Clean normalizes unicode, drops trailing boilerplate phrases and collapses
// whitespace while keeping paragraph breaks.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	text = artifactReplacer.Replace(text)
	text = boilerplate.ReplaceAllString(text, "")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
