// Package format turns model output into display-safe markup and maps model
// failures to fixed user-facing sentences.
package format

import (
	"html"
	"regexp"
	"strings"

	"rideinsight/internal/modelcall"
)

var (
	fencedCode = regexp.MustCompile("(?s)```(.*?)```")
	inlineCode = regexp.MustCompile("`([^`\n]*)`")
	bold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italic     = regexp.MustCompile(`\*(.*?)\*`)
	blankRuns  = regexp.MustCompile(`\n\s*\n`)
)

// Markup escapes raw HTML, then converts **bold**, *italic*, fenced and inline
// code into tags and collapses runs of blank lines. Code spans are converted
// before emphasis so asterisks inside code survive.
func Markup(text string) string {
	out := html.EscapeString(text)
	out = fencedCode.ReplaceAllString(out, "<pre><code>$1</code></pre>")
	out = inlineCode.ReplaceAllString(out, "<code>$1</code>")
	out = replaceOutsideCode(out, bold, "<strong>$1</strong>")
	out = replaceOutsideCode(out, italic, "<em>$1</em>")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

var codeSpan = regexp.MustCompile(`(?s)<pre><code>.*?</code></pre>|<code>.*?</code>`)

// replaceOutsideCode applies re only to the text between code spans.
func replaceOutsideCode(s string, re *regexp.Regexp, repl string) string {
	spans := codeSpan.FindAllStringIndex(s, -1)
	if len(spans) == 0 {
		return re.ReplaceAllString(s, repl)
	}
	sb := &strings.Builder{}
	prev := 0
	for _, span := range spans {
		sb.WriteString(re.ReplaceAllString(s[prev:span[0]], repl))
		sb.WriteString(s[span[0]:span[1]])
		prev = span[1]
	}
	sb.WriteString(re.ReplaceAllString(s[prev:], repl))
	return sb.String()
}

// User-facing failure sentences.
const (
	MessageSafety        = "I apologize, but I cannot provide a response due to safety guidelines. Please rephrase your question."
	MessageHighDemand    = "I'm currently experiencing high demand. Please try again in a few moments."
	MessageConfiguration = "There's an issue with the API configuration. Please contact support."
	MessageGeneric       = "I'm having trouble processing your request right now. Please try again or rephrase your question."
)

// FailureMessage picks the sentence for err without exposing its text.
func FailureMessage(err error) string {
	switch modelcall.KindOf(err) {
	case modelcall.KindSafetyBlocked:
		return MessageSafety
	case modelcall.KindQuotaExceeded, modelcall.KindRateLimited:
		return MessageHighDemand
	case modelcall.KindConfiguration:
		return MessageConfiguration
	default:
		return MessageGeneric
	}
}
