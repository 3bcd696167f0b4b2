package promptctx

import "unicode/utf8"

// TruncationMarker is appended to any context cropped by Truncate.
const TruncationMarker = "\n\n[... context truncated for API limits ...]"

// DefaultMaxTokens is the prompt-side ceiling used when none is configured.
const DefaultMaxTokens = 15000

// EstimateTokens approximates a token count as one token per four characters,
// rounded up.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

// keepLength is the number of characters of a text of length n retained when
// its owning prompt estimates at est tokens against a ceiling of maxTokens.
func keepLength(n, maxTokens, est int) int {
	if est <= 0 {
		return n
	}
	keep := int(float64(n) * (float64(maxTokens) * 0.8) / float64(est))
	if keep > n {
		return n
	}
	if keep < 0 {
		return 0
	}
	return keep
}

// Truncate returns context unchanged when it fits maxTokens. Otherwise it keeps
// a prefix sized to 80% of the ceiling and appends TruncationMarker.
func Truncate(context string, maxTokens int) string {
	est := EstimateTokens(context)
	if est <= maxTokens {
		return context
	}
	return cropRunes(context, keepLength(utf8.RuneCountInString(context), maxTokens, est)) + TruncationMarker
}

func cropRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
