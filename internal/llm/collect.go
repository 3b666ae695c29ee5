package llm

import (
	"iter"
	"strings"
)

// Collect folds seq into one string: the text of every text block of every
// message, in arrival order, verbatim. The first yielded error aborts the fold.
func Collect(seq iter.Seq2[Message, error]) (string, error) {
	var sb strings.Builder
	for msg, err := range seq {
		if err != nil {
			return "", err
		}
		for _, b := range msg.Content {
			if b.Type == BlockText {
				sb.WriteString(b.Text)
			}
		}
	}
	return sb.String(), nil
}

const fence = "```"

// StripFences removes a leading ``` or ```html fence and a trailing ``` fence
// that models sometimes wrap around the answer, then trims whitespace.
// StripFences(StripFences(s)) == StripFences(s).
func StripFences(s string) string {
	for {
		next := stripOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripOnce(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		if isHTMLTag(s) {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// isHTMLTag reports whether s opens with an "html" info string, i.e. "html"
// followed by whitespace or nothing. "html5" or "htmlish" are left alone.
func isHTMLTag(s string) bool {
	if len(s) < 4 || !strings.EqualFold(s[:4], "html") {
		return false
	}
	if len(s) == 4 {
		return true
	}
	switch s[4] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
