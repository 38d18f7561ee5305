package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rule maps one token to a style. Tokens are matched whole-word and
// case-insensitively, as regular expressions when they compile and as
// literals otherwise.
type Rule struct {
	Token string
	Style lipgloss.Style
}

// Rules builds the ordered rule list for a session: highlight tokens first,
// filter tokens after, so filter styling wins on overlap.
func Rules(highlightTokens, filterTokens []string) []Rule {
	rules := make([]Rule, 0, len(highlightTokens)+len(filterTokens))
	for _, t := range highlightTokens {
		rules = append(rules, Rule{Token: t, Style: HighlightStyle})
	}
	for _, t := range filterTokens {
		rules = append(rules, Rule{Token: t, Style: FilterStyle})
	}
	return rules
}

// Span is a styled byte range of a message. Rule indexes into the rule list
// that produced it.
type Span struct {
	Start, End int
	Rule       int
}

// compileToken compiles a token into a whole-word, case-insensitive pattern.
// Tokens that fail to compile as regexps degrade to literal matching; this
// never fails.
func compileToken(token string) *regexp.Regexp {
	re, err := regexp.Compile(`(?i)\b(?:` + token + `)\b`)
	if err != nil {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	}
	return re
}

// Spans computes the styled spans for a message under the given rules.
// Rules are applied in order over the same base text; the last rule wins on
// overlapping byte ranges.
func Spans(message string, rules []Rule) []Span {
	if len(rules) == 0 {
		return nil
	}

	owner := make([]int, len(message))
	for i := range owner {
		owner[i] = -1
	}
	for r, rule := range rules {
		for _, m := range compileToken(rule.Token).FindAllStringIndex(message, -1) {
			for i := m[0]; i < m[1]; i++ {
				owner[i] = r
			}
		}
	}

	var spans []Span
	for i := 0; i < len(owner); {
		if owner[i] < 0 {
			i++
			continue
		}
		j := i
		for j < len(owner) && owner[j] == owner[i] {
			j++
		}
		spans = append(spans, Span{Start: i, End: j, Rule: owner[i]})
		i = j
	}
	return spans
}

// Highlight renders a message with the matched spans styled and the rest of
// the text untouched.
func Highlight(message string, rules []Rule) string {
	spans := Spans(message, rules)
	if len(spans) == 0 {
		return message
	}

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		b.WriteString(message[pos:s.Start])
		b.WriteString(rules[s.Rule].Style.Render(message[s.Start:s.End]))
		pos = s.End
	}
	b.WriteString(message[pos:])
	return b.String()
}
