package formatter

import (
	"strconv"
	"strings"
)

// FormatNumber renders a count with thousands separators: 1234567 ->
// "1,234,567". Run summary counts are never negative.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + (len(s)-1)/3)

	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// Everything Telegram's MarkdownV2 parser treats as markup in plain text.
const markdownV2Specials = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 escapes special characters in Markdown V2 format.
func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Specials, r) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
