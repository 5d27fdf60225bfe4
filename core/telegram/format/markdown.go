package format

import "strings"

var mdReplacer = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes the characters Telegram's legacy Markdown
// parse mode treats as formatting.
func EscapeMarkdown(s string) string {
	return mdReplacer.Replace(s)
}
