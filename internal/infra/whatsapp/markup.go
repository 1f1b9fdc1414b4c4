package whatsapp

import (
	"html"
	"regexp"
	"strings"
)

var (
	linkTag = regexp.MustCompile(`(?is)<a\s[^>]*href=['"]([^'"]*)['"][^>]*>(.*?)</a>`)
	anyTag  = regexp.MustCompile(`<[^>]*>`)
)

var tagReplacer = strings.NewReplacer(
	"<b>", "*", "</b>", "*",
	"<strong>", "*", "</strong>", "*",
	"<i>", "_", "</i>", "_",
	"<em>", "_", "</em>", "_",
	"<code>", "`", "</code>", "`",
	"<s>", "~", "</s>", "~",
)

// FromHTML converts the Telegram-style HTML used by message templates into WhatsApp
// formatting. Links become "text (url)", unknown tags are dropped and entities unescaped.
func FromHTML(s string) string {
	s = linkTag.ReplaceAllString(s, "$2 ($1)")
	s = tagReplacer.Replace(s)
	s = anyTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}
