// Package markup converts the lightweight markup used in content bodies
// to sanitized HTML, and HTML back to a plain-text rendering.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	urlRe    = regexp.MustCompile(`https?://[^\s<"]+`)
)

// ToHTML renders line-oriented markup as HTML. Supported: #/##/### headings,
// -/* list items, **bold**, *italics*, bare URLs, and paragraphs. Raw text
// is entity-escaped before inline substitution so the markup's own tags are
// never re-escaped.
func ToHTML(text string) string {
	var b strings.Builder
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			closeList()
			continue
		}

		escaped := escape(line)
		switch {
		case strings.HasPrefix(escaped, "### "):
			closeList()
			b.WriteString("<h3>" + inline(escaped[4:]) + "</h3>\n")
		case strings.HasPrefix(escaped, "## "):
			closeList()
			b.WriteString("<h2>" + inline(escaped[3:]) + "</h2>\n")
		case strings.HasPrefix(escaped, "# "):
			closeList()
			b.WriteString("<h1>" + inline(escaped[2:]) + "</h1>\n")
		case strings.HasPrefix(escaped, "- "), strings.HasPrefix(escaped, "* "):
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			b.WriteString("<li>" + inline(escaped[2:]) + "</li>\n")
		default:
			closeList()
			b.WriteString("<p>" + inline(escaped) + "</p>\n")
		}
	}
	closeList()

	return strings.TrimRight(b.String(), "\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// inline applies emphasis and auto-linking to an already-escaped line.
// Bold runs before italics so ** pairs are consumed first.
func inline(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = urlRe.ReplaceAllStringFunc(s, func(u string) string {
		return `<a href="` + u + `">` + u + `</a>`
	})
	return s
}

// blockTags are elements whose boundaries become newlines in plain text.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"ul": true, "ol": true, "li": true, "br": true, "div": true,
}

var multiNewlineRe = regexp.MustCompile(`\n{3,}`)

// ToPlainText strips an HTML fragment down to readable text: block tag
// boundaries become newlines, every other tag is dropped, entities are
// unescaped, and runs of 3+ newlines collapse to exactly 2.
func ToPlainText(htmlText string) string {
	tok := html.NewTokenizer(strings.NewReader(htmlText))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			b.WriteString(tok.Token().Data) // tokenizer unescapes entities
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			if blockTags[string(name)] {
				b.WriteString("\n")
			}
		}
	}
	text := multiNewlineRe.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(text)
}
