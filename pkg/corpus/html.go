package corpus

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements end a run of text, so that adjacent paragraphs don't glue
// their last and first words together.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"title": true, "tr": true, "ul": true,
}

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"#comment": true, "script": true, "style": true, "noscript": true,
	"template": true, "head": true,
}

// htmlText returns the visible text of an HTML document in document order.
func htmlText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	collectText(doc.Find("body"), &sb)
	return sb.String(), nil
}

func collectText(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			sb.WriteString(child.Text())
		case skippedElements[name]:
		default:
			block := blockElements[name]
			if block {
				sb.WriteByte('\n')
			}
			collectText(child, sb)
			if block {
				sb.WriteByte('\n')
			}
		}
	})
}
