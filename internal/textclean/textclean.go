// Package textclean turns job description markup into plain text.
package textclean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Clean strips markup from s and joins the remaining text fragments with
// single spaces. It never fails: input that cannot be parsed is only
// whitespace-collapsed.
func Clean(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}

	doc.Find("script, style, noscript, template").Remove()

	var parts []string
	for _, n := range doc.Nodes {
		parts = appendText(parts, n)
	}

	return strings.Join(parts, " ")
}

func appendText(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if t := collapse(n.Data); t != "" {
			parts = append(parts, t)
		}
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendText(parts, c)
	}
	return parts
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
