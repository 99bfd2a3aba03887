// Package htmltext flattens the HTML fragments that marketplace payloads
// embed in product descriptions into plain display text.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip parses an HTML fragment and returns its visible text content with
// whitespace collapsed. Script and style bodies are dropped. Invalid markup
// is tolerated; on a hard parse failure the input is returned as-is.
func Strip(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
