package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// classFromSelector extracts the class name from a simple ".class" selector.
// The element reader only supports class selectors; anything else is a
// configuration error.
func classFromSelector(selector string) (string, error) {
	if !strings.HasPrefix(selector, ".") || len(selector) < 2 {
		return "", fmt.Errorf("item selector %q must be a simple class selector like \".item\"", selector)
	}
	class := selector[1:]
	if strings.ContainsAny(class, " .#[>:") {
		return "", fmt.Errorf("item selector %q must be a simple class selector like \".item\"", selector)
	}
	return class, nil
}

// ParseElements extracts the visible text of every node carrying the given
// class from raw page HTML, in document order, with duplicates removed. The
// game renders each available element as one such node.
func ParseElements(rawHTML, class string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var names []string
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			text := strings.TrimSpace(nodeText(n))
			if text != "" && !seen[text] {
				seen[text] = true
				names = append(names, text)
			}
			// Item nodes do not nest; no need to descend further.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return names, nil
}

// hasClass reports whether a node's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// nodeText concatenates the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var builder strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return builder.String()
}
