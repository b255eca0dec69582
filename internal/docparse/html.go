package docparse

import (
	"os"
	"strings"

	"golang.org/x/net/html"
)

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

func readHTMLFile(path string) ([]rawBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var blocks []rawBlock
	walkHTML(doc, &blocks)
	return blocks, nil
}

// walkHTML flattens the tree into document-ordered blocks: one per heading,
// paragraph, or list item. Nested markup inside a block collapses to its
// text content.
func walkHTML(n *html.Node, blocks *[]rawBlock) {
	if n.Type == html.ElementNode {
		if level, ok := headingTags[n.Data]; ok {
			*blocks = append(*blocks, rawBlock{
				level:  level,
				text:   nodeText(n),
				markup: "<" + n.Data + ">",
			})
			return
		}
		switch n.Data {
		case "p", "li", "blockquote", "td":
			text := nodeText(n)
			if strings.TrimSpace(text) != "" {
				*blocks = append(*blocks, rawBlock{text: text, markup: "<" + n.Data + ">"})
			}
			return
		case "script", "style", "head":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, blocks)
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		if node.Type == html.ElementNode && node.Data == "br" {
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
