package layout

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText flattens an XHTML rich text value (/RV) to plain text. Block
// elements and <br> end a line; styling is dropped.
func PlainText(source string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(source), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, n := range nodes {
		extractText(&sb, n)
	}
	lines := strings.Split(sb.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n"), nil
}

func extractText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			sb.WriteByte('\n')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(sb, c)
	}
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		sb.WriteByte('\n')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

var whitespace = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func collapseSpace(s string) string { return whitespace.Replace(s) }
