package markup

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// DumpTree renders an element tree one node per line, indented by depth.
// Debug aid; text is quoted so collapsed whitespace stays visible.
func DumpTree(root *html.Node) string {
	var b strings.Builder
	dumpNode(&b, root, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n *html.Node, depth int) {
	if n == nil {
		return
	}
	for range depth {
		b.WriteString("  ")
	}
	switch n.Type {
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			fmt.Fprintf(b, " %s=%s", a.Key, strconv.Quote(a.Val))
		}
		b.WriteString(">\n")
	case html.TextNode:
		b.WriteString("text: ")
		b.WriteString(strconv.Quote(n.Data))
		b.WriteByte('\n')
	case html.CommentNode:
		fmt.Fprintf(b, "<!--%s-->\n", n.Data)
	case html.DoctypeNode:
		fmt.Fprintf(b, "<!DOCTYPE %s>\n", n.Data)
	case html.DocumentNode:
		b.WriteString("document\n")
	default:
		fmt.Fprintf(b, "node(%d)\n", int(n.Type))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dumpNode(b, c, depth+1)
	}
}
