package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// GetText concatenates every text node under node in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// GetTrimmedText is GetText with surrounding whitespace (including nbsp) removed.
func GetTrimmedText(node *html.Node) string {
	return strings.TrimSpace(GetText(node))
}
