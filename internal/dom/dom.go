// Package dom performs the actual DOM reads and writes for the reconciler.
//
// The document tree is represented with *html.Node from golang.org/x/net/html.
// All mutations go through a Writer so callers can observe exactly how many
// writes a render pass performed.
package dom

import (
	"bytes"

	"golang.org/x/net/html"
)

// SVGNamespace is the namespace value assigned to SVG elements.
const SVGNamespace = "svg"

// svgTags lists element names that establish or continue the SVG namespace.
var svgTags = map[string]struct{}{
	"svg": {}, "path": {}, "rect": {}, "circle": {}, "ellipse": {},
	"line": {}, "polyline": {}, "polygon": {}, "g": {}, "defs": {},
	"use": {}, "linearGradient": {}, "radialGradient": {}, "stop": {},
	"clipPath": {}, "mask": {}, "pattern": {}, "marker": {}, "symbol": {},
	"foreignObject": {}, "tspan": {}, "textPath": {}, "filter": {},
	"feGaussianBlur": {}, "feOffset": {}, "feMerge": {}, "feMergeNode": {},
}

// IsSVGTag returns true if the tag starts an SVG subtree.
func IsSVGTag(tag string) bool {
	_, ok := svgTags[tag]
	return ok
}

// NewElement creates an element node. When inSVG is true, or the tag itself
// is an SVG tag, the node is placed in the SVG namespace.
func NewElement(tag string, inSVG bool) *html.Node {
	n := &html.Node{
		Type: html.ElementNode,
		Data: tag,
	}
	if inSVG || IsSVGTag(tag) {
		n.Namespace = SVGNamespace
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: text,
	}
}

// NewContainer creates a detached container element, useful as a render
// root or a portal host.
func NewContainer(tag string) *html.Node {
	return NewElement(tag, false)
}

// ChildAt returns the nth child of parent, or nil.
func ChildAt(parent *html.Node, index int) *html.Node {
	if parent == nil || index < 0 {
		return nil
	}
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if i == index {
			return c
		}
		i++
	}
	return nil
}

// ChildIndex returns the index of child within parent, or -1.
func ChildIndex(parent, child *html.Node) int {
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == child {
			return i
		}
		i++
	}
	return -1
}

// ChildCount returns the number of children of parent.
func ChildCount(parent *html.Node) int {
	n := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

// Children returns the children of parent as a slice.
func Children(parent *html.Node) []*html.Node {
	var out []*html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Serialize renders the node tree to HTML.
func Serialize(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SerializeChildren renders only the children of n, which is how a render
// container's committed output is compared across passes.
func SerializeChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
