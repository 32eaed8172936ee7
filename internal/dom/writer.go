package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/net/html"

	"github.com/dshills/weft/internal/core"
)

// namespacedAttrs maps attribute prefixes to the namespace recorded on the
// html.Attribute. Only consulted for elements inside an SVG subtree.
var namespacedAttrs = map[string]string{
	"xlink": "xlink",
	"xml":   "xml",
}

// colorProps lists style properties whose values are canonicalized with
// go-colorful before writing.
var colorProps = map[string]struct{}{
	"color":                 {},
	"background":            {},
	"background-color":      {},
	"border-color":          {},
	"outline-color":         {},
	"text-decoration-color": {},
	"fill":                  {},
	"stroke":                {},
}

// Writer performs attribute, style, and structural writes on DOM nodes.
// Every mutating touch increments the write counter, which is how the
// zero-write invariant of identical consecutive renders is verified.
type Writer struct {
	writes int
}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Writes returns the number of DOM writes performed since the last reset.
func (w *Writer) Writes() int {
	return w.writes
}

// ResetWrites clears the write counter. Called at the start of each pass.
func (w *Writer) ResetWrites() {
	w.writes = 0
}

// ApplyAttrs diffs the old attribute map against the new one and writes only
// what changed: added keys are set, changed keys overwritten, removed keys
// cleared. Class values are compared as normalized sets. Untouched keys
// produce no write.
func (w *Writer) ApplyAttrs(n *html.Node, old, next map[string]any) {
	for key := range old {
		if _, ok := next[key]; !ok {
			w.removeAttr(n, key)
		}
	}

	for key, value := range next {
		oldValue, existed := old[key]

		if value == nil || value == false {
			if existed && oldValue != nil && oldValue != false {
				w.removeAttr(n, key)
			}
			continue
		}

		if key == "class" {
			if existed && core.ClassesEqual(oldValue, value) {
				continue
			}
			w.setAttr(n, key, core.ClassString(value))
			continue
		}

		str := AttrString(value)
		if existed && AttrString(oldValue) == str && !(oldValue == nil || oldValue == false) {
			continue
		}
		w.setAttr(n, key, str)
	}
}

// ApplyStyle diffs the old style map against the new one and rewrites the
// style attribute only when a property was added, changed, or removed.
// Color-valued properties are canonicalized first, so equivalent colors in
// different spellings do not count as changes.
func (w *Writer) ApplyStyle(n *html.Node, old, next map[string]string) {
	oldNorm := normalizeStyle(old)
	nextNorm := normalizeStyle(next)

	if styleEqual(oldNorm, nextNorm) {
		return
	}
	if len(nextNorm) == 0 {
		w.removeAttr(n, "style")
		return
	}
	w.setAttr(n, "style", StyleString(nextNorm))
}

// InsertChildAt inserts child under parent at the given index.
func (w *Writer) InsertChildAt(parent, child *html.Node, index int) {
	ref := ChildAt(parent, index)
	if ref != nil {
		parent.InsertBefore(child, ref)
	} else {
		parent.AppendChild(child)
	}
	w.writes++
}

// RemoveChild detaches child from parent. A child already detached, or
// belonging to another parent, is left alone.
func (w *Writer) RemoveChild(parent, child *html.Node) {
	if child == nil || child.Parent != parent {
		return
	}
	parent.RemoveChild(child)
	w.writes++
}

// SetText replaces a text node's content if it differs.
func (w *Writer) SetText(n *html.Node, text string) {
	if n.Data == text {
		return
	}
	n.Data = text
	w.writes++
}

// attrKey resolves an attribute name to its stored (namespace, key) pair.
// Prefixes map to attribute namespaces only inside an SVG subtree; on other
// elements the prefixed name is the literal key.
func attrKey(n *html.Node, key string) (namespace, localKey string) {
	if n.Namespace != SVGNamespace {
		return "", key
	}
	if prefix, rest, ok := strings.Cut(key, ":"); ok {
		if ns, known := namespacedAttrs[prefix]; known {
			return ns, rest
		}
	}
	return "", key
}

// setAttr writes an attribute, honoring SVG attribute namespaces, and skips
// the write if the current value is already identical.
func (w *Writer) setAttr(n *html.Node, key, value string) {
	namespace, localKey := attrKey(n, key)

	for i := range n.Attr {
		if n.Attr[i].Key == localKey && n.Attr[i].Namespace == namespace {
			if n.Attr[i].Val == value {
				return
			}
			n.Attr[i].Val = value
			w.writes++
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Namespace: namespace, Key: localKey, Val: value})
	w.writes++
}

// removeAttr clears an attribute if present. The name resolves exactly as
// it did when written, so removal never misses or deletes a same-named
// attribute in another namespace.
func (w *Writer) removeAttr(n *html.Node, key string) {
	namespace, localKey := attrKey(n, key)

	for i := range n.Attr {
		if n.Attr[i].Key == localKey && n.Attr[i].Namespace == namespace {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			w.writes++
			return
		}
	}
}

// AttrString renders an attribute value for the DOM. Boolean true becomes
// an empty-valued attribute in the HTML convention.
func AttrString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return ""
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StyleString renders a style map as a deterministic style attribute value,
// properties sorted by name.
func StyleString(style map[string]string) string {
	props := make([]string, 0, len(style))
	for prop := range style {
		props = append(props, prop)
	}
	sort.Strings(props)

	var b strings.Builder
	for i, prop := range props {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(style[prop])
	}
	return b.String()
}

// normalizeStyle canonicalizes color-valued properties to lowercase hex.
// Unparseable color values pass through verbatim.
func normalizeStyle(style map[string]string) map[string]string {
	if len(style) == 0 {
		return nil
	}
	out := make(map[string]string, len(style))
	for prop, value := range style {
		out[prop] = value
		if _, ok := colorProps[prop]; !ok {
			continue
		}
		if c, err := colorful.Hex(strings.TrimSpace(value)); err == nil {
			out[prop] = c.Hex()
		}
	}
	return out
}

func styleEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for prop, value := range a {
		if b[prop] != value {
			return false
		}
	}
	return true
}
