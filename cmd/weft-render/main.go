// Package main renders a JSON document model to HTML on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/weft"
	"github.com/dshills/weft/internal/dom"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inputPath   string
		verbosity   int
		showVersion bool
	)
	flag.StringVar(&inputPath, "input", "-", "Path to the JSON document model, or - for stdin")
	flag.StringVar(&inputPath, "i", "-", "Path to the JSON document model (shorthand)")
	flag.IntVar(&verbosity, "verbose", 0, "Log verbosity (0 = warnings only)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("weft-render %s (%s)\n", version, commit)
		return 0
	}

	commonlog.Configure(verbosity, nil)

	root, err := loadDocument(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load document: %v\n", err)
		return 1
	}

	out, err := render(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: render failed: %v\n", err)
		return 1
	}

	fmt.Println(out)
	return 0
}

// docNode is the JSON wire shape of a document node.
type docNode struct {
	SID      string         `json:"sid"`
	SType    string         `json:"stype"`
	Text     string         `json:"text"`
	Marks    []docMark      `json:"marks"`
	Attrs    map[string]any `json:"attrs"`
	Children []*docNode     `json:"children"`
}

// docMark is the JSON wire shape of a mark; the range is a [start, end] pair.
type docMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs"`
	Range []int          `json:"range"`
}

func loadDocument(path string) (*weft.Node, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var doc docNode
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toNode()
}

func (d *docNode) toNode() (*weft.Node, error) {
	n := &weft.Node{
		SID:   d.SID,
		SType: d.SType,
		Text:  d.Text,
		Attrs: d.Attrs,
	}
	for _, m := range d.Marks {
		mark := weft.Mark{Type: m.Type, Attrs: m.Attrs}
		if len(m.Range) > 0 {
			if len(m.Range) != 2 {
				return nil, fmt.Errorf("mark %q: range must be a [start, end] pair", m.Type)
			}
			mark.Range = &weft.Range{Start: m.Range[0], End: m.Range[1]}
		}
		n.Marks = append(n.Marks, mark)
	}
	for _, c := range d.Children {
		child, err := c.toNode()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func render(root *weft.Node) (string, error) {
	r := weft.NewRenderer()
	registerDefaults(r)

	container := dom.NewContainer("body")
	if err := r.Render(container, root, nil, nil, nil, weft.Options{}); err != nil {
		return "", err
	}
	return dom.SerializeChildren(container)
}

// registerDefaults installs templates for the common document node and mark
// types. Unregistered types still render through the registry fallbacks.
func registerDefaults(r *weft.Renderer) {
	elem := func(tag string) weft.Template {
		return weft.Func(func(ctx *weft.Context) *weft.VNode {
			return &weft.VNode{Tag: tag, Children: ctx.Children}
		})
	}

	r.Register("document", weft.KindNode, elem("article"))
	r.Register("paragraph", weft.KindNode, elem("p"))
	r.Register("heading", weft.KindNode, elem("h2"))
	r.Register("blockquote", weft.KindNode, elem("blockquote"))
	r.Register("list", weft.KindNode, elem("ul"))
	r.Register("list-item", weft.KindNode, elem("li"))

	r.Register("bold", weft.KindMark, elem("strong"))
	r.Register("italic", weft.KindMark, elem("em"))
	r.Register("code", weft.KindMark, elem("code"))
	r.Register("underline", weft.KindMark, elem("u"))
	r.Register("strikethrough", weft.KindMark, elem("s"))
}
