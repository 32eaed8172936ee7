package template

import (
	"errors"
	"testing"

	"github.com/dshills/weft/internal/core"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNode, "node"},
		{KindMark, "mark"},
		{KindDecorator, "decorator"},
		{KindComponent, "component"},
		{Kind(255), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	r.Register("bold", KindMark, Func(func(ctx *Context) *core.VNode {
		return &core.VNode{Tag: "strong", Children: ctx.Children}
	}))

	entry, ok := r.Resolve("bold")
	if !ok {
		t.Fatal("bold not resolved")
	}
	if entry.Kind != KindMark {
		t.Errorf("kind = %v, want mark", entry.Kind)
	}

	v := entry.Template.Render(&Context{Children: []*core.VNode{core.TextNode("x")}})
	if v.Tag != "strong" || len(v.Children) != 1 {
		t.Errorf("rendered %+v", v)
	}
}

func TestResolveComponentMissingIsError(t *testing.T) {
	r := NewRegistry()

	_, err := r.ResolveComponent("widget")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("err = %v, want ErrUnknownComponent", err)
	}

	// A mark registration does not satisfy a component lookup.
	r.Register("widget", KindMark, defaultMarkTemplate("widget"))
	if _, err := r.ResolveComponent("widget"); err == nil {
		t.Error("mark registration satisfied component lookup")
	}

	r.Register("widget", KindComponent, Func(func(ctx *Context) *core.VNode {
		return &core.VNode{Tag: "div", SID: ctx.SID, SType: ctx.SType}
	}))
	if _, err := r.ResolveComponent("widget"); err != nil {
		t.Errorf("resolve after registration: %v", err)
	}
	if !r.IsComponent("widget") {
		t.Error("IsComponent = false after registration")
	}
}

func TestResolveMarkFallback(t *testing.T) {
	r := NewRegistry()
	tpl := r.ResolveMark("underline")

	v := tpl.Render(&Context{Children: []*core.VNode{core.TextNode("x")}})
	if v.Tag != "span" {
		t.Errorf("fallback tag = %q, want span", v.Tag)
	}
	if !core.ClassesEqual(v.Attrs["class"], "mark-underline") {
		t.Errorf("fallback class = %v", v.Attrs["class"])
	}
}

func TestResolveDecoratorFallback(t *testing.T) {
	r := NewRegistry()

	tpl, registered := r.ResolveDecorator("chip")
	if registered {
		t.Fatal("unregistered decorator reported as registered")
	}

	v := tpl.Render(&Context{})
	if v.Attrs["data-decorator-error"] != "chip" {
		t.Errorf("fallback fragment missing error marker: %+v", v.Attrs)
	}

	r.Register("chip", KindDecorator, Func(func(ctx *Context) *core.VNode {
		return &core.VNode{Tag: "span", Attrs: map[string]any{"class": "chip"}}
	}))
	if _, registered := r.ResolveDecorator("chip"); !registered {
		t.Error("registered decorator reported as missing")
	}
}
