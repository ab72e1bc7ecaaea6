// Package render implements the small mustache-like template engine used to
// produce display markup. Templates are parsed once into a node sequence and
// rendered by walking that sequence against a context. Rendering is a pure
// function of template and context and never fails: unknown placeholders
// degrade to empty output, unterminated sections are closed at the end of
// the input and malformed tags are kept verbatim.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	tagOpen  = "{{"
	tagClose = "}}"

	eachOpenPrefix = "#each "
	ifOpenPrefix   = "#if "
	eachClose      = "/each"
	ifClose        = "/if"
)

// Context is the flattened key to value mapping a template is rendered
// against. List values must be of type []Context.
type Context map[string]any

// Template is a parsed template ready for rendering.
type Template struct {
	nodes []node
}

// Render walks the parsed node sequence against the given context and
// returns the produced document.
func (t *Template) Render(ctx Context) string {
	b := &strings.Builder{}

	renderNodes(b, t.nodes, ctx)

	return b.String()
}

type node interface {
	render(b *strings.Builder, ctx Context)
}

func renderNodes(b *strings.Builder, nodes []node, ctx Context) {
	for _, n := range nodes {
		n.render(b, ctx)
	}
}

// literal is a verbatim chunk of template text.
type literal string

func (l literal) render(b *strings.Builder, _ Context) {
	b.WriteString(string(l))
}

// variable is a {{key}} placeholder. Absent and nil values substitute the
// empty string, which also covers stripping of unknown placeholders.
type variable string

func (v variable) render(b *strings.Builder, ctx Context) {
	b.WriteString(stringify(ctx[string(v)]))
}

// eachBlock repeats its inner nodes once per list item. Item keys override
// outer context keys for the duration of the iteration.
type eachBlock struct {
	key   string
	inner []node
}

func (e *eachBlock) render(b *strings.Builder, ctx Context) {
	items, ok := ctx[e.key].([]Context)
	if !ok {
		return
	}

	for _, item := range items {
		scope := make(Context, len(ctx)+len(item))

		for k, v := range ctx {
			scope[k] = v
		}

		for k, v := range item {
			scope[k] = v
		}

		renderNodes(b, e.inner, scope)
	}
}

// ifBlock keeps its inner nodes when the context value is truthy. Boolean
// false, nil and absent values are all falsy; any other value is truthy.
type ifBlock struct {
	key   string
	inner []node
}

func (i *ifBlock) render(b *strings.Builder, ctx Context) {
	value, ok := ctx[i.key]
	if !ok || value == nil {
		return
	}

	if v, isBool := value.(bool); isBool && !v {
		return
	}

	renderNodes(b, i.inner, ctx)
}

// Parse builds a template from its textual form. Parsing never fails:
// anything that cannot be understood as a tag or a balanced section is kept
// as a placeholder that renders to the empty string.
func Parse(text string) *Template {
	p := &parser{rest: text}

	return &Template{nodes: p.parse("")}
}

type parser struct {
	rest     string
	eachSeen bool
}

// parse consumes nodes until the given closing tag or the end of input.
// An empty closing tag means parsing runs to the end of input.
func (p *parser) parse(until string) []node {
	var nodes []node

	for {
		start := strings.Index(p.rest, tagOpen)
		if start < 0 {
			if p.rest != "" {
				nodes = append(nodes, literal(p.rest))
				p.rest = ""
			}

			return nodes
		}

		end := strings.Index(p.rest[start:], tagClose)
		if end < 0 {
			nodes = append(nodes, literal(p.rest))
			p.rest = ""

			return nodes
		}

		if start > 0 {
			nodes = append(nodes, literal(p.rest[:start]))
		}

		tag := strings.TrimSpace(p.rest[start+len(tagOpen) : start+end])
		p.rest = p.rest[start+end+len(tagClose):]

		switch {
		case until != "" && tag == until:
			return nodes

		case strings.HasPrefix(tag, eachOpenPrefix):
			key := strings.TrimSpace(strings.TrimPrefix(tag, eachOpenPrefix))

			inner := p.parse(eachClose)

			// Only the first each section per template is honored.
			// Later ones degrade to their inner content without iteration.
			if p.eachSeen {
				nodes = append(nodes, inner...)

				continue
			}

			p.eachSeen = true
			nodes = append(nodes, &eachBlock{key: key, inner: inner})

		case strings.HasPrefix(tag, ifOpenPrefix):
			key := strings.TrimSpace(strings.TrimPrefix(tag, ifOpenPrefix))
			nodes = append(nodes, &ifBlock{key: key, inner: p.parse(ifClose)})

		case tag == eachClose || tag == ifClose:
			// Stray closing tag, strip it.

		default:
			nodes = append(nodes, variable(tag))
		}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
