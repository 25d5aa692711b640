package adapters

import (
	"strings"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// Adapter defines the interface for site-specific document builders.
// Adapters are swappable per site but must all produce the stable
// text-bearing node shape the linearizer expects.
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(url string, contentType string) bool

	// BuildDocument converts parsed HTML into a document snapshot
	BuildDocument(doc *html.Node, url string) (*model.Document, error)
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters registered
// and the generic adapter as fallback.
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewChatGPTAdapter())
	registry.Register(NewClaudeAdapter())

	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url, contentType) {
			return adapter
		}
	}
	return r.generic
}

// skippedTags are elements whose text never reaches the reader
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"template": true,
	"head":     true,
}

// inlineTags are elements that do not break text flow; their children
// fold into the surrounding block so words joined by markup stay joined
// in the linearized text.
var inlineTags = map[string]bool{
	"a": true, "b": true, "i": true, "u": true, "s": true,
	"em": true, "strong": true, "span": true, "code": true,
	"sub": true, "sup": true, "mark": true, "small": true,
	"abbr": true, "time": true,
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// ParseHTML parses an HTML string into a node tree
func (b *BaseAdapter) ParseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// BuildSubtree converts an HTML subtree into document nodes. Skipped
// elements are dropped with their text; inline elements are folded
// into their parent; everything else becomes a block node.
func (b *BaseAdapter) BuildSubtree(n *html.Node) []*model.Node {
	var out []*model.Node

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			out = append(out, &model.Node{Kind: model.NodeText, Text: c.Data})
		case html.ElementNode:
			if skippedTags[c.Data] {
				continue
			}
			children := b.BuildSubtree(c)
			if inlineTags[c.Data] {
				out = append(out, children...)
				continue
			}
			if len(children) > 0 {
				out = append(out, &model.Node{
					Kind:     model.NodeBlock,
					Name:     c.Data,
					Children: children,
				})
			}
		}
	}

	return out
}

// Title extracts the page title, if any
func (b *BaseAdapter) Title(doc *html.Node) string {
	title := b.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if title == nil || title.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(title.FirstChild.Data)
}

// Body returns the body element, or the whole tree if parsing did not
// produce one.
func (b *BaseAdapter) Body(doc *html.Node) *html.Node {
	body := b.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if body == nil {
		return doc
	}
	return body
}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, class := range strings.Fields(attr.Val) {
				if class == className {
					return true
				}
			}
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindAll finds all nodes matching a predicate
func (b *BaseAdapter) FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
