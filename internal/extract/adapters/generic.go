package adapters

import (
	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// GenericAdapter builds a document from the visible body text of any
// HTML page. It is the fallback when no site-specific adapter claims
// the URL.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true; the registry only consults the
// generic adapter as a fallback.
func (a *GenericAdapter) CanHandle(rawURL string, contentType string) bool {
	return true
}

// BuildDocument converts the page body into a document tree
func (a *GenericAdapter) BuildDocument(doc *html.Node, rawURL string) (*model.Document, error) {
	root := &model.Node{
		Kind:     model.NodeBlock,
		Name:     "body",
		Children: a.BuildSubtree(a.Body(doc)),
	}

	return &model.Document{
		Source: rawURL,
		Title:  a.Title(doc),
		Root:   root,
	}, nil
}
