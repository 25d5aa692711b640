package extract

import (
	"fmt"
	"strings"

	"github.com/bhi5hmaraj/anchorage/internal/extract/adapters"
	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// DocumentExtractor turns raw HTML into the document tree the
// anchoring engine consumes, choosing a site adapter by URL.
type DocumentExtractor struct {
	registry *adapters.Registry
}

// NewDocumentExtractor creates an extractor with the built-in adapters
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{
		registry: adapters.NewRegistry(),
	}
}

// Register adds a custom site adapter ahead of the fallback
func (e *DocumentExtractor) Register(adapter adapters.Adapter) {
	e.registry.Register(adapter)
}

// Extract parses the HTML and builds a document snapshot for the
// source URL. Two snapshots of the same source taken at different
// times need not be structurally identical; the resolver tolerates
// drift between them.
func (e *DocumentExtractor) Extract(htmlContent, rawURL, contentType string) (*model.Document, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	adapter := e.registry.FindAdapter(rawURL, contentType)
	out, err := adapter.BuildDocument(doc, rawURL)
	if err != nil {
		return nil, fmt.Errorf("adapter %s: %w", adapter.Name(), err)
	}
	return out, nil
}
