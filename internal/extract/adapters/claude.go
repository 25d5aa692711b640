package adapters

import (
	"strings"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// ClaudeAdapter builds documents from claude.ai shared-conversation
// pages.
type ClaudeAdapter struct {
	BaseAdapter
}

// NewClaudeAdapter creates a new Claude adapter
func NewClaudeAdapter() *ClaudeAdapter {
	return &ClaudeAdapter{}
}

// Name returns the adapter name
func (a *ClaudeAdapter) Name() string {
	return "claude"
}

// CanHandle checks if this is a Claude conversation URL
func (a *ClaudeAdapter) CanHandle(rawURL string, contentType string) bool {
	return strings.Contains(rawURL, "claude.ai")
}

// BuildDocument extracts message turns by their message classes,
// falling back to the whole body when the markup is not recognized.
func (a *ClaudeAdapter) BuildDocument(doc *html.Node, rawURL string) (*model.Document, error) {
	turns := a.FindAll(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		return a.HasClass(n, "font-user-message") || a.HasClass(n, "font-claude-message")
	})

	root := &model.Node{Kind: model.NodeBlock, Name: "conversation"}
	for _, turn := range turns {
		role := "assistant"
		if a.HasClass(turn, "font-user-message") {
			role = "user"
		}
		children := a.BuildSubtree(turn)
		if len(children) == 0 {
			continue
		}
		root.Children = append(root.Children, &model.Node{
			Kind:     model.NodeBlock,
			Name:     "turn:" + role,
			Children: children,
		})
	}

	if len(root.Children) == 0 {
		root = &model.Node{
			Kind:     model.NodeBlock,
			Name:     "body",
			Children: a.BuildSubtree(a.Body(doc)),
		}
	}

	return &model.Document{
		Source: rawURL,
		Title:  a.Title(doc),
		Root:   root,
	}, nil
}
