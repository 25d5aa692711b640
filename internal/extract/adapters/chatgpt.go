package adapters

import (
	"strings"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// ChatGPTAdapter builds documents from ChatGPT shared-conversation
// pages. Each message turn becomes one block node so a span marked in
// one turn cannot silently re-anchor into another.
type ChatGPTAdapter struct {
	BaseAdapter
}

// NewChatGPTAdapter creates a new ChatGPT adapter
func NewChatGPTAdapter() *ChatGPTAdapter {
	return &ChatGPTAdapter{}
}

// Name returns the adapter name
func (a *ChatGPTAdapter) Name() string {
	return "chatgpt"
}

// CanHandle checks if this is a ChatGPT conversation URL
func (a *ChatGPTAdapter) CanHandle(rawURL string, contentType string) bool {
	return strings.Contains(rawURL, "chatgpt.com") || strings.Contains(rawURL, "chat.openai.com")
}

// BuildDocument extracts message turns. Pages without recognizable
// turn markup fall back to the whole body, so a markup change on the
// site degrades to generic extraction instead of an empty document.
func (a *ChatGPTAdapter) BuildDocument(doc *html.Node, rawURL string) (*model.Document, error) {
	turns := a.FindAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && a.GetAttribute(n, "data-message-author-role") != ""
	})

	root := &model.Node{Kind: model.NodeBlock, Name: "conversation"}
	for _, turn := range turns {
		role := a.GetAttribute(turn, "data-message-author-role")
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
