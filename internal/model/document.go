package model

// NodeKind distinguishes text-bearing nodes from structural containers
type NodeKind string

const (
	// NodeText carries literal document text
	NodeText NodeKind = "text"
	// NodeBlock is a structural container (paragraph, turn, list item)
	NodeBlock NodeKind = "block"
)

// Node is a single node in a document tree. Text nodes carry content;
// block nodes carry a role name and children. Offsets into Text are
// byte offsets.
type Node struct {
	Kind     NodeKind
	Name     string // role for block nodes, e.g. "p", "turn:user"
	Text     string // content for text nodes
	Children []*Node
}

// Document is an ordered tree of text-bearing nodes produced by a site
// adapter. It is a point-in-time snapshot: two snapshots of the same
// source taken at different times may differ structurally.
type Document struct {
	Source string `json:"source"` // URL or file path the snapshot came from
	Title  string `json:"title,omitempty"`
	Root   *Node  `json:"-"`
}

// TextNodes returns the document's text nodes in document order.
func (d *Document) TextNodes() []*Node {
	var nodes []*Node

	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == NodeText {
			nodes = append(nodes, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}

	if d != nil {
		walk(d.Root)
	}
	return nodes
}
