package extract

import (
	"strings"
	"testing"

	"github.com/bhi5hmaraj/anchorage/internal/anchor"
	"github.com/bhi5hmaraj/anchorage/internal/extract/adapters"
	"github.com/bhi5hmaraj/anchorage/internal/model"
	"golang.org/x/net/html"
)

// flatten renders a document the way the anchoring engine sees it
func flatten(t *testing.T, doc *model.Document) string {
	t.Helper()
	return anchor.NewLinearizer().Linearize(doc).Text
}

func TestExtract_GenericPage(t *testing.T) {
	page := `<html>
<head><title>  A Test Page </title><style>body { color: red }</style></head>
<body>
  <h1>Heading</h1>
  <p>First paragraph with <b>bold</b> and <a href="/x">linked</a> words.</p>
  <script>console.log("invisible");</script>
  <p>Second paragraph.</p>
</body>
</html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://example.com/post", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Title != "A Test Page" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Source != "https://example.com/post" {
		t.Errorf("source = %q", doc.Source)
	}

	text := flatten(t, doc)
	want := "Heading First paragraph with bold and linked words. Second paragraph."
	if text != want {
		t.Errorf("flattened text = %q, want %q", text, want)
	}
	if strings.Contains(text, "invisible") || strings.Contains(text, "color: red") {
		t.Errorf("script or style text leaked into %q", text)
	}
}

func TestExtract_InlineMarkupDoesNotSplitWords(t *testing.T) {
	page := `<html><body><p>over<b>reach</b> and re<em>mark</em>able</p></body></html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://example.com/", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	text := flatten(t, doc)
	if text != "overreach and remarkable" {
		t.Errorf("flattened text = %q", text)
	}
}

func TestExtract_ChatGPTTurns(t *testing.T) {
	page := `<html><head><title>Shared Conversation</title></head><body>
<div class="chrome">Site navigation noise</div>
<div data-message-author-role="user"><p>What is a fox?</p></div>
<div data-message-author-role="assistant"><p>A fox is a small canid.</p></div>
</body></html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://chatgpt.com/share/abc123", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].Name != "turn:user" {
		t.Errorf("first turn = %q, want turn:user", doc.Root.Children[0].Name)
	}
	if doc.Root.Children[1].Name != "turn:assistant" {
		t.Errorf("second turn = %q, want turn:assistant", doc.Root.Children[1].Name)
	}

	text := flatten(t, doc)
	if text != "What is a fox? A fox is a small canid." {
		t.Errorf("flattened text = %q", text)
	}
	if strings.Contains(text, "navigation noise") {
		t.Errorf("chrome leaked into %q", text)
	}
}

func TestExtract_ChatGPTFallsBackWithoutTurnMarkup(t *testing.T) {
	page := `<html><body><p>Plain content, no turn attributes anywhere.</p></body></html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://chatgpt.com/share/xyz", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text := flatten(t, doc); text != "Plain content, no turn attributes anywhere." {
		t.Errorf("flattened text = %q", text)
	}
}

func TestExtract_ClaudeTurns(t *testing.T) {
	page := `<html><body>
<div class="font-user-message"><p>Summarize the report.</p></div>
<div class="font-claude-message"><p>The report covers three findings.</p></div>
</body></html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://claude.ai/share/def456", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].Name != "turn:user" || doc.Root.Children[1].Name != "turn:assistant" {
		t.Errorf("turn names = %q, %q", doc.Root.Children[0].Name, doc.Root.Children[1].Name)
	}
}

func TestExtract_UnknownSiteUsesGeneric(t *testing.T) {
	page := `<html><body><p>Arbitrary page body.</p></body></html>`

	doc, err := NewDocumentExtractor().Extract(page, "https://blog.example.org/entry", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Root.Name != "body" {
		t.Errorf("root = %q, want the generic body root", doc.Root.Name)
	}
}

func TestExtract_CustomAdapterTakesPriority(t *testing.T) {
	e := NewDocumentExtractor()
	e.Register(&staticAdapter{})

	doc, err := e.Extract("<html><body>ignored</body></html>", "https://static.test/x", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if flatten(t, doc) != "static adapter output" {
		t.Errorf("custom adapter was not consulted")
	}
}

func TestExtract_SnapshotsAreIndependent(t *testing.T) {
	page := `<html><body><p>same page twice</p></body></html>`
	e := NewDocumentExtractor()

	a, err := e.Extract(page, "https://example.com/", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	b, err := e.Extract(page, "https://example.com/", "text/html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if flatten(t, a) != flatten(t, b) {
		t.Error("two snapshots of identical HTML flattened differently")
	}
	if a.Root == b.Root {
		t.Error("snapshots share node identity")
	}
}

// staticAdapter claims one host and emits a fixed document
type staticAdapter struct {
	adapters.BaseAdapter
}

func (a *staticAdapter) Name() string { return "static" }

func (a *staticAdapter) CanHandle(rawURL, contentType string) bool {
	return strings.Contains(rawURL, "static.test")
}

func (a *staticAdapter) BuildDocument(doc *html.Node, rawURL string) (*model.Document, error) {
	return &model.Document{
		Source: rawURL,
		Root: &model.Node{
			Kind: model.NodeBlock,
			Name: "body",
			Children: []*model.Node{
				{Kind: model.NodeText, Text: "static adapter output"},
			},
		},
	}, nil
}
