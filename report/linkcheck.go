package report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/shibukawa/erdump/erdiagram"
)

// Heading is a Markdown heading
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced code block
type CodeBlock struct {
	Language string
	Content  string
}

// DocumentSummary is the structure of a Markdown document
type DocumentSummary struct {
	Headings   []Heading
	Links      []string
	CodeBlocks []CodeBlock
}

// Diagrams returns the content of the mermaid code blocks
func (s DocumentSummary) Diagrams() []string {
	var diagrams []string

	for _, block := range s.CodeBlocks {
		if block.Language == "mermaid" {
			diagrams = append(diagrams, block.Content)
		}
	}

	return diagrams
}

// BrokenLink is a relative document link without a target in the set
type BrokenLink struct {
	Document    string
	Destination string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: %s", b.Document, b.Destination)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
)

// Inspect parses a Markdown document
func Inspect(content string) DocumentSummary {
	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var summary DocumentSummary

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			summary.Headings = append(summary.Headings, Heading{
				Level: node.Level,
				Text:  nodeText(node, source),
			})

			return ast.WalkSkipChildren, nil
		case *ast.Link:
			summary.Links = append(summary.Links, string(node.Destination))
		case *ast.FencedCodeBlock:
			summary.CodeBlocks = append(summary.CodeBlocks, CodeBlock{
				Language: string(node.Language(source)),
				Content:  blockContent(node, source),
			})
		}

		return ast.WalkContinue, nil
	})

	return summary
}

// CheckLinks verifies that every relative link to a Markdown file points to
// a document in the set. External links and anchors are ignored.
func CheckLinks(docs []erdiagram.Document) []BrokenLink {
	names := make(map[string]bool, len(docs))
	for _, doc := range docs {
		names[doc.Name] = true
	}

	var broken []BrokenLink

	for _, doc := range docs {
		for _, link := range Inspect(doc.Content).Links {
			target, ok := documentTarget(link)
			if ok && !names[target] {
				broken = append(broken, BrokenLink{Document: doc.Name, Destination: link})
			}
		}
	}

	return broken
}

// Verify returns ErrBrokenLinks when CheckLinks finds anything
func Verify(docs []erdiagram.Document) error {
	broken := CheckLinks(docs)
	if len(broken) == 0 {
		return nil
	}

	details := make([]string, 0, len(broken))
	for _, b := range broken {
		details = append(details, b.String())
	}

	return fmt.Errorf("%w: %s", ErrBrokenLinks, strings.Join(details, ", "))
}

// documentTarget returns the file part of a relative .md link
func documentTarget(destination string) (string, bool) {
	u, err := url.Parse(destination)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}

	if !strings.HasSuffix(u.Path, ".md") {
		return "", false
	}

	return strings.TrimPrefix(u.Path, "./"), true
}

func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

func blockContent(node ast.Node, source []byte) string {
	var sb strings.Builder

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}

	return sb.String()
}
