package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor converts markdown to plain text by walking the
// goldmark AST and collecting text segments.
type MarkdownExtractor struct {
	md goldmark.Markdown
}

// NewMarkdownExtractor creates a markdown extractor
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		md: goldmark.New(),
	}
}

// CanExtract reports whether the file is markdown
func (e *MarkdownExtractor) CanExtract(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

// Extract parses the markdown and returns its text content with block
// structure preserved as blank lines.
func (e *MarkdownExtractor) Extract(ctx context.Context, path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, isBlock := n.(*ast.Paragraph); isBlock {
				sb.WriteString("\n\n")
			} else if _, isHeading := n.(*ast.Heading); isHeading {
				sb.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.CodeBlock:
			writeCodeLines(&sb, v, source)
		case *ast.FencedCodeBlock:
			writeCodeLines(&sb, v, source)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown AST: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}

func writeCodeLines(sb *strings.Builder, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	sb.WriteString("\n\n")
}
