package publish

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const markdownFileExtension = ".md"

var _ MarkdownHandler = HandleMarkdown{}

type (
	MarkdownHandler interface {
		IsMarkdownSource(path string) bool
		ConvertMarkdown(ctx context.Context, r io.Reader) ([]byte, error)
	}

	HandleMarkdown struct {
	}
)

func NewHandleMarkdown() *HandleMarkdown {
	return &HandleMarkdown{}
}

func (m HandleMarkdown) IsMarkdownSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), markdownFileExtension)
}

// ConvertMarkdown renders a markdown source into an HTML fragment. The
// fragment then flows through the normal extraction and embedding steps.
func (m HandleMarkdown) ConvertMarkdown(ctx context.Context, r io.Reader) ([]byte, error) {
	mdBytes, err := io.ReadAll(r)
	if err != nil {
		slog.Error("error reading md", "error", err)
		return nil, err
	}
	return mdToHTML(mdBytes), nil
}

func mdToHTML(md []byte) []byte {
	// create markdown parser with extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	// create HTML renderer with extensions; no CompletePage so the output
	// stays a fragment
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}
