package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2/minify"
	"golang.org/x/net/html"
)

var _ ContentHandler = HandleContent{}

var ErrNoBodyTag = errors.New("no body tag in html document")

var (
	rootMarkerRegex = regexp.MustCompile(`(?i)<\s*(html|head|body)[\s>]`)
	bodyTagRegex    = regexp.MustCompile(`(?i)<\s*body[\s>]`)
)

type (
	// ExtractedContent is the publishable part of a source document: the
	// body markup and any style rules collected from the document.
	ExtractedContent struct {
		Body  string
		Style string
	}

	ContentHandler interface {
		ExtractContent(ctx context.Context, r io.Reader) (ExtractedContent, error)
		MinifyStyle(ctx context.Context, css string) (string, error)
		InlineStyle(ctx context.Context, content ExtractedContent) string
	}
	HandleContent struct {
	}
)

func NewHandleContent() *HandleContent {
	return &HandleContent{}
}

// ExtractContent decides whether the input is a full HTML document or a
// ready-to-publish fragment. Fragments pass through unchanged. For full
// documents it returns the body's inner markup plus the concatenated text
// of every style element, in document order; head metadata, titles and
// scripts are discarded.
func (h HandleContent) ExtractContent(ctx context.Context, r io.Reader) (ExtractedContent, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		slog.Error("error reading source content", "error", err)
		return ExtractedContent{}, err
	}

	if !rootMarkerRegex.Match(raw) {
		return ExtractedContent{Body: string(raw)}, nil
	}
	// html.Parse synthesizes html/head/body wrappers, so a missing body
	// has to be caught on the raw input.
	if !bodyTagRegex.Match(raw) {
		return ExtractedContent{}, ErrNoBodyTag
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		slog.Error("error parsing html document", "error", err)
		return ExtractedContent{}, err
	}

	styleNodes := collectStyleNodes(doc)
	var style strings.Builder
	for _, n := range styleNodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				style.WriteString(c.Data)
			}
		}
	}
	// Style elements inside the body would otherwise be duplicated once
	// the style block is re-inlined.
	for _, n := range styleNodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	body := findElement(doc, "body")
	if body == nil {
		return ExtractedContent{}, ErrNoBodyTag
	}

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			slog.Error("error rendering body content", "error", err)
			return ExtractedContent{}, err
		}
	}

	return ExtractedContent{
		Body:  buf.String(),
		Style: style.String(),
	}, nil
}

func (h HandleContent) MinifyStyle(ctx context.Context, css string) (string, error) {
	minifiedCSS, err := minify.CSS(css)
	if err != nil {
		slog.Error("error minifying style block", "error", err)
		return "", err
	}
	return minifiedCSS, nil
}

// InlineStyle prepends the style block to the body as a style element so the
// fragment is self-contained when embedded in the blog template.
func (h HandleContent) InlineStyle(_ context.Context, content ExtractedContent) string {
	if content.Style == "" {
		return content.Body
	}
	return "<style>" + content.Style + "</style>\n" + content.Body
}

func collectStyleNodes(n *html.Node) []*html.Node {
	var nodes []*html.Node
	if n.Type == html.ElementNode && n.Data == "style" {
		nodes = append(nodes, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, collectStyleNodes(c)...)
	}
	return nodes
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
