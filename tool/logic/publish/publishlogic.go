package publish

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rmarken5/blogspot-publisher/tool/logic/blogger"
)

type (
	PostPublisher interface {
		PublishPost(ctx context.Context, req PublishRequest) (blogger.Post, error)
	}
	PublishPost struct {
		contentHandler  ContentHandler
		imageHandler    ImageHandler
		markdownHandler MarkdownHandler
		client          blogger.PostsClient
	}

	// PublishRequest carries one invocation's inputs.
	PublishRequest struct {
		BlogID     string
		Title      string
		SourcePath string
		Labels     []string
	}
)

func NewPostPublisher(contentHandler ContentHandler, imageHandler ImageHandler, markdownHandler MarkdownHandler, client blogger.PostsClient) *PublishPost {
	return &PublishPost{
		contentHandler:  contentHandler,
		imageHandler:    imageHandler,
		markdownHandler: markdownHandler,
		client:          client,
	}
}

// PublishPost runs the whole pipeline: read the source, extract the
// publishable content, inline styles, embed local images, then create or
// update the remote draft. Exactly one list call and one mutation are issued
// per invocation, and only after the content fully resolved.
func (p PublishPost) PublishPost(ctx context.Context, req PublishRequest) (blogger.Post, error) {
	source, err := os.Open(req.SourcePath)
	if err != nil {
		slog.Error("error opening source file", "path", req.SourcePath, "error", err)
		return blogger.Post{}, err
	}
	defer source.Close()

	var content io.Reader = source
	if p.markdownHandler.IsMarkdownSource(req.SourcePath) {
		htmlBytes, err := p.markdownHandler.ConvertMarkdown(ctx, source)
		if err != nil {
			slog.Error("error converting markdown source", "path", req.SourcePath, "error", err)
			return blogger.Post{}, err
		}
		content = bytes.NewReader(htmlBytes)
	}

	extracted, err := p.contentHandler.ExtractContent(ctx, content)
	if err != nil {
		slog.Error("error extracting content", "path", req.SourcePath, "error", err)
		return blogger.Post{}, err
	}

	if extracted.Style != "" {
		minified, err := p.contentHandler.MinifyStyle(ctx, extracted.Style)
		if err != nil {
			slog.Error("error minifying style block", "error", err)
			return blogger.Post{}, err
		}
		extracted.Style = minified
	}
	body := p.contentHandler.InlineStyle(ctx, extracted)

	body, err = p.imageHandler.EmbedImages(ctx, body, filepath.Dir(req.SourcePath))
	if err != nil {
		slog.Error("error embedding images", "path", req.SourcePath, "error", err)
		return blogger.Post{}, err
	}

	posts, err := p.client.ListPosts(ctx, req.BlogID)
	if err != nil {
		slog.Error("error listing existing posts", "blog", req.BlogID, "error", err)
		return blogger.Post{}, err
	}
	decision := ResolvePost(req.Title, posts)

	payload := blogger.PostPayload{
		Title:   req.Title,
		Content: body,
		Labels:  req.Labels,
	}

	if decision.Action == ActionUpdate {
		updated, err := p.client.UpdatePost(ctx, req.BlogID, decision.PostID, payload)
		if err != nil {
			slog.Error("error updating post", "blog", req.BlogID, "post", decision.PostID, "error", err)
			return blogger.Post{}, err
		}
		slog.Info("updated existing draft", "post", updated.ID, "url", updated.URL)
		return updated, nil
	}

	created, err := p.client.InsertDraft(ctx, req.BlogID, payload)
	if err != nil {
		slog.Error("error creating draft", "blog", req.BlogID, "title", req.Title, "error", err)
		return blogger.Post{}, err
	}
	slog.Info("created new draft", "post", created.ID, "url", created.URL)
	return created, nil
}
