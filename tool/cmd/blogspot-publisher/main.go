package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rmarken5/blogspot-publisher/tool/logic/blogger"
	"github.com/rmarken5/blogspot-publisher/tool/logic/publish"
)

var title = flag.String("title", "", "title of the blog post")
var sourceFile = flag.String("source-file", "", "path to the source HTML or markdown file")
var blogID = flag.String("blog-id", "", "Blogger blog id (env BLOGGER_BLOG_ID)")
var clientID = flag.String("client-id", "", "OAuth client id (env BLOGGER_CLIENT_ID)")
var clientSecret = flag.String("client-secret", "", "OAuth client secret (env BLOGGER_CLIENT_SECRET)")
var refreshToken = flag.String("refresh-token", "", "OAuth refresh token (env BLOGGER_REFRESH_TOKEN)")
var labels = flag.String("labels", "", "comma-separated list of labels")
var dryRun = flag.Bool("dry-run", false, "setting the dry-run flag will run the pipeline without creating or updating any post")

const (
	exitUsage          = 2
	exitExtraction     = 3
	exitImageNotFound  = 4
	exitImageProcess   = 5
	exitAuthentication = 6
	exitPublish        = 7
)

func main() {

	flag.Parse()
	// secrets arrive as env vars in CI; .env is for local runs
	_ = godotenv.Load()

	blog := flagOrEnv(*blogID, "BLOGGER_BLOG_ID")
	oauthID := flagOrEnv(*clientID, "BLOGGER_CLIENT_ID")
	oauthSecret := flagOrEnv(*clientSecret, "BLOGGER_CLIENT_SECRET")
	oauthToken := flagOrEnv(*refreshToken, "BLOGGER_REFRESH_TOKEN")

	if *title == "" || *sourceFile == "" {
		log.Printf("-title and -source-file are required")
		os.Exit(exitUsage)
	}
	if blog == "" || oauthID == "" || oauthSecret == "" || oauthToken == "" {
		log.Printf("-blog-id, -client-id, -client-secret and -refresh-token are required")
		os.Exit(exitUsage)
	}

	log.Println("DryRun: ", *dryRun)

	ctx := context.Background()
	httpClient := blogger.NewOAuthHTTPClient(ctx, oauthID, oauthSecret, oauthToken)

	var postsClient blogger.PostsClient
	clientImpl := blogger.New(httpClient)
	postsClient = clientImpl
	if *dryRun {
		postsClient = &blogger.NoOp{
			PostsClient: clientImpl,
		}
	}

	contentHandler := publish.NewHandleContent()
	imageHandler := publish.NewHandleImage()
	mdHandler := publish.NewHandleMarkdown()
	publisher := publish.NewPostPublisher(contentHandler, imageHandler, mdHandler, postsClient)

	post, err := publisher.PublishPost(ctx, publish.PublishRequest{
		BlogID:     blog,
		Title:      *title,
		SourcePath: *sourceFile,
		Labels:     parseLabels(*labels),
	})
	if err != nil {
		slog.Error("error publishing post", "error", err)
		os.Exit(exitCode(err))
	}

	log.Printf("published draft %s: %s", post.ID, post.URL)
}

func flagOrEnv(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}

func parseLabels(raw string) []string {
	if raw == "" {
		return nil
	}
	parsed := make([]string, 0)
	for _, label := range strings.Split(raw, ",") {
		if label = strings.TrimSpace(label); label != "" {
			parsed = append(parsed, label)
		}
	}
	return parsed
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, publish.ErrNoBodyTag):
		return exitExtraction
	case errors.Is(err, publish.ErrImageNotFound):
		return exitImageNotFound
	case errors.Is(err, publish.ErrImageDecode):
		return exitImageProcess
	case errors.Is(err, blogger.ErrAuthentication):
		return exitAuthentication
	case errors.Is(err, blogger.ErrPublish):
		return exitPublish
	}
	return 1
}
