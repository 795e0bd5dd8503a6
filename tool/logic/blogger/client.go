package blogger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

var (
	ErrAuthentication = errors.New("blogger authentication failed")
	ErrPublish        = errors.New("error publishing to blogger")
)

const (
	DefaultBaseURL = "https://www.googleapis.com/blogger/v3"

	tokenURI     = "https://oauth2.googleapis.com/token"
	bloggerScope = "https://www.googleapis.com/auth/blogger"
	maxResults   = "500"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusLive      PostStatus = "LIVE"
	StatusScheduled PostStatus = "SCHEDULED"
)

type (
	// Post is a post resource as returned by the Blogger v3 API. Fetched
	// read-only; never mutated locally.
	Post struct {
		ID      string     `json:"id"`
		Title   string     `json:"title"`
		URL     string     `json:"url"`
		Status  PostStatus `json:"status"`
		Content string     `json:"content,omitempty"`
		Labels  []string   `json:"labels,omitempty"`
	}

	// PostPayload is the request body for insert and update calls.
	// Label order is preserved as given.
	PostPayload struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Labels  []string `json:"labels,omitempty"`
	}

	PostsClient interface {
		ListPosts(ctx context.Context, blogID string) ([]Post, error)
		InsertDraft(ctx context.Context, blogID string, payload PostPayload) (Post, error)
		UpdatePost(ctx context.Context, blogID, postID string, payload PostPayload) (Post, error)
	}
	Client struct {
		httpClient *http.Client
		baseURL    string
	}
	NoOp struct {
		PostsClient
	}
)

// NewOAuthHTTPClient builds an *http.Client that refreshes its access token
// from the given OAuth refresh token on demand.
func NewOAuthHTTPClient(ctx context.Context, clientID, clientSecret, refreshToken string) *http.Client {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURI},
		Scopes:       []string{bloggerScope},
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}))
}

func New(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
}

type postList struct {
	Items         []Post `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func (c Client) ListPosts(ctx context.Context, blogID string) ([]Post, error) {
	posts := make([]Post, 0)
	pageToken := ""
	for {
		u, err := url.Parse(fmt.Sprintf("%s/blogs/%s/posts", c.baseURL, url.PathEscape(blogID)))
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q["status"] = []string{string(StatusDraft), string(StatusLive), string(StatusScheduled)}
		q.Set("maxResults", maxResults)
		q.Set("fetchBodies", "false")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		u.RawQuery = q.Encode()

		var page postList
		if err := c.doJSON(ctx, http.MethodGet, u.String(), nil, &page); err != nil {
			slog.Error("error listing posts", "blog", blogID, "error", err)
			return nil, err
		}
		posts = append(posts, page.Items...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return posts, nil
}

func (c Client) InsertDraft(ctx context.Context, blogID string, payload PostPayload) (Post, error) {
	u := fmt.Sprintf("%s/blogs/%s/posts?isDraft=true", c.baseURL, url.PathEscape(blogID))
	var created Post
	if err := c.doJSON(ctx, http.MethodPost, u, payload, &created); err != nil {
		slog.Error("error inserting draft", "blog", blogID, "title", payload.Title, "error", err)
		return Post{}, err
	}
	return created, nil
}

func (c Client) UpdatePost(ctx context.Context, blogID, postID string, payload PostPayload) (Post, error) {
	u := fmt.Sprintf("%s/blogs/%s/posts/%s", c.baseURL, url.PathEscape(blogID), url.PathEscape(postID))
	var updated Post
	if err := c.doJSON(ctx, http.MethodPut, u, payload, &updated); err != nil {
		slog.Error("error updating post", "blog", blogID, "post", postID, "error", err)
		return Post{}, err
	}
	return updated, nil
}

func (c Client) doJSON(ctx context.Context, method, reqURL string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("refreshing access token: %w", ErrAuthentication)
		}
		return fmt.Errorf("%s %s: %w - %w", method, reqURL, err, ErrPublish)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: status %d: %w", method, reqURL, resp.StatusCode, ErrAuthentication)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s: status %d: %s: %w", method, reqURL, resp.StatusCode, bytes.TrimSpace(msg), ErrPublish)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (n NoOp) InsertDraft(ctx context.Context, blogID string, payload PostPayload) (Post, error) {
	slog.Info("NoOp insert for post", "blog", blogID, "title", payload.Title)
	return Post{Title: payload.Title, Status: StatusDraft}, nil
}

func (n NoOp) UpdatePost(ctx context.Context, blogID, postID string, payload PostPayload) (Post, error) {
	slog.Info("NoOp update for post", "blog", blogID, "post", postID)
	return Post{ID: postID, Title: payload.Title, Status: StatusDraft}, nil
}
