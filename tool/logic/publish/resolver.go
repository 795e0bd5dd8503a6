package publish

import (
	"log/slog"

	"github.com/rmarken5/blogspot-publisher/tool/logic/blogger"
)

type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
)

// Decision is the resolver's verdict: create a new draft, or update the
// existing post identified by PostID.
type Decision struct {
	Action Action
	PostID string
}

// ResolvePost searches the remote listing for an exact, case-sensitive title
// match. Only a DRAFT match is eligible for update; a LIVE or SCHEDULED post
// with the same title is left untouched and a new post is created instead.
func ResolvePost(title string, posts []blogger.Post) Decision {
	for _, post := range posts {
		if post.Title != title {
			continue
		}
		if post.Status == blogger.StatusDraft {
			slog.Info("found existing draft", "title", title, "post", post.ID)
			return Decision{Action: ActionUpdate, PostID: post.ID}
		}
		slog.Warn("existing post is not a draft, creating a new post", "title", title, "post", post.ID, "status", post.Status)
		return Decision{Action: ActionCreate}
	}
	return Decision{Action: ActionCreate}
}
