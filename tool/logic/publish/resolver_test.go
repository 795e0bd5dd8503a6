package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rmarken5/blogspot-publisher/tool/logic/blogger"
)

func TestResolvePost(t *testing.T) {
	tests := []struct {
		name  string
		title string
		posts []blogger.Post
		want  Decision
	}{
		{
			name:  "no posts creates",
			title: "Weekly Digest",
			posts: nil,
			want:  Decision{Action: ActionCreate},
		},
		{
			name:  "no matching title creates",
			title: "Weekly Digest",
			posts: []blogger.Post{
				{ID: "1", Title: "Other Post", Status: blogger.StatusDraft},
			},
			want: Decision{Action: ActionCreate},
		},
		{
			name:  "matching draft updates",
			title: "Weekly Digest",
			posts: []blogger.Post{
				{ID: "1", Title: "Other Post", Status: blogger.StatusDraft},
				{ID: "2", Title: "Weekly Digest", Status: blogger.StatusDraft},
			},
			want: Decision{Action: ActionUpdate, PostID: "2"},
		},
		{
			name:  "matching live post creates instead",
			title: "Weekly Digest",
			posts: []blogger.Post{
				{ID: "2", Title: "Weekly Digest", Status: blogger.StatusLive},
			},
			want: Decision{Action: ActionCreate},
		},
		{
			name:  "matching scheduled post creates instead",
			title: "Weekly Digest",
			posts: []blogger.Post{
				{ID: "2", Title: "Weekly Digest", Status: blogger.StatusScheduled},
			},
			want: Decision{Action: ActionCreate},
		},
		{
			name:  "title match is case sensitive",
			title: "Weekly Digest",
			posts: []blogger.Post{
				{ID: "2", Title: "weekly digest", Status: blogger.StatusDraft},
			},
			want: Decision{Action: ActionCreate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePost(tt.title, tt.posts))
		})
	}
}
