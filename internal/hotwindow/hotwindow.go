// Package hotwindow derives the time-bounded "trending" projections from the
// raw post and comment snapshots. Derivations are pure and idempotent; they
// are recomputed from current snapshots whenever either input changes.
package hotwindow

import (
	"time"

	"codeshareforum/internal/entity"
)

// DiscussionWindow bounds the hot-discussions shelf.
// TrendingWindow bounds the per-post trending check. The two are evaluated
// independently and happen to share a value; they are deliberately not one
// setting.
const (
	DiscussionWindow = 24 * time.Hour
	TrendingWindow   = 24 * time.Hour

	// MaxDiscussions caps the shelf.
	MaxDiscussions = 8
)

// Discussion is one hot-discussions entry, projected from a recent comment
// joined to its currently-present parent post.
type Discussion struct {
	CommentID   string
	PostID      string
	PostTitle   string
	CommentText string
	CommentTime time.Time
}

// Discussions filters comments to the last 24 hours, drops any whose parent
// post is not in the current post snapshot, and caps the result at
// MaxDiscussions. Input order is preserved (the comment feed's own ordering,
// creation descending); there is no independent re-sort.
func Discussions(comments []*entity.Comment, posts []*entity.Post, now time.Time) []Discussion {
	cutoff := now.Add(-DiscussionWindow)

	byID := make(map[string]*entity.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	var out []Discussion
	for _, c := range comments {
		if c.CreatedAt.IsZero() || c.CreatedAt.Before(cutoff) {
			continue
		}
		post, ok := byID[c.PostID]
		if !ok {
			// Orphaned comment: its post was deleted. Render nothing for it.
			continue
		}
		out = append(out, Discussion{
			CommentID:   c.ID,
			PostID:      post.ID,
			PostTitle:   post.Title,
			CommentText: c.Text,
			CommentTime: c.CreatedAt,
		})
		if len(out) == MaxDiscussions {
			break
		}
	}
	return out
}

// IsTrending reports whether a post belongs on the trending shelf: created
// within the last 24 hours of now.
func IsTrending(post *entity.Post, now time.Time) bool {
	if post == nil || post.CreatedAt.IsZero() {
		return false
	}
	return !post.CreatedAt.Before(now.Add(-TrendingWindow))
}

// TrendingPosts filters a post snapshot to the trending shelf, preserving
// input order. An empty result means the shelf is not rendered at all.
func TrendingPosts(posts []*entity.Post, now time.Time) []*entity.Post {
	var out []*entity.Post
	for _, p := range posts {
		if IsTrending(p, now) {
			out = append(out, p)
		}
	}
	return out
}
