package stream

import (
	"context"

	"codeshareforum/internal/entity"
	"codeshareforum/internal/store"
)

type AuthorPostSource interface {
	SubscribeByAuthor(ctx context.Context, authorID string, fn func([]*entity.Post)) (store.Subscription, error)
}

// AuthorPostsView is the profile screen's live post list, keyed by author.
// Changing the key cancels the previous subscription before opening the new
// one, so a late delivery for the old author never reaches the new view.
type AuthorPostsView struct {
	posts    AuthorPostSource
	fn       func([]*entity.Post)
	authorID string
	sub      store.Subscription
}

func NewAuthorPostsView(posts AuthorPostSource, fn func([]*entity.Post)) *AuthorPostsView {
	return &AuthorPostsView{posts: posts, fn: fn}
}

// SetAuthor switches the view to another author's posts. Setting the same
// author again is a no-op.
func (v *AuthorPostsView) SetAuthor(ctx context.Context, authorID string) error {
	if authorID == v.authorID && v.sub != nil {
		return nil
	}

	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
	v.authorID = authorID
	if authorID == "" {
		return nil
	}

	sub, err := v.posts.SubscribeByAuthor(ctx, authorID, v.fn)
	if err != nil {
		return err
	}
	v.sub = sub
	return nil
}

func (v *AuthorPostsView) Close() {
	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
	v.authorID = ""
}

type PostCommentSource interface {
	SubscribeByPost(ctx context.Context, postID string, fn func([]*entity.Comment)) (store.Subscription, error)
}

// PostCommentsView is the detail screen's live comment list, keyed by post,
// ascending by creation time. Same teardown discipline as AuthorPostsView.
type PostCommentsView struct {
	comments PostCommentSource
	fn       func([]*entity.Comment)
	postID   string
	sub      store.Subscription
}

func NewPostCommentsView(comments PostCommentSource, fn func([]*entity.Comment)) *PostCommentsView {
	return &PostCommentsView{comments: comments, fn: fn}
}

func (v *PostCommentsView) SetPost(ctx context.Context, postID string) error {
	if postID == v.postID && v.sub != nil {
		return nil
	}

	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
	v.postID = postID
	if postID == "" {
		return nil
	}

	sub, err := v.comments.SubscribeByPost(ctx, postID, v.fn)
	if err != nil {
		return err
	}
	v.sub = sub
	return nil
}

func (v *PostCommentsView) Close() {
	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
	v.postID = ""
}
