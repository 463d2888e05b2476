// Package forum implements the write-side operations of the client: post
// and comment authoring, attachment uploads and profile edits. Reads come
// back through the live subscriptions, not from here.
package forum

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"codeshareforum/internal/authz"
	"codeshareforum/internal/entity"
	"codeshareforum/internal/store"
	"codeshareforum/pkg/logger"
)

// Validation failures are caught before any I/O and surfaced inline.
var (
	ErrEmptyTitle   = errors.New("title is required")
	ErrEmptyComment = errors.New("comment text is required")
	ErrNotPermitted = errors.New("operation not permitted")
)

// fallbackAuthorName is snapshotted when neither the profile username nor
// the auth display name is available.
const fallbackAuthorName = "User"

type PostStore interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, id string, upd store.PostUpdate) error
	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id string, upd store.ProfileUpdate) error
}

type Uploader interface {
	UploadImage(userID string, r io.Reader, contentType string) (string, error)
	UploadFile(userID, name string, r io.Reader, contentType string) (string, error)
}

// EventPublisher fires the new-post notification trigger. Publishing is
// fire-and-forget from the poster's perspective.
type EventPublisher interface {
	PublishNewPost(postID string) error
}

type Service struct {
	posts    PostStore
	comments CommentStore
	users    UserStore
	uploads  Uploader
	events   EventPublisher
	logger   *logger.Logger
}

func NewService(posts PostStore, comments CommentStore, users UserStore, uploads Uploader, events EventPublisher, log *logger.Logger) *Service {
	return &Service{
		posts:    posts,
		comments: comments,
		users:    users,
		uploads:  uploads,
		events:   events,
		logger:   log,
	}
}

// Attachment is an upload the caller hands over as a stream.
type Attachment struct {
	Name        string
	ContentType string
	Data        io.Reader
}

type CreatePostInput struct {
	Title   string
	Content string
	Image   *Attachment
	File    *Attachment
}

// CreatePost validates, uploads attachments, snapshots the author name and
// writes the post. The created post comes back with the store-assigned id
// and timestamp; the feed picks it up through its own subscription.
func (s *Service) CreatePost(ctx context.Context, ident *authz.Identity, displayName string, in CreatePostInput) (*entity.Post, error) {
	if ident == nil {
		return nil, ErrNotPermitted
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	var imageURL, fileURL, fileName string
	if in.Image != nil {
		url, err := s.uploads.UploadImage(ident.ID, in.Image.Data, in.Image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
	}
	if in.File != nil {
		url, err := s.uploads.UploadFile(ident.ID, in.File.Name, in.File.Data, in.File.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}
		fileURL = url
		fileName = in.File.Name
	}

	post := &entity.Post{
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		AuthorID:   ident.ID,
		AuthorName: s.resolveAuthorName(ctx, ident.ID, displayName),
		ImageURL:   imageURL,
		FileURL:    fileURL,
		FileName:   fileName,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishNewPost(post.ID); err != nil {
			s.logger.Error("new-post event not published for %s: %v", post.ID, err)
		}
	}

	return post, nil
}

type UpdatePostInput struct {
	Title   string
	Content string
	Image   *Attachment
	File    *Attachment
}

// UpdatePost lets the owner, and only the owner, change title, content and
// attachments. AuthorName is left untouched.
func (s *Service) UpdatePost(ctx context.Context, ident *authz.Identity, postID string, in UpdatePostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrEmptyTitle
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !authz.CanEditPost(post, ident) {
		return ErrNotPermitted
	}

	upd := store.PostUpdate{Title: &title, Content: &in.Content}
	if in.Image != nil {
		url, err := s.uploads.UploadImage(ident.ID, in.Image.Data, in.Image.ContentType)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		upd.ImageURL = &url
	}
	if in.File != nil {
		url, err := s.uploads.UploadFile(ident.ID, in.File.Name, in.File.Data, in.File.ContentType)
		if err != nil {
			return fmt.Errorf("failed to upload file: %w", err)
		}
		upd.FileURL = &url
		upd.FileName = &in.File.Name
	}

	return s.posts.Update(ctx, postID, upd)
}

// DeletePost removes a post for its owner or an admin.
func (s *Service) DeletePost(ctx context.Context, ident *authz.Identity, role entity.Role, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !authz.CanDeletePost(post, ident, role) {
		return ErrNotPermitted
	}
	return s.posts.Delete(ctx, postID)
}

func (s *Service) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// AddComment attaches a trimmed, non-empty comment to a post, snapshotting
// the author name the same way posts do.
func (s *Service) AddComment(ctx context.Context, ident *authz.Identity, displayName, postID, text string) (*entity.Comment, error) {
	if ident == nil {
		return nil, ErrNotPermitted
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := &entity.Comment{
		PostID:     postID,
		Text:       text,
		AuthorID:   ident.ID,
		AuthorName: s.resolveAuthorName(ctx, ident.ID, displayName),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment for its author or an admin. The caller
// passes the comment from its current snapshot.
func (s *Service) DeleteComment(ctx context.Context, ident *authz.Identity, role entity.Role, comment *entity.Comment) error {
	if !authz.CanDeleteComment(comment, ident, role) {
		return ErrNotPermitted
	}
	return s.comments.Delete(ctx, comment.ID)
}

type ProfileInput struct {
	Username *string
	Age      *int
	Bio      *string
	Photo    *Attachment
}

// UpdateProfile edits the caller's own profile. A new photo goes through
// the blob store first.
func (s *Service) UpdateProfile(ctx context.Context, ident *authz.Identity, in ProfileInput) error {
	if ident == nil {
		return ErrNotPermitted
	}

	upd := store.ProfileUpdate{Username: in.Username, Age: in.Age, Bio: in.Bio}
	if in.Photo != nil {
		url, err := s.uploads.UploadImage(ident.ID, in.Photo.Data, in.Photo.ContentType)
		if err != nil {
			return fmt.Errorf("failed to upload photo: %w", err)
		}
		upd.PhotoURL = &url
	}

	return s.users.UpdateProfile(ctx, ident.ID, upd)
}

// resolveAuthorName snapshots the display name at write time: the profile
// username when present, else the auth display name, else a generic label.
// The snapshot is never back-filled when the username later changes.
func (s *Service) resolveAuthorName(ctx context.Context, userID, displayName string) string {
	if user, err := s.users.GetByID(ctx, userID); err == nil && user.Username != "" {
		return user.Username
	}
	if displayName != "" {
		return displayName
	}
	return fallbackAuthorName
}
