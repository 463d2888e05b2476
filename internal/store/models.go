package store

import (
	"time"

	"codeshareforum/internal/entity"
)

// Document models mirror the schema-less records in the external database.
// Every optional field decodes to its zero value when absent, so unknown or
// missing fields default deterministically instead of leaking "any" shapes.

type userDoc struct {
	ID                string    `bson:"_id"`
	Email             string    `bson:"email"`
	Username          string    `bson:"username,omitempty"`
	Role              string    `bson:"role,omitempty"`
	Age               int       `bson:"age,omitempty"`
	Bio               string    `bson:"bio,omitempty"`
	PhotoURL          string    `bson:"photo_url,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	Disabled          bool      `bson:"disabled"`
	NeedsProfileSetup bool      `bson:"needs_profile_setup"`
}

type postDoc struct {
	ID         string    `bson:"_id"`
	Title      string    `bson:"title"`
	Content    string    `bson:"content,omitempty"`
	AuthorID   string    `bson:"author_id"`
	AuthorName string    `bson:"author_name"`
	ImageURL   string    `bson:"image_url,omitempty"`
	FileURL    string    `bson:"file_url,omitempty"`
	FileName   string    `bson:"file_name,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

type commentDoc struct {
	ID         string    `bson:"_id"`
	PostID     string    `bson:"post_id"`
	Text       string    `bson:"text"`
	AuthorID   string    `bson:"author_id"`
	AuthorName string    `bson:"author_name"`
	CreatedAt  time.Time `bson:"created_at"`
}

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	DisplayName  string    `bson:"display_name,omitempty"`
	Verified     bool      `bson:"verified"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toUserEntity(d *userDoc) *entity.User {
	if d == nil {
		return nil
	}

	role := entity.RoleUser
	if d.Role == string(entity.RoleAdmin) {
		role = entity.RoleAdmin
	}

	return &entity.User{
		ID:                d.ID,
		Email:             d.Email,
		Username:          d.Username,
		Role:              role,
		Age:               d.Age,
		Bio:               d.Bio,
		PhotoURL:          d.PhotoURL,
		CreatedAt:         d.CreatedAt,
		Disabled:          d.Disabled,
		NeedsProfileSetup: d.NeedsProfileSetup,
	}
}

func toUserDoc(e *entity.User) *userDoc {
	if e == nil {
		return nil
	}

	return &userDoc{
		ID:                e.ID,
		Email:             e.Email,
		Username:          e.Username,
		Role:              string(e.Role),
		Age:               e.Age,
		Bio:               e.Bio,
		PhotoURL:          e.PhotoURL,
		CreatedAt:         e.CreatedAt,
		Disabled:          e.Disabled,
		NeedsProfileSetup: e.NeedsProfileSetup,
	}
}

func toPostEntity(d *postDoc) *entity.Post {
	if d == nil {
		return nil
	}

	return &entity.Post{
		ID:         d.ID,
		Title:      d.Title,
		Content:    d.Content,
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		ImageURL:   d.ImageURL,
		FileURL:    d.FileURL,
		FileName:   d.FileName,
		CreatedAt:  d.CreatedAt,
	}
}

func toPostDoc(e *entity.Post) *postDoc {
	if e == nil {
		return nil
	}

	return &postDoc{
		ID:         e.ID,
		Title:      e.Title,
		Content:    e.Content,
		AuthorID:   e.AuthorID,
		AuthorName: e.AuthorName,
		ImageURL:   e.ImageURL,
		FileURL:    e.FileURL,
		FileName:   e.FileName,
		CreatedAt:  e.CreatedAt,
	}
}

func toCommentEntity(d *commentDoc) *entity.Comment {
	if d == nil {
		return nil
	}

	return &entity.Comment{
		ID:         d.ID,
		PostID:     d.PostID,
		Text:       d.Text,
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		CreatedAt:  d.CreatedAt,
	}
}

func toCommentDoc(e *entity.Comment) *commentDoc {
	if e == nil {
		return nil
	}

	return &commentDoc{
		ID:         e.ID,
		PostID:     e.PostID,
		Text:       e.Text,
		AuthorID:   e.AuthorID,
		AuthorName: e.AuthorName,
		CreatedAt:  e.CreatedAt,
	}
}
