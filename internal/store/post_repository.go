package store

import (
	"context"
	"fmt"
	"time"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository struct {
	c      *mongo.Collection
	logger *logger.Logger
	now    func() time.Time
}

// Create inserts a post with a store-assigned id and creation timestamp.
// The caller's AuthorName is stored as-is; it is a snapshot, not a join.
func (r *PostRepository) Create(ctx context.Context, post *entity.Post) error {
	doc := toPostDoc(post)
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = r.now()

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	*post = *toPostEntity(doc)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var doc postDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return toPostEntity(&doc), nil
}

// PostUpdate carries the owner-editable fields. Nil means "leave unchanged".
type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
	FileURL  *string
	FileName *string
}

func (r *PostRepository) Update(ctx context.Context, id string, upd PostUpdate) error {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}
	if upd.FileURL != nil {
		set["file_url"] = *upd.FileURL
	}
	if upd.FileName != nil {
		set["file_name"] = *upd.FileName
	}
	if len(set) == 0 {
		return nil
	}

	if _, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ListAll returns every post ordered by creation time, newest first.
func (r *PostRepository) ListAll(ctx context.Context) ([]*entity.Post, error) {
	return r.list(ctx, bson.M{})
}

// ListByAuthor returns one author's posts, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error) {
	return r.list(ctx, bson.M{"author_id": authorID})
}

func (r *PostRepository) list(ctx context.Context, filter bson.M) ([]*entity.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*entity.Post, len(docs))
	for i := range docs {
		posts[i] = toPostEntity(&docs[i])
	}
	return posts, nil
}

// SubscribeAll delivers the full descending post list on subscribe and after
// every collection change, until the subscription is cancelled.
func (r *PostRepository) SubscribeAll(ctx context.Context, fn func([]*entity.Post)) (Subscription, error) {
	return r.subscribe(ctx, bson.M{}, fn)
}

// SubscribeByAuthor is SubscribeAll filtered to one author's posts.
func (r *PostRepository) SubscribeByAuthor(ctx context.Context, authorID string, fn func([]*entity.Post)) (Subscription, error) {
	return r.subscribe(ctx, bson.M{"author_id": authorID}, fn)
}

func (r *PostRepository) subscribe(ctx context.Context, filter bson.M, fn func([]*entity.Post)) (Subscription, error) {
	return watchCollection(ctx, r.c, r.logger, func(ctx context.Context) {
		posts, err := r.list(ctx, filter)
		if err != nil {
			// Keep the consumer's previous snapshot on a transient read error.
			r.logger.Error("post snapshot query failed: %v", err)
			return
		}
		fn(posts)
	})
}
