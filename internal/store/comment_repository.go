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

type CommentRepository struct {
	c      *mongo.Collection
	logger *logger.Logger
	now    func() time.Time
}

// Create inserts a comment with a store-assigned id and creation timestamp.
func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	doc := toCommentDoc(comment)
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = r.now()

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	*comment = *toCommentEntity(doc)
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ListAll returns every comment, newest first. The global feed drives the
// hot-discussions projection and keeps this ordering.
func (r *CommentRepository) ListAll(ctx context.Context) ([]*entity.Comment, error) {
	return r.list(ctx, bson.M{}, -1)
}

// ListByPost returns one post's comments, oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return r.list(ctx, bson.M{"post_id": postID}, 1)
}

func (r *CommentRepository) list(ctx context.Context, filter bson.M, order int) ([]*entity.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: order}})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	comments := make([]*entity.Comment, len(docs))
	for i := range docs {
		comments[i] = toCommentEntity(&docs[i])
	}
	return comments, nil
}

// SubscribeAll delivers the full descending comment list on subscribe and
// after every change.
func (r *CommentRepository) SubscribeAll(ctx context.Context, fn func([]*entity.Comment)) (Subscription, error) {
	return r.subscribe(ctx, bson.M{}, -1, fn)
}

// SubscribeByPost delivers one post's comments ascending, for the detail view.
func (r *CommentRepository) SubscribeByPost(ctx context.Context, postID string, fn func([]*entity.Comment)) (Subscription, error) {
	return r.subscribe(ctx, bson.M{"post_id": postID}, 1, fn)
}

func (r *CommentRepository) subscribe(ctx context.Context, filter bson.M, order int, fn func([]*entity.Comment)) (Subscription, error) {
	return watchCollection(ctx, r.c, r.logger, func(ctx context.Context) {
		comments, err := r.list(ctx, filter, order)
		if err != nil {
			r.logger.Error("comment snapshot query failed: %v", err)
			return
		}
		fn(comments)
	})
}
