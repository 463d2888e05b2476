package store

import (
	"context"
	"fmt"
	"time"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	c      *mongo.Collection
	logger *logger.Logger
	now    func() time.Time
}

// Create inserts a profile document keyed by the identity provider's id.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}

	doc := toUserDoc(user)
	doc.CreatedAt = r.now()

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	*user = *toUserEntity(doc)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var doc userDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserEntity(&doc), nil
}

// List returns every user, oldest first. The admin view loads this once and
// patches it locally afterwards; there is no live subscription on users.
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*entity.User, len(docs))
	for i := range docs {
		users[i] = toUserEntity(&docs[i])
	}
	return users, nil
}

func (r *UserRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"disabled": disabled}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the profile document outright. No tombstone is kept.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ProfileUpdate carries the self-editable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Username *string
	Age      *int
	Bio      *string
	PhotoURL *string
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	set := bson.M{}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}
	if len(set) == 0 {
		return nil
	}
	set["needs_profile_setup"] = false

	if _, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
