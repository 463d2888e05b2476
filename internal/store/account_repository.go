package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Account is a credential record owned by the identity provider side of the
// system. It is distinct from the user profile document.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Verified     bool
	CreatedAt    time.Time
}

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	c   *mongo.Collection
	now func() time.Time
}

func (r *AccountRepository) Create(ctx context.Context, acc *Account) error {
	doc := &accountDoc{
		ID:           acc.ID,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		DisplayName:  acc.DisplayName,
		Verified:     acc.Verified,
		CreatedAt:    r.now(),
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	acc.ID = doc.ID
	acc.CreatedAt = doc.CreatedAt
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var doc accountDoc
	err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return accountFromDoc(&doc), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	var doc accountDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return accountFromDoc(&doc), nil
}

func (r *AccountRepository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"display_name": displayName}})
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	return nil
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}
	return nil
}

func accountFromDoc(d *accountDoc) *Account {
	return &Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		Verified:     d.Verified,
		CreatedAt:    d.CreatedAt,
	}
}
