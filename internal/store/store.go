// Package store is the boundary between the external document database and
// the typed entities of the core. Documents are decoded through explicit
// models with deterministic defaults for missing fields; dynamic shapes
// never cross into the rest of the module.
package store

import (
	"context"
	"fmt"
	"time"

	"codeshareforum/pkg/config"
	"codeshareforum/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
	accountsCollection = "accounts"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
	now    func() time.Time
}

func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.MongoDB),
		logger: log,
		now:    time.Now,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{c: s.db.Collection(usersCollection), logger: s.logger, now: s.now}
}

func (s *Store) Posts() *PostRepository {
	return &PostRepository{c: s.db.Collection(postsCollection), logger: s.logger, now: s.now}
}

func (s *Store) Comments() *CommentRepository {
	return &CommentRepository{c: s.db.Collection(commentsCollection), logger: s.logger, now: s.now}
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{c: s.db.Collection(accountsCollection), now: s.now}
}
