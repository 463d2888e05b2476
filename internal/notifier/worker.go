// Package notifier implements the outbound email trigger: one event per
// created post, one batched message to every user with an email on file.
// There is no retry, no dedup key and no partial-failure reporting back to
// the poster.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/logger"
	"codeshareforum/pkg/mailer"
	"codeshareforum/pkg/queue"

	amqp "github.com/rabbitmq/amqp091-go"
)

type PostReader interface {
	GetByID(ctx context.Context, id string) (*entity.Post, error)
}

type UserLister interface {
	List(ctx context.Context) ([]*entity.User, error)
}

type DeliverySource interface {
	Consume() (<-chan amqp.Delivery, error)
}

type Worker struct {
	deliveries DeliverySource
	posts      PostReader
	users      UserLister
	sender     mailer.Sender
	logger     *logger.Logger
}

func NewWorker(deliveries DeliverySource, posts PostReader, users UserLister, sender mailer.Sender, log *logger.Logger) *Worker {
	return &Worker{
		deliveries: deliveries,
		posts:      posts,
		users:      users,
		sender:     sender,
		logger:     log,
	}
}

// Run consumes new-post events until the context is cancelled or the
// channel closes. Every delivery is acked exactly once; failures are logged
// and dropped.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.deliveries.Consume()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			var event queue.NewPostEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				w.logger.Error("bad new-post event: %v", err)
				_ = d.Ack(false)
				continue
			}

			if err := w.HandleNewPost(ctx, event); err != nil {
				w.logger.Error("new-post notification for %s failed: %v", event.PostID, err)
			}
			_ = d.Ack(false)
		}
	}
}

// HandleNewPost reads the triggering post, enumerates every user with an
// email and sends one batched message. No recipients means no send.
func (w *Worker) HandleNewPost(ctx context.Context, event queue.NewPostEvent) error {
	post, err := w.posts.GetByID(ctx, event.PostID)
	if err != nil {
		return fmt.Errorf("failed to read post: %w", err)
	}

	users, err := w.users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var emails []string
	for _, u := range users {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	if len(emails) == 0 {
		return nil
	}

	msg := mailer.Message{
		To:      emails,
		Subject: "New post: " + post.Title,
		HTML:    BuildEmailHTML(post),
	}
	return w.sender.Send(msg)
}

// BuildEmailHTML renders the notification body: title, then the optional
// author line, content and image.
func BuildEmailHTML(post *entity.Post) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(post.Title))
	if post.AuthorName != "" {
		fmt.Fprintf(&b, "<p><strong>Posted by:</strong> %s</p>", html.EscapeString(post.AuthorName))
	}
	if post.Content != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(post.Content))
	}
	if post.ImageURL != "" {
		fmt.Fprintf(&b, `<img src="%s" style="max-width:100%%;margin-top:10px" />`, post.ImageURL)
	}

	return b.String()
}
