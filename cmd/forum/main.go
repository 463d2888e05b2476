// Command forum wires the client core together: session resolution, the
// live content streams, the derived home-feed projections and the write
// side (posting, moderation). A UI embeds these pieces; run standalone it
// acts as a headless shell that logs feed activity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeshareforum/internal/authz"
	"codeshareforum/internal/forum"
	"codeshareforum/internal/hotwindow"
	"codeshareforum/internal/identity"
	"codeshareforum/internal/moderation"
	"codeshareforum/internal/nav"
	"codeshareforum/internal/session"
	"codeshareforum/internal/store"
	"codeshareforum/internal/stream"
	"codeshareforum/pkg/blob"
	"codeshareforum/pkg/config"
	"codeshareforum/pkg/jwt"
	"codeshareforum/pkg/logger"
	"codeshareforum/pkg/mailer"
	"codeshareforum/pkg/newsapi"
	"codeshareforum/pkg/queue"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.Connect(connectCtx, cfg, log)
	connectCancel()
	if err != nil {
		log.Error("Failed to connect to document store: %v", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = db.Close(closeCtx)
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	blobStore, err := blob.NewStore(cfg)
	if err != nil {
		log.Error("Failed to initialize blob store: %v", err)
		os.Exit(1)
	}

	var events forum.EventPublisher
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, new-post notifications disabled: %v", err)
	} else {
		defer queueClient.Close()
		events = queueClient
	}

	sender := mailer.NewSMTPSender(cfg)
	tokens := jwt.NewService(cfg.JWTSecret)

	authClient := identity.NewClient(db.Accounts(), tokens, sender, log)
	authService := identity.NewService(authClient, db.Users(), log)

	resolver := session.NewResolver(authClient, db.Users(), log)
	resolver.Start(ctx)
	defer resolver.Stop()

	news := newsapi.NewClient(cfg, redisClient, log)

	manager := stream.NewManager(db.Posts(), db.Comments(), news, log)
	if err := manager.Start(ctx); err != nil {
		log.Error("Failed to start content streams: %v", err)
		os.Exit(1)
	}
	defer manager.Close()

	forumService := forum.NewService(db.Posts(), db.Comments(), db.Users(), blobStore, events, log)
	userAdmin := moderation.NewUserAdmin(db.Users(), log)

	composer := nav.NewComposer()
	unsubSession := resolver.Subscribe(func(s session.Session) {
		if s.Identity == nil {
			return
		}
		composer.HandleSignedIn()
		if authz.CanModerateUsers(s.Role) {
			if err := userAdmin.Load(ctx); err != nil {
				log.Warn("user list not loaded: %v", err)
			} else {
				log.Info("moderation: %d users", len(userAdmin.Users()))
			}
		}
	})
	defer unsubSession()

	unsubFeed := manager.Subscribe(func(snap stream.Snapshot) {
		hot := hotwindow.Discussions(snap.Comments, snap.Posts, time.Now())
		log.Info("feed: %d posts, %d comments, %d news, %d hot discussions",
			len(snap.Posts), len(snap.Comments), len(snap.News), len(hot))
	})
	defer unsubFeed()

	// Headless convenience: restore or establish a session up front when
	// credentials are provided, and optionally author a post.
	if token := os.Getenv("FORUM_TOKEN"); token != "" {
		if _, err := authClient.RestoreSession(ctx, token); err != nil {
			log.Warn("session restore failed: %v", err)
		}
	} else if email := os.Getenv("FORUM_EMAIL"); email != "" {
		if _, err := authService.Login(ctx, email, os.Getenv("FORUM_PASSWORD")); err != nil {
			log.Warn("sign-in failed for %s: %v", email, err)
		}
	}
	if title := os.Getenv("FORUM_POST_TITLE"); title != "" {
		s := resolver.Current()
		post, err := forumService.CreatePost(ctx, s.Identity, "", forum.CreatePostInput{Title: title})
		if err != nil {
			log.Warn("post not created: %v", err)
		} else {
			log.Info("created post %s", post.ID)
		}
	}

	log.Info("CodeShareForum core started (screen=%s)", composer.Screen())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")
}
