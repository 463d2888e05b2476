// Package stream maintains the live, ordered views the home feed renders
// from: the post feed, the global comment feed and a small page of external
// news. Feeds are independent; an update in one never blocks or invalidates
// the others.
package stream

import (
	"context"
	"sync"

	"codeshareforum/internal/entity"
	"codeshareforum/internal/store"
	"codeshareforum/pkg/logger"
)

// HomeNewsLimit caps the news shelf on the home screen.
const HomeNewsLimit = 3

type PostSource interface {
	SubscribeAll(ctx context.Context, fn func([]*entity.Post)) (store.Subscription, error)
}

type CommentSource interface {
	SubscribeAll(ctx context.Context, fn func([]*entity.Comment)) (store.Subscription, error)
}

type NewsSource interface {
	FetchLatest(ctx context.Context) ([]*entity.NewsArticle, error)
}

// Snapshot is the current materialized state of the three feeds. Each slice
// is replaced wholesale per delivery; partial item updates never occur.
// Tearing across feeds is acceptable, the feeds carry no cross-ordering.
type Snapshot struct {
	Posts    []*entity.Post
	Comments []*entity.Comment
	News     []*entity.NewsArticle
}

type Manager struct {
	posts    PostSource
	comments CommentSource
	news     NewsSource
	logger   *logger.Logger

	mu        sync.Mutex
	closed    bool
	snap      Snapshot
	listeners map[int]func(Snapshot)
	nextID    int

	postsSub    store.Subscription
	commentsSub store.Subscription
}

func NewManager(posts PostSource, comments CommentSource, news NewsSource, log *logger.Logger) *Manager {
	return &Manager{
		posts:     posts,
		comments:  comments,
		news:      news,
		logger:    log,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Start opens the two live subscriptions and fires the one-shot news fetch.
// A news failure is logged and swallowed: the shelf renders empty, never an
// error.
func (m *Manager) Start(ctx context.Context) error {
	postsSub, err := m.posts.SubscribeAll(ctx, func(posts []*entity.Post) {
		m.apply(func(s *Snapshot) { s.Posts = posts })
	})
	if err != nil {
		return err
	}

	commentsSub, err := m.comments.SubscribeAll(ctx, func(comments []*entity.Comment) {
		m.apply(func(s *Snapshot) { s.Comments = comments })
	})
	if err != nil {
		postsSub.Cancel()
		return err
	}

	m.mu.Lock()
	m.postsSub = postsSub
	m.commentsSub = commentsSub
	m.mu.Unlock()

	go m.fetchNews(ctx)

	return nil
}

// Close tears the feeds down. A late news response for a closed manager is
// dropped, not applied to whatever mounts next.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	postsSub, commentsSub := m.postsSub, m.commentsSub
	m.mu.Unlock()

	if postsSub != nil {
		postsSub.Cancel()
	}
	if commentsSub != nil {
		commentsSub.Cancel()
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe registers fn for every snapshot change and invokes it
// immediately with the current snapshot.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	current := m.snap
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) fetchNews(ctx context.Context) {
	articles, err := m.news.FetchLatest(ctx)
	if err != nil {
		m.logger.Warn("news fetch failed: %v", err)
		return
	}
	if len(articles) > HomeNewsLimit {
		articles = articles[:HomeNewsLimit]
	}
	m.apply(func(s *Snapshot) { s.News = articles })
}

func (m *Manager) apply(mutate func(*Snapshot)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	mutate(&m.snap)
	snap := m.snap
	listeners := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
