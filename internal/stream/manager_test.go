package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codeshareforum/internal/entity"
	"codeshareforum/internal/store"
	"codeshareforum/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSub struct {
	mu        sync.Mutex
	cancelled bool
}

func (s *fakeSub) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

func (s *fakeSub) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

type fakePostSource struct {
	err     error
	deliver func([]*entity.Post)
	sub     *fakeSub
}

func (f *fakePostSource) SubscribeAll(_ context.Context, fn func([]*entity.Post)) (store.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deliver = fn
	f.sub = &fakeSub{}
	return f.sub, nil
}

type fakeCommentSource struct {
	err     error
	deliver func([]*entity.Comment)
	sub     *fakeSub
}

func (f *fakeCommentSource) SubscribeAll(_ context.Context, fn func([]*entity.Comment)) (store.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deliver = fn
	f.sub = &fakeSub{}
	return f.sub, nil
}

type fakeNewsSource struct {
	articles []*entity.NewsArticle
	err      error
	fetched  chan struct{}
}

func (f *fakeNewsSource) FetchLatest(context.Context) ([]*entity.NewsArticle, error) {
	if f.fetched != nil {
		defer close(f.fetched)
	}
	return f.articles, f.err
}

func newTestManager(t *testing.T, news *fakeNewsSource) (*Manager, *fakePostSource, *fakeCommentSource) {
	t.Helper()
	posts := &fakePostSource{}
	comments := &fakeCommentSource{}
	if news == nil {
		news = &fakeNewsSource{}
	}
	m := NewManager(posts, comments, news, logger.New())
	require.NoError(t, m.Start(context.Background()))
	return m, posts, comments
}

func waitFetched(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("news fetch never completed")
	}
}

func TestManager_FeedsReplacedWholesale(t *testing.T) {
	m, posts, comments := newTestManager(t, nil)
	defer m.Close()

	posts.deliver([]*entity.Post{{ID: "p1"}, {ID: "p2"}})
	comments.deliver([]*entity.Comment{{ID: "c1"}})

	snap := m.Snapshot()
	assert.Len(t, snap.Posts, 2)
	assert.Len(t, snap.Comments, 1)

	// Each delivery replaces its slice; the other feed is untouched.
	posts.deliver([]*entity.Post{{ID: "p3"}})
	snap = m.Snapshot()
	assert.Len(t, snap.Posts, 1)
	assert.Equal(t, "p3", snap.Posts[0].ID)
	assert.Len(t, snap.Comments, 1)
}

func TestManager_NewsCappedToShelf(t *testing.T) {
	fetched := make(chan struct{})
	news := &fakeNewsSource{fetched: fetched, articles: []*entity.NewsArticle{
		{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "n4"}, {ID: "n5"},
	}}
	m, _, _ := newTestManager(t, news)
	defer m.Close()

	waitFetched(t, fetched)

	assert.Eventually(t, func() bool {
		return len(m.Snapshot().News) == HomeNewsLimit
	}, time.Second, 5*time.Millisecond)
}

func TestManager_NewsFailureLeavesShelfEmpty(t *testing.T) {
	fetched := make(chan struct{})
	news := &fakeNewsSource{fetched: fetched, err: errors.New("upstream down")}
	m, posts, _ := newTestManager(t, news)
	defer m.Close()

	waitFetched(t, fetched)
	posts.deliver([]*entity.Post{{ID: "p1"}})

	snap := m.Snapshot()
	assert.Empty(t, snap.News)
	assert.Len(t, snap.Posts, 1)
}

func TestManager_StartFailureCancelsFirstSub(t *testing.T) {
	posts := &fakePostSource{}
	comments := &fakeCommentSource{err: errors.New("watch failed")}
	m := NewManager(posts, comments, &fakeNewsSource{}, logger.New())

	err := m.Start(context.Background())

	assert.Error(t, err)
	assert.True(t, posts.sub.isCancelled())
}

func TestManager_SubscribeFiresImmediately(t *testing.T) {
	m, posts, _ := newTestManager(t, nil)
	defer m.Close()

	posts.deliver([]*entity.Post{{ID: "p1"}})

	var seen []Snapshot
	unsub := m.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	require.Len(t, seen, 1)
	assert.Len(t, seen[0].Posts, 1)

	posts.deliver([]*entity.Post{{ID: "p1"}, {ID: "p2"}})
	require.Len(t, seen, 2)
	assert.Len(t, seen[1].Posts, 2)

	unsub()
	posts.deliver(nil)
	assert.Len(t, seen, 2)
}

func TestManager_CloseDropsLateDeliveries(t *testing.T) {
	m, posts, comments := newTestManager(t, nil)

	posts.deliver([]*entity.Post{{ID: "p1"}})
	m.Close()

	assert.True(t, posts.sub.isCancelled())
	assert.True(t, comments.sub.isCancelled())

	// A delivery that raced past Cancel must not mutate the snapshot.
	posts.deliver([]*entity.Post{{ID: "p1"}, {ID: "p2"}})
	assert.Len(t, m.Snapshot().Posts, 1)
}
