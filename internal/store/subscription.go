package store

import (
	"context"
	"sync"

	"codeshareforum/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// Subscription is a standing request that re-delivers a full result set on
// every underlying change until cancelled. After Cancel returns, no further
// delivery happens — late change-stream events are dropped, not applied.
type Subscription interface {
	Cancel()
}

type watchSubscription struct {
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
}

func (s *watchSubscription) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// deliver runs fn under the subscription lock so a concurrent Cancel either
// fully precedes or fully follows one delivery, never splits it.
func (s *watchSubscription) deliver(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}

// watchCollection opens a change stream on coll and invokes requery once up
// front and once per change event. requery is expected to load the full
// ordered snapshot and hand it to the subscriber; each invocation replaces
// the consumer's previous sequence atomically.
func watchCollection(ctx context.Context, coll *mongo.Collection, log *logger.Logger, requery func(ctx context.Context)) (Subscription, error) {
	wctx, cancel := context.WithCancel(ctx)

	stream, err := coll.Watch(wctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &watchSubscription{cancel: cancel}

	// Initial snapshot before any change event arrives.
	sub.deliver(func() { requery(wctx) })

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(wctx) {
			sub.deliver(func() { requery(wctx) })
		}
		if err := stream.Err(); err != nil && wctx.Err() == nil {
			log.Error("change stream on %s ended: %v", coll.Name(), err)
		}
	}()

	return sub, nil
}
