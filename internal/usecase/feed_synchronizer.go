package usecase

import (
	"context"
	"time"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/logger"
)

// FeedSynchronizer turns store snapshots into published feed views. The list it publishes is
// owned by the Run goroutine alone; snapshots only reach it through the source channel.
type FeedSynchronizer struct {
	kind       entity.FeedKind
	userID     string
	open       func(ctx context.Context) <-chan feedSnapshot
	publish    func(entity.FeedView)
	retryDelay time.Duration

	current []*entity.Product
}

func NewFeedSynchronizer(
	kind entity.FeedKind,
	userID string,
	open func(ctx context.Context) <-chan feedSnapshot,
	publish func(entity.FeedView),
) *FeedSynchronizer {
	return &FeedSynchronizer{
		kind:       kind,
		userID:     userID,
		open:       open,
		publish:    publish,
		retryDelay: defaultFeedRetryDelay,
		current:    []*entity.Product{},
	}
}

// Run consumes snapshots until ctx ends, reopening the source after it fails.
func (s *FeedSynchronizer) Run(ctx context.Context) {
	for {
		for snap := range s.open(ctx) {
			if ctx.Err() != nil {
				return
			}
			s.apply(snap)
		}

		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.retryDelay):
			logger.Debug("Reopening %s feed for %s", s.kind, s.userID)
		}
	}
}

func (s *FeedSynchronizer) apply(snap feedSnapshot) {
	if snap.err != nil {
		logger.LogFeedError(string(s.kind), s.userID, snap.err)
		s.publish(entity.FeedView{
			Kind:     s.kind,
			Products: s.current,
			Stale:    true,
			Error:    snap.err.Error(),
		})
		return
	}

	s.current = nonNil(snap.products)
	s.publish(entity.FeedView{Kind: s.kind, Products: s.current})
}
