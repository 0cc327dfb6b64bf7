package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"trifoody/internal/domain/entity"
)

func TestFeedSynchronizer_ReplacesAndKeepsStale(t *testing.T) {
	a := &entity.Product{ID: "a", Title: "Apples"}
	b := &entity.Product{ID: "b", Title: "Beans"}

	source := make(chan feedSnapshot)
	views := newViewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	synchronizer := NewFeedSynchronizer(entity.FeedTrading, "u1", func(context.Context) <-chan feedSnapshot {
		return source
	}, views.publish)
	done := make(chan struct{})
	go func() {
		synchronizer.Run(ctx)
		close(done)
	}()

	source <- feedSnapshot{products: []*entity.Product{a, b}}
	v := views.waitFor(t, func(entity.FeedView) bool { return true })
	assert.Equal(t, []string{"Apples", "Beans"}, titles(v.Products))

	// A later snapshot without b retracts it.
	source <- feedSnapshot{products: []*entity.Product{a}}
	v = views.waitFor(t, func(entity.FeedView) bool { return true })
	assert.Equal(t, []string{"Apples"}, titles(v.Products))
	assert.False(t, v.Stale)

	source <- feedSnapshot{err: stderrors.New("network down")}
	v = views.waitFor(t, func(entity.FeedView) bool { return true })
	assert.True(t, v.Stale)
	assert.Equal(t, "network down", v.Error)
	assert.Equal(t, []string{"Apples"}, titles(v.Products))

	cancel()
	close(source)
	<-done
}
