package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyRunsSubscribersInRegistrationOrder(t *testing.T) {
	s := New(nil, nil, nil, nil)
	var order []int
	s.Observe("DOCUMENT_REGISTERED", func(ctx context.Context, event Event, data interface{}) {
		order = append(order, 1)
	})
	s.Observe("DOCUMENT_REGISTERED", func(ctx context.Context, event Event, data interface{}) {
		order = append(order, 2)
	})

	s.Notify(context.Background(), "DOCUMENT_REGISTERED", nil)
	assert.Equal(t, []int{1, 2}, order)
}

func TestObserveDedupsSameCallback(t *testing.T) {
	s := New(nil, nil, nil, nil)
	calls := 0
	fn := func(ctx context.Context, event Event, data interface{}) { calls++ }

	s.Observe("DOCUMENT_REGISTERED", fn)
	s.Observe("DOCUMENT_REGISTERED", fn)
	s.Notify(context.Background(), "DOCUMENT_REGISTERED", nil)

	assert.Equal(t, 1, calls)
}

func TestNotifyIsolatesPanickingSubscriber(t *testing.T) {
	s := New(nil, nil, nil, nil)
	ran := false
	s.Observe("DOCUMENT_REGISTERED", func(ctx context.Context, event Event, data interface{}) {
		panic("boom")
	})
	s.Observe("DOCUMENT_REGISTERED", func(ctx context.Context, event Event, data interface{}) {
		ran = true
	})

	assert.NotPanics(t, func() {
		s.Notify(context.Background(), "DOCUMENT_REGISTERED", nil)
	})
	assert.True(t, ran)
}
