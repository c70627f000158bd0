package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

func TestSocketSink_DropsReplayedMessages(t *testing.T) {
	req := require.New(t)
	s := NewSocketSink(8)
	ctx := context.Background()
	message := domain.Message{ID: "m1", Room: "dm_u1_u2", Content: "hello"}

	// Given a live delivery followed by a queue-flush replay of the same id
	req.NoError(s.Consume(ctx, event.MessageDelivered{Message: message}))
	req.NoError(s.Consume(ctx, event.MessageDelivered{Message: message, Target: "u2"}))

	// Then the connection sees the message once
	req.Len(s.Events(), 1)
}

func TestSocketSink_TwoSinksAreTwoContexts(t *testing.T) {
	req := require.New(t)
	tabOne := NewSocketSink(8)
	tabTwo := NewSocketSink(8)
	ctx := context.Background()
	delivered := event.MessageDelivered{Message: domain.Message{ID: "m1", Room: "dm_u1_u2"}}

	// Two tabs each consume the same message independently
	req.NoError(tabOne.Consume(ctx, delivered))
	req.NoError(tabTwo.Consume(ctx, delivered))

	req.Len(tabOne.Events(), 1)
	req.Len(tabTwo.Events(), 1)
}

func TestSocketSink_NonMessageEventsPassFreely(t *testing.T) {
	req := require.New(t)
	s := NewSocketSink(8)
	ctx := context.Background()

	typing := event.TypingChanged{Room: "community_general", UserID: "u1", Typing: true}
	req.NoError(s.Consume(ctx, typing))
	req.NoError(s.Consume(ctx, typing))

	// Typing refreshes are not deduped; receivers need every one
	req.Len(s.Events(), 2)
}

func TestSocketSink_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	s := NewSocketSink(1)
	ctx := context.Background()

	req.NoError(s.Consume(ctx, event.MessageDelivered{Message: domain.Message{ID: "m1"}}))
	// The buffer is full; the second event is dropped, not an error
	req.NoError(s.Consume(ctx, event.MessageDelivered{Message: domain.Message{ID: "m2"}}))

	req.Len(s.Events(), 1)
}
