package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

func TestTimeline_OrdersAndDedupes(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("u2")
	ctx := context.Background()
	at := time.Now().UTC()

	older := domain.Message{ID: "m1", Room: "dm_u1_u2", Content: "first", CreatedAt: at}
	newer := domain.Message{ID: "m2", Room: "dm_u1_u2", Content: "second", CreatedAt: at.Add(time.Second)}

	// Given the newer message arriving live before the older one is flushed
	req.NoError(timeline.Consume(ctx, event.MessageDelivered{Message: newer}))
	req.NoError(timeline.Consume(ctx, event.MessageDelivered{Message: older, Target: "u2"}))
	// And a redelivery of the newer one
	req.NoError(timeline.Consume(ctx, event.MessageDelivered{Message: newer}))

	messages := timeline.Messages()
	req.Len(messages, 2)
	req.Equal("m1", messages[0].ID)
	req.Equal("m2", messages[1].ID)
}

func TestTimeline_ForRoomFilters(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("u2")
	ctx := context.Background()
	at := time.Now().UTC()

	req.NoError(timeline.Consume(ctx, event.MessageDelivered{
		Message: domain.Message{ID: "m1", Room: "dm_u1_u2", CreatedAt: at},
	}))
	req.NoError(timeline.Consume(ctx, event.MessageDelivered{
		Message: domain.Message{ID: "m2", Room: "community_general", CreatedAt: at},
	}))
	req.NoError(timeline.Consume(ctx, event.ChatAutoCreated{
		Room:          "dm_u2_u3",
		SeededMessage: domain.Message{ID: "seed1", Room: "dm_u2_u3", CreatedAt: at},
	}))

	req.Len(timeline.Messages(), 3)
	req.Len(timeline.ForRoom("dm_u1_u2"), 1)
	req.Len(timeline.ForRoom("community_general"), 1)
	req.Len(timeline.ForRoom("dm_u2_u3"), 1)
}
