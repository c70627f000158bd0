package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/moderation"
)

func TestModerationWorker_CensorsDeliveredContent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	moderator, err := moderation.NewModerator([]string{"scam"}, '*', log)
	req.NoError(err)

	in := make(chan event.DomainEvent, 1)
	out := make(chan event.DomainEvent, 1)
	worker := NewModerationWorker(moderator, in, out, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	in <- event.MessageDelivered{Message: domain.Message{
		ID:      "m1",
		Room:    "community_general",
		Content: "please do not trust this offer, it really looks like a scam to me",
	}}

	select {
	case e := <-out:
		delivered, ok := e.(event.MessageDelivered)
		req.True(ok)
		req.Equal("please do not trust this offer, it really looks like a **** to me", delivered.Message.Content)
		req.True(delivered.Censored)
		req.NotEmpty(delivered.Language)
	case <-time.After(time.Second):
		req.Fail("Worker did not forward the event in time")
	}
}

func TestModerationWorker_PassesOtherEventsThrough(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	moderator, err := moderation.NewModerator([]string{"scam"}, '*', log)
	req.NoError(err)

	in := make(chan event.DomainEvent, 1)
	out := make(chan event.DomainEvent, 1)
	worker := NewModerationWorker(moderator, in, out, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	typing := event.TypingChanged{Room: "community_general", UserID: "u1", Typing: true}
	in <- typing

	select {
	case e := <-out:
		req.Equal(typing, e)
	case <-time.After(time.Second):
		req.Fail("Worker did not forward the event in time")
	}
}
