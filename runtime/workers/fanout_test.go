package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/mocks"
)

func TestFanoutWorker_RoomBroadcast(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockMembers := mocks.NewMockIMembership(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	room := domain.RoomID("community_general")
	worker := NewFanoutWorker(log, mockRegistry, mockMembers, nil,
		[]contract.EventSink{permanentSink}, time.Second)

	// Given two members each holding one live sink
	mockMembers.EXPECT().MembersOf(room).Return([]string{"u1", "u2"}).Times(1)
	mockRegistry.EXPECT().SinksForUser("u1").Return([]contract.EventSink{mockSink}).Times(1)
	mockRegistry.EXPECT().SinksForUser("u2").Return([]contract.EventSink{mockSink}).Times(1)

	count := 0
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, evt event.DomainEvent) {
			count++
		}).Return(nil).Times(2)
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// When a room message is fanned out
	worker.Fanout(event.MessageDelivered{Message: domain.Message{ID: "m1", Room: room}})

	// Then every member sink saw it exactly once
	req.Equal(2, count)
}

func TestFanoutWorker_TargetedDelivery(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockMembers := mocks.NewMockIMembership(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)

	worker := NewFanoutWorker(log, mockRegistry, mockMembers, nil, nil, time.Second)

	// Given a targeted delivery, only the target's sinks are resolved
	mockRegistry.EXPECT().SinksForUser("u2").Return([]contract.EventSink{mockSink}).Times(1)

	delivered := false
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, evt event.DomainEvent) {
			delivered = true
		}).Return(nil).Times(1)

	worker.Fanout(event.MessageDelivered{
		Message: domain.Message{ID: "m1", Room: domain.DirectRoomID("u1", "u2")},
		Target:  "u2",
	})

	req.True(delivered)
}

func TestFanoutWorker_QueuedEventOnlyReachesPermanentSinks(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockMembers := mocks.NewMockIMembership(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	worker := NewFanoutWorker(log, mockRegistry, mockMembers, nil,
		[]contract.EventSink{permanentSink}, time.Second)

	// No registry or membership lookup happens for queued messages.
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	worker.Fanout(event.MessageQueued{Pending: domain.PendingMessage{Recipient: "u2"}})
}

func TestFanoutWorker_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockMembers := mocks.NewMockIMembership(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	worker := NewFanoutWorker(log, mockRegistry, mockMembers, nil,
		[]contract.EventSink{mockSink}, sinkTimeout)

	// Given a sink that blocks until its context is cancelled
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)

	start := time.Now()
	worker.Fanout(event.MessageQueued{Pending: domain.PendingMessage{Recipient: "u2"}})

	// Then the pipeline moved on once the timeout fired
	req.Less(time.Since(start), time.Second)
}
