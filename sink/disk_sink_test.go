package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/errors"
	"creator-chat/mocks"
)

func TestDiskSink_PersistsEachMessageOnce(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockMessageStore(ctrl)
	d := NewDiskSink(repository, slog.Default())
	ctx := context.Background()
	message := domain.Message{ID: "m1", Room: "dm_u1_u2", Content: "hello"}

	repository.EXPECT().StoreMessage(message).Return(nil).Times(1)

	// A live delivery and its flush replay store a single row
	req.NoError(d.Consume(ctx, event.MessageDelivered{Message: message}))
	req.NoError(d.Consume(ctx, event.MessageDelivered{Message: message, Target: "u2"}))
}

func TestDiskSink_PersistsAutoCreateSeed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockMessageStore(ctrl)
	d := NewDiskSink(repository, slog.Default())
	seed := domain.Message{ID: "seed1", Room: "dm_u1_u2", SenderID: "system"}

	repository.EXPECT().StoreMessage(seed).Return(nil).Times(1)

	req.NoError(d.Consume(context.Background(), event.ChatAutoCreated{
		Room:          "dm_u1_u2",
		TargetUserID:  "u2",
		SeededMessage: seed,
	}))
}

func TestDiskSink_ToleratesStorageFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockMessageStore(ctrl)
	d := NewDiskSink(repository, slog.Default())
	message := domain.Message{ID: "m1", Room: "dm_u1_u2"}

	repository.EXPECT().StoreMessage(message).Return(errors.ErrPersistence).Times(1)

	err := d.Consume(context.Background(), event.MessageDelivered{Message: message})
	req.ErrorIs(err, errors.ErrPersistence)
}
