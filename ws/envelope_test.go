package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

func noLabel(domain.RoomID) string { return "" }

func Test_Direct_Delivery_Maps_To_ReceiveMessage(t *testing.T) {
	req := require.New(t)
	message := domain.Message{
		ID:         "m1",
		Room:       domain.DirectRoomID("u1", "u2"),
		SenderID:   "u1",
		SenderName: "Alice",
		Content:    "hello",
		CreatedAt:  time.Now().UTC(),
	}

	env, err := Outbound(event.MessageDelivered{Message: message, Language: "en"}, noLabel)
	req.NoError(err)
	req.NotNil(env)
	req.Equal(EventReceiveMessage, env.Event)

	var payload MessagePayload
	req.NoError(json.Unmarshal(env.Data, &payload))
	req.Equal("m1", payload.ID)
	req.Equal("dm_u1_u2", payload.RoomID)
	req.Equal("en", payload.Language)
}

func Test_Community_Delivery_Maps_To_CommunityMessage(t *testing.T) {
	req := require.New(t)
	message := domain.Message{ID: "m1", Room: "community_general", SenderID: "u1", Content: "hello"}

	env, err := Outbound(event.MessageDelivered{Message: message}, noLabel)
	req.NoError(err)
	req.Equal(EventCommunityMessage, env.Event)
}

func Test_Typing_Events_Carry_The_Room_Label(t *testing.T) {
	req := require.New(t)
	label := func(room domain.RoomID) string { return "Alice is typing..." }

	env, err := Outbound(event.TypingChanged{Room: "community_general", UserID: "u1", UserName: "Alice", Typing: true}, label)
	req.NoError(err)
	req.Equal(EventUserTyping, env.Event)

	var payload TypingPayload
	req.NoError(json.Unmarshal(env.Data, &payload))
	req.Equal("Alice is typing...", payload.Label)

	env, err = Outbound(event.TypingChanged{Room: "community_general", UserID: "u1", UserName: "Alice", Typing: false}, label)
	req.NoError(err)
	req.Equal(EventUserStoppedTyping, env.Event)
}

func Test_AutoCreate_Carries_The_Seed_And_Unread(t *testing.T) {
	req := require.New(t)
	seed := domain.Message{ID: "m1", Room: "dm_u1_u2", SenderID: "u1", SenderName: "Alice", Content: "Alice started a conversation"}

	env, err := Outbound(event.ChatAutoCreated{
		Room:          "dm_u1_u2",
		TargetUserID:  "u2",
		PeerUserID:    "u1",
		PeerUserName:  "Alice",
		SeededMessage: seed,
		InitialUnread: 1,
	}, noLabel)
	req.NoError(err)
	req.Equal(EventAutoCreateChat, env.Event)

	var payload AutoCreatePayload
	req.NoError(json.Unmarshal(env.Data, &payload))
	req.Equal("u1", payload.PeerID)
	req.Equal(1, payload.Unread)
	req.Equal("m1", payload.Message.ID)
}

func Test_Queued_Event_Has_No_Wire_Shape(t *testing.T) {
	req := require.New(t)
	env, err := Outbound(event.MessageQueued{}, noLabel)
	req.NoError(err)
	req.Nil(env)
}
