// Package ws is the realtime transport: one websocket per client tab,
// JSON envelopes in both directions.
package ws

import (
	"encoding/json"
	"time"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

// Envelope is the wire frame: an event name and its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventJoin           = "join"
	EventJoinRoom       = "joinRoom"
	EventJoinCommunity  = "join_community"
	EventLeaveCommunity = "leave_community"
	EventSendMessage    = "sendMessage"
	EventSendCommunity  = "send_community_message"
	EventTypingStart    = "community_typing_start"
	EventTypingStop     = "community_typing_stop"
	EventActivateRoom   = "activateRoom"
)

// Outbound event names.
const (
	EventReceiveMessage    = "receiveMessage"
	EventCommunityMessage  = "community_new_message"
	EventUserTyping        = "community_user_typing"
	EventUserStoppedTyping = "community_user_stopped_typing"
	EventAutoCreateChat    = "autoCreateChat"
	EventPresence          = "presence"
	EventUnreadCounts      = "unreadCounts"
	EventStreamViewerCount = "streamViewerCount"
	EventError             = "error"
)

type JoinPayload struct {
	UserID   string `json:"userId" validate:"required_without=Token,omitempty,max=64"`
	UserName string `json:"userName" validate:"required_without=Token,omitempty,max=128"`
	Token    string `json:"token" validate:"omitempty"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required_without=PeerID,omitempty,max=160"`
	PeerID string `json:"peerId" validate:"omitempty,max=64"`
}

type RoomPayload struct {
	RoomID string `json:"roomId" validate:"required,max=160"`
}

type SendMessagePayload struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	ToUserID string `json:"toUserId" validate:"required,max=64"`
	Content  string `json:"content" validate:"required,max=4096"`
}

type SendCommunityPayload struct {
	ID      string `json:"id" validate:"omitempty,max=64"`
	RoomID  string `json:"roomId" validate:"required,max=160"`
	Content string `json:"content" validate:"required,max=4096"`
}

type MessagePayload struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Language   string    `json:"language,omitempty"`
	Censored   bool      `json:"censored,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Label    string `json:"label,omitempty"`
}

type AutoCreatePayload struct {
	RoomID   string         `json:"roomId"`
	PeerID   string         `json:"peerId"`
	PeerName string         `json:"peerName"`
	Message  MessagePayload `json:"message"`
	Unread   int            `json:"unread"`
}

type PresencePayload struct {
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Online   bool      `json:"online"`
	At       time.Time `json:"at"`
}

type UnreadPayload struct {
	RoomID string `json:"roomId"`
	Count  int    `json:"count"`
}

type ViewerCountPayload struct {
	RoomID string `json:"roomId"`
	Count  int    `json:"count"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newEnvelope(name string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: name, Data: raw}, nil
}

func messagePayload(m domain.Message, language string, censored bool) MessagePayload {
	return MessagePayload{
		ID:         m.ID,
		RoomID:     string(m.Room),
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		Language:   language,
		Censored:   censored,
		CreatedAt:  m.CreatedAt,
	}
}

// Outbound translates a pipeline event into its wire envelope. A nil
// envelope means the event has no wire representation for this client.
// The label callback renders the typing indicator line for a room.
func Outbound(e event.DomainEvent, label func(domain.RoomID) string) (*Envelope, error) {
	switch evt := e.(type) {
	case event.MessageDelivered:
		name := EventCommunityMessage
		if domain.IsDirectRoomID(evt.Message.Room) {
			name = EventReceiveMessage
		}
		env, err := newEnvelope(name, messagePayload(evt.Message, evt.Language, evt.Censored))
		return &env, err
	case event.ChatAutoCreated:
		env, err := newEnvelope(EventAutoCreateChat, AutoCreatePayload{
			RoomID:   string(evt.Room),
			PeerID:   evt.PeerUserID,
			PeerName: evt.PeerUserName,
			Message:  messagePayload(evt.SeededMessage, "", false),
			Unread:   evt.InitialUnread,
		})
		return &env, err
	case event.TypingChanged:
		name := EventUserStoppedTyping
		if evt.Typing {
			name = EventUserTyping
		}
		env, err := newEnvelope(name, TypingPayload{
			RoomID:   string(evt.Room),
			UserID:   evt.UserID,
			UserName: evt.UserName,
			Label:    label(evt.Room),
		})
		return &env, err
	case event.PresenceChanged:
		env, err := newEnvelope(EventPresence, PresencePayload{
			UserID:   evt.UserID,
			UserName: evt.UserName,
			Online:   evt.Online,
			At:       evt.At,
		})
		return &env, err
	case event.UnreadChanged:
		env, err := newEnvelope(EventUnreadCounts, UnreadPayload{
			RoomID: string(evt.Room),
			Count:  evt.Count,
		})
		return &env, err
	case event.ViewerCount:
		env, err := newEnvelope(EventStreamViewerCount, ViewerCountPayload{
			RoomID: string(evt.Room),
			Count:  evt.Count,
		})
		return &env, err
	default:
		return nil, nil
	}
}
