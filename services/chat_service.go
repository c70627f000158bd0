//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
// Package services exposes the messaging core to the transports behind a
// narrow interface, so handlers never touch the engine internals.
package services

import (
	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/observability"
	"creator-chat/runtime"
)

type IChatService interface {
	Authenticate(connID, userID, userName string, sink contract.EventSink) error
	Disconnect(connID string)
	JoinRoom(roomID domain.RoomID, userID, userName string) error
	LeaveRoom(roomID domain.RoomID, userID string)
	CreateRoom(roomID domain.RoomID, kind domain.RoomKind) error
	CloseRoom(roomID domain.RoomID)
	PostMessage(cmd domain.SendMessageCommand)
	ActivateRoom(roomID domain.RoomID, userID string)
	SetTyping(roomID domain.RoomID, userID, userName string, stop bool)
	GetMessages(cmd domain.GetMessageCommand) ([]domain.Message, *string, error)
	Conversations(userID string) []domain.RoomID
	UnreadCounts(userID string) map[domain.RoomID]int
	TypingLabel(roomID domain.RoomID) string
	OnlineUsers() []domain.Connection
	Stats() observability.MonitoringStats
}

type ChatService struct {
	engine *runtime.Engine
}

func NewChatService(engine *runtime.Engine) *ChatService {
	return &ChatService{engine: engine}
}

func (s *ChatService) Authenticate(connID, userID, userName string, sink contract.EventSink) error {
	return s.engine.Authenticate(connID, userID, userName, sink)
}

func (s *ChatService) Disconnect(connID string) {
	s.engine.Disconnect(connID)
}

func (s *ChatService) JoinRoom(roomID domain.RoomID, userID, userName string) error {
	return s.engine.JoinRoom(roomID, userID, userName)
}

func (s *ChatService) LeaveRoom(roomID domain.RoomID, userID string) {
	s.engine.LeaveRoom(roomID, userID)
}

func (s *ChatService) CreateRoom(roomID domain.RoomID, kind domain.RoomKind) error {
	return s.engine.CreateRoom(roomID, kind)
}

func (s *ChatService) CloseRoom(roomID domain.RoomID) {
	s.engine.CloseRoom(roomID)
}

func (s *ChatService) PostMessage(cmd domain.SendMessageCommand) {
	s.engine.PostMessage(cmd)
}

func (s *ChatService) ActivateRoom(roomID domain.RoomID, userID string) {
	s.engine.ActivateRoom(roomID, userID)
}

func (s *ChatService) SetTyping(roomID domain.RoomID, userID, userName string, stop bool) {
	s.engine.SetTyping(roomID, userID, userName, stop)
}

func (s *ChatService) GetMessages(cmd domain.GetMessageCommand) ([]domain.Message, *string, error) {
	return s.engine.GetMessages(cmd)
}

func (s *ChatService) Conversations(userID string) []domain.RoomID {
	return s.engine.Conversations(userID)
}

func (s *ChatService) UnreadCounts(userID string) map[domain.RoomID]int {
	return s.engine.UnreadCounts(userID)
}

func (s *ChatService) TypingLabel(roomID domain.RoomID) string {
	return s.engine.TypingLabel(roomID)
}

func (s *ChatService) OnlineUsers() []domain.Connection {
	return s.engine.OnlineUsers()
}

func (s *ChatService) Stats() observability.MonitoringStats {
	return s.engine.Stats()
}
