package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"creator-chat/domain"
	"creator-chat/mocks"
)

func newTestHandler(t *testing.T) (*mocks.MockIChatService, *http.ServeMux) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	service := mocks.NewMockIChatService(ctrl)
	mux := http.NewServeMux()
	NewHandler(slog.Default(), service).Register(mux)
	return service, mux
}

func TestGetMessages_ReturnsPageWithCursor(t *testing.T) {
	req := require.New(t)
	service, mux := newTestHandler(t)

	next := "msg:community_general:0000000000000000042:m1"
	service.EXPECT().
		GetMessages(domain.GetMessageCommand{Room: "community_general"}).
		Return([]domain.Message{
			{ID: "m2", Room: "community_general", SenderID: "u1", Content: "newest", CreatedAt: time.Now().UTC()},
			{ID: "m1", Room: "community_general", SenderID: "u2", Content: "older", CreatedAt: time.Now().UTC()},
		}, lo.ToPtr(next), nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages?roomId=community_general", nil))

	req.Equal(http.StatusOK, rec.Code)
	var body messagesResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Len(body.Messages, 2)
	req.Equal("m2", body.Messages[0].ID)
	req.Equal(next, *body.Cursor)
}

func TestGetMessages_RequiresRoomID(t *testing.T) {
	req := require.New(t)
	_, mux := newTestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestPostMessage_AcceptsDirectMessage(t *testing.T) {
	req := require.New(t)
	service, mux := newTestHandler(t)

	service.EXPECT().PostMessage(gomock.Any()).Do(func(cmd domain.SendMessageCommand) {
		req.Equal("u2", cmd.TargetUserID)
		req.Equal("hello", cmd.Message.Content)
	})

	body := `{"id":"m1","toUserId":"u2","senderId":"u1","senderName":"Alice","content":"hello"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)))

	req.Equal(http.StatusAccepted, rec.Code)
}

func TestPostMessage_RejectsMessageWithoutDestination(t *testing.T) {
	req := require.New(t)
	_, mux := newTestHandler(t)

	body := `{"id":"m1","senderId":"u1","content":"hello"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)))

	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestCreateRoom_RegistersCommunity(t *testing.T) {
	req := require.New(t)
	service, mux := newTestHandler(t)

	service.EXPECT().CreateRoom(domain.RoomID("community_general"), domain.CommunityRoom).Return(nil)

	body := `{"roomId":"community_general","kind":"COMMUNITY"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)))

	req.Equal(http.StatusCreated, rec.Code)
}

func TestCreateRoom_RejectsDirectKind(t *testing.T) {
	req := require.New(t)
	_, mux := newTestHandler(t)

	// Direct rooms are lazily created, never through the API
	body := `{"roomId":"dm_u1_u2","kind":"DIRECT"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)))

	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestCloseRoom_TearsDownStream(t *testing.T) {
	req := require.New(t)
	service, mux := newTestHandler(t)

	service.EXPECT().CloseRoom(domain.RoomID("stream_42"))

	body := `{"roomId":"stream_42"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rooms/close", strings.NewReader(body)))

	req.Equal(http.StatusAccepted, rec.Code)
}

func TestGetUsersList_MapsConnections(t *testing.T) {
	req := require.New(t)
	service, mux := newTestHandler(t)

	at := time.Now().UTC()
	service.EXPECT().OnlineUsers().Return([]domain.Connection{
		{ID: "c1", UserID: "u1", UserName: "Alice", ConnectedAt: at},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/list", nil))

	req.Equal(http.StatusOK, rec.Code)
	var users []userDTO
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &users))
	req.Len(users, 1)
	req.Equal("Alice", users[0].UserName)
}
