// Package api exposes the read-side REST surface next to the socket:
// history pagination, recent messages, online users and counters.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"creator-chat/domain"
	"creator-chat/services"
)

type Handler struct {
	log     *slog.Logger
	service services.IChatService
}

func NewHandler(log *slog.Logger, service services.IChatService) *Handler {
	return &Handler{log: log, service: service}
}

// Register mounts the REST routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/messages", h.GetMessages)
	mux.HandleFunc("POST /api/messages", h.PostMessage)
	mux.HandleFunc("GET /api/messages/recent", h.GetRecentMessages)
	mux.HandleFunc("POST /api/rooms", h.CreateRoom)
	mux.HandleFunc("POST /api/rooms/close", h.CloseRoom)
	mux.HandleFunc("GET /api/users/list", h.GetUsersList)
	mux.HandleFunc("GET /api/stats", h.GetStats)
}

type messageDTO struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

type messagesResponse struct {
	Messages []messageDTO `json:"messages"`
	Cursor   *string      `json:"cursor,omitempty"`
}

type postMessageRequest struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	ToUserID   string `json:"toUserId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

type userDTO struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	ConnectedAt time.Time `json:"connectedAt"`
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:         m.ID,
		RoomID:     string(m.Room),
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

// GetMessages pages through a room's history, newest first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		h.writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	messages, next, err := h.service.GetMessages(domain.GetMessageCommand{
		Room:   domain.RoomID(roomID),
		Cursor: cursor,
	})
	if err != nil {
		h.log.Error("Failed to fetch messages", "room", roomID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	h.writeJSON(w, http.StatusOK, messagesResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) messageDTO {
			return toMessageDTO(m)
		}),
		Cursor: next,
	})
}

// GetRecentMessages returns the first history page for a room.
func (h *Handler) GetRecentMessages(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		h.writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}
	messages, _, err := h.service.GetMessages(domain.GetMessageCommand{Room: domain.RoomID(roomID)})
	if err != nil {
		h.log.Error("Failed to fetch recent messages", "room", roomID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	h.writeJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageDTO {
		return toMessageDTO(m)
	}))
}

// PostMessage injects a message into the pipeline over REST. The socket
// is the main ingress; this endpoint serves bots and integrations.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.SenderID == "" || req.Content == "" {
		h.writeError(w, http.StatusBadRequest, "senderId and content are required")
		return
	}
	if req.RoomID == "" && req.ToUserID == "" {
		h.writeError(w, http.StatusBadRequest, "either roomId or toUserId is required")
		return
	}

	h.service.PostMessage(domain.SendMessageCommand{
		Message: domain.Message{
			ID:         req.ID,
			Room:       domain.RoomID(req.RoomID),
			SenderID:   req.SenderID,
			SenderName: req.SenderName,
			Content:    req.Content,
			CreatedAt:  time.Now().UTC(),
		},
		TargetUserID: req.ToUserID,
	})
	w.WriteHeader(http.StatusAccepted)
}

type roomRequest struct {
	RoomID string `json:"roomId"`
	Kind   string `json:"kind"`
}

// CreateRoom registers a community or stream room. Direct rooms are
// created lazily and never pass through here.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	kind := domain.RoomKind(req.Kind)
	if req.RoomID == "" || kind == domain.DirectRoom || !kind.Valid() {
		h.writeError(w, http.StatusBadRequest, "roomId and a COMMUNITY or STREAM kind are required")
		return
	}
	if err := h.service.CreateRoom(domain.RoomID(req.RoomID), kind); err != nil {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// CloseRoom tears a stream room down once the broadcast ends.
func (h *Handler) CloseRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.RoomID == "" {
		h.writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}
	h.service.CloseRoom(domain.RoomID(req.RoomID))
	w.WriteHeader(http.StatusAccepted)
}

// GetUsersList returns the users currently online.
func (h *Handler) GetUsersList(w http.ResponseWriter, r *http.Request) {
	users := lo.Map(h.service.OnlineUsers(), func(c domain.Connection, _ int) userDTO {
		return userDTO{UserID: c.UserID, UserName: c.UserName, ConnectedAt: c.ConnectedAt}
	})
	h.writeJSON(w, http.StatusOK, users)
}

// GetStats exposes the delivery counters for dashboards.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Stats())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
