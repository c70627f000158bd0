package ws

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"creator-chat/auth"
	"creator-chat/domain"
	"creator-chat/errors"
	"creator-chat/services"
	"creator-chat/sink"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	// Large enough for a max content payload plus envelope overhead.
	maxFrameSize = 8192
)

// Client owns one websocket connection: the read pump turns frames into
// service calls, the write pump turns sink events into frames.
type Client struct {
	log     *slog.Logger
	conn    *websocket.Conn
	service services.IChatService
	tokens  *auth.TokenManager
	sink    *sink.SocketSink

	connID   string
	userID   string
	userName string
	authed   bool

	// errs carries error envelopes to the write pump; gorilla allows a
	// single writer per connection, so the read pump never writes.
	errs chan Envelope
	// done stops the write pump once the read pump has torn down.
	done chan struct{}
}

func newClient(log *slog.Logger, conn *websocket.Conn,
	service services.IChatService, tokens *auth.TokenManager,
	connID string, bufferSize int) *Client {
	return &Client{
		log:     log.With("conn", connID),
		conn:    conn,
		service: service,
		tokens:  tokens,
		sink:    sink.NewSocketSink(bufferSize),
		connID:  connID,
		errs:    make(chan Envelope, 8),
		done:    make(chan struct{}),
	}
}

// ReadPump consumes inbound envelopes until the connection drops, then
// tears the session down. It is the only goroutine reading the socket.
func (c *Client) ReadPump() {
	defer func() {
		c.service.Disconnect(c.connID)
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected socket close", "error", err)
			}
			return
		}
		c.handle(env)
	}
}

// WritePump drains the sink into the socket and keeps the connection
// alive with pings. It is the only goroutine writing the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-c.sink.Events():
			env, err := Outbound(evt, c.service.TypingLabel)
			if err != nil {
				c.log.Error("Failed to encode outbound event", "error", err)
				continue
			}
			if env == nil {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				c.log.Warn("Failed to write frame, dropping connection", "error", err)
				return
			}
		case env := <-c.errs:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(env Envelope) {
	if env.Event != EventJoin && !c.authed {
		c.writeError(errors.ErrNotAuthenticated)
		return
	}
	switch env.Event {
	case EventJoin:
		c.handleJoin(env.Data)
	case EventJoinRoom:
		c.handleJoinRoom(env.Data)
	case EventJoinCommunity:
		var payload RoomPayload
		if !c.decode(env.Data, &payload) {
			return
		}
		if err := c.service.JoinRoom(domain.RoomID(payload.RoomID), c.userID, c.userName); err != nil {
			c.writeError(err)
		}
	case EventLeaveCommunity:
		var payload RoomPayload
		if !c.decode(env.Data, &payload) {
			return
		}
		c.service.LeaveRoom(domain.RoomID(payload.RoomID), c.userID)
	case EventSendMessage:
		c.handleSendMessage(env.Data)
	case EventSendCommunity:
		c.handleSendCommunity(env.Data)
	case EventTypingStart:
		var payload RoomPayload
		if !c.decode(env.Data, &payload) {
			return
		}
		c.service.SetTyping(domain.RoomID(payload.RoomID), c.userID, c.userName, false)
	case EventTypingStop:
		var payload RoomPayload
		if !c.decode(env.Data, &payload) {
			return
		}
		c.service.SetTyping(domain.RoomID(payload.RoomID), c.userID, c.userName, true)
	case EventActivateRoom:
		var payload RoomPayload
		if !c.decode(env.Data, &payload) {
			return
		}
		c.service.ActivateRoom(domain.RoomID(payload.RoomID), c.userID)
	default:
		c.log.Debug(fmt.Sprintf("Ignoring unknown event %q", env.Event))
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var payload JoinPayload
	if !c.decode(data, &payload) {
		return
	}
	userID, userName := payload.UserID, payload.UserName
	if payload.Token != "" && c.tokens != nil {
		claims, err := c.tokens.ValidateToken(payload.Token)
		if err != nil {
			c.writeError(errors.ErrInvalidIdentity)
			return
		}
		userID, userName = claims.UserID, claims.UserName
	}
	if err := auth.ValidateIdentity(userID, userName); err != nil {
		c.writeError(err)
		return
	}
	if err := c.service.Authenticate(c.connID, userID, userName, c.sink); err != nil {
		c.writeError(err)
		return
	}
	c.userID, c.userName, c.authed = userID, userName, true
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	var payload JoinRoomPayload
	if !c.decode(data, &payload) {
		return
	}
	roomID := domain.RoomID(payload.RoomID)
	if payload.RoomID == "" {
		roomID = domain.DirectRoomID(c.userID, payload.PeerID)
	}
	if err := c.service.JoinRoom(roomID, c.userID, c.userName); err != nil {
		c.writeError(err)
	}
}

func (c *Client) handleSendMessage(data json.RawMessage) {
	var payload SendMessagePayload
	if !c.decode(data, &payload) {
		return
	}
	c.service.PostMessage(domain.SendMessageCommand{
		Message: domain.Message{
			ID:         payload.ID,
			SenderID:   c.userID,
			SenderName: c.userName,
			Content:    payload.Content,
			CreatedAt:  time.Now().UTC(),
		},
		TargetUserID: payload.ToUserID,
	})
}

func (c *Client) handleSendCommunity(data json.RawMessage) {
	var payload SendCommunityPayload
	if !c.decode(data, &payload) {
		return
	}
	c.service.PostMessage(domain.SendMessageCommand{
		Message: domain.Message{
			ID:         payload.ID,
			Room:       domain.RoomID(payload.RoomID),
			SenderID:   c.userID,
			SenderName: c.userName,
			Content:    payload.Content,
			CreatedAt:  time.Now().UTC(),
		},
	})
}

// decode unmarshals and validates a payload, reporting a wire error on
// failure.
func (c *Client) decode(data json.RawMessage, payload any) bool {
	if err := json.Unmarshal(data, payload); err != nil {
		c.writeError(errors.ErrInvalidPayload)
		return false
	}
	if err := auth.ValidatePayload(payload); err != nil {
		c.writeError(errors.ErrInvalidPayload)
		return false
	}
	return true
}

func (c *Client) writeError(err error) {
	env, encodeErr := newEnvelope(EventError, ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
	if encodeErr != nil {
		return
	}
	select {
	case c.errs <- env:
	default:
		c.log.Warn("Error buffer full, dropping error frame", "code", errorCode(err))
	}
}

func errorCode(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrInvalidIdentity):
		return "invalid_identity"
	case stderrors.Is(err, errors.ErrRoomNotFound):
		return "room_not_found"
	case stderrors.Is(err, errors.ErrNotAuthenticated):
		return "not_authenticated"
	case stderrors.Is(err, errors.ErrInvalidPayload):
		return "invalid_payload"
	default:
		return "internal"
	}
}
