package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"creator-chat/auth"
	"creator-chat/services"
)

// Server upgrades HTTP requests into websocket sessions and runs the two
// pumps for each connection.
type Server struct {
	log        *slog.Logger
	service    services.IChatService
	tokens     *auth.TokenManager
	upgrader   websocket.Upgrader
	bufferSize int
}

func NewServer(log *slog.Logger, service services.IChatService,
	tokens *auth.TokenManager, bufferSize int) *Server {
	return &Server{
		log:     log,
		service: service,
		tokens:  tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The socket endpoint serves browsers on other origins; the
			// join handshake is the actual gate.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize: bufferSize,
	}
}

// ServeHTTP implements http.Handler so the socket endpoint mounts on any mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade connection", "error", err)
		return
	}
	connID := uuid.NewString()
	s.log.Debug("Socket connected", "conn", connID, "remote", r.RemoteAddr)

	client := newClient(s.log, conn, s.service, s.tokens, connID, s.bufferSize)
	go client.WritePump()
	go client.ReadPump()
}
