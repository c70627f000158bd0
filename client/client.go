package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"

	"creator-chat/ws"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	UserID        string `env:"CHAT_USER_ID,required=true"`
	UserName      string `env:"CHAT_USER_NAME,required=true"`
	DefaultRoomID string `env:"CHAT_ROOM_ID,default=community_general"`
	LogLevel      string `env:"LOG_LEVEL,required=true"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles the websocket client lifecycle, configuration loading, and
// the two loops: socket reception and stdin commands.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish the websocket connection to the server.
	endpoint := url.URL{Scheme: "ws", Host: config.ServerAddress, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 4. Authenticate and join the default room.
	if err := send(conn, ws.EventJoin, ws.JoinPayload{UserID: config.UserID, UserName: config.UserName}); err != nil {
		return exitRuntime, err
	}
	if err := send(conn, ws.EventJoinCommunity, ws.RoomPayload{RoomID: config.DefaultRoomID}); err != nil {
		return exitRuntime, err
	}

	log.Info(fmt.Sprintf(">>> Connected to %s as %s! Listening room %s (Ctrl+C to quit)...",
		config.ServerAddress, config.UserName, config.DefaultRoomID))

	// 5. Stdin command loop. /dm <user> <text> sends a direct message,
	// /join <room> subscribes, anything else goes to the default room.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := handleLine(conn, config, scanner.Text()); err != nil {
				log.Error("Failed to send", "error", err)
				return
			}
		}
	}()

	// 6. Message reception loop.
	// Runs until the context is canceled or the server closes the connection.
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			return exitOK, nil
		default:
			var envelope ws.Envelope
			if err := conn.ReadJSON(&envelope); err != nil {
				// Normal exit if the user triggered a shutdown.
				if ctx.Err() != nil {
					return exitOK, nil
				}
				return exitRuntime, fmt.Errorf("socket error: %w", err)
			}
			display(envelope)
		}
	}
}

func handleLine(conn *websocket.Conn, config Config, line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "/join "):
		return send(conn, ws.EventJoinCommunity, ws.RoomPayload{RoomID: strings.TrimPrefix(line, "/join ")})
	case strings.HasPrefix(line, "/dm "):
		parts := strings.SplitN(strings.TrimPrefix(line, "/dm "), " ", 2)
		if len(parts) != 2 {
			return nil
		}
		return send(conn, ws.EventSendMessage, ws.SendMessagePayload{
			ID: uuid.NewString(), ToUserID: parts[0], Content: parts[1],
		})
	default:
		return send(conn, ws.EventSendCommunity, ws.SendCommunityPayload{
			ID: uuid.NewString(), RoomID: config.DefaultRoomID, Content: line,
		})
	}
}

func send(conn *websocket.Conn, name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Envelope{Event: name, Data: raw})
}

// display renders one server frame. Unknown events are ignored, the
// server may grow new ones.
func display(envelope ws.Envelope) {
	switch envelope.Event {
	case ws.EventReceiveMessage, ws.EventCommunityMessage:
		var m ws.MessagePayload
		if json.Unmarshal(envelope.Data, &m) == nil {
			color.Green.Printf("[%s] %s: %s\n", m.CreatedAt.Format(time.TimeOnly), m.SenderName, m.Content)
		}
	case ws.EventAutoCreateChat:
		var p ws.AutoCreatePayload
		if json.Unmarshal(envelope.Data, &p) == nil {
			color.Cyan.Printf("New conversation with %s (%d unread)\n", p.PeerName, p.Unread)
		}
	case ws.EventUserTyping:
		var p ws.TypingPayload
		if json.Unmarshal(envelope.Data, &p) == nil && p.Label != "" {
			color.Gray.Println(p.Label)
		}
	case ws.EventPresence:
		var p ws.PresencePayload
		if json.Unmarshal(envelope.Data, &p) == nil {
			state := "offline"
			if p.Online {
				state = "online"
			}
			color.Yellow.Printf("%s is %s\n", p.UserName, state)
		}
	case ws.EventUnreadCounts:
		var p ws.UnreadPayload
		if json.Unmarshal(envelope.Data, &p) == nil && p.Count > 0 {
			color.Magenta.Printf("%s: %d unread\n", p.RoomID, p.Count)
		}
	case ws.EventError:
		var p ws.ErrorPayload
		if json.Unmarshal(envelope.Data, &p) == nil {
			color.Red.Printf("Server error [%s]: %s\n", p.Code, p.Message)
		}
	}
}
