package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"creator-chat/ws"
)

// BaseSocketSuite dials websocket clients against a running server. The
// suite is skipped entirely when CHAT_SERVER_ADDR is unset, so it never
// interferes with plain unit runs.
type BaseSocketSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSocketSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("CHAT_SERVER_ADDR not set, skipping end-to-end scenarios")
	}
}

// CreateRoom registers a community or stream room through the REST
// surface; community rooms must exist before anyone may join them.
func (s *BaseSocketSuite) CreateRoom(roomID, kind string) {
	body, err := json.Marshal(map[string]string{"roomId": roomID, "kind": kind})
	s.Require().NoError(err)

	endpoint := fmt.Sprintf("http://%s/api/rooms", s.Config.ServerAddr)
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
}

// SocketClient is one connected identity: a websocket with join already
// performed and helpers to send envelopes and await specific ones.
type SocketClient struct {
	suite *BaseSocketSuite
	name  string
	conn  *websocket.Conn
}

// Dial opens a connection, prints a colorized header and authenticates
// the given identity.
func (s *BaseSocketSuite) Dial(name, userID, userName string) *SocketClient {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	endpoint := url.URL{Scheme: "ws", Host: s.Config.ServerAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(endpoint.String(), nil)
	s.Require().NoError(err, "Failed to connect to websocket server at "+s.Config.ServerAddr)

	client := &SocketClient{suite: s, name: name, conn: conn}
	client.Send(ws.EventJoin, ws.JoinPayload{UserID: userID, UserName: userName})
	return client
}

func (c *SocketClient) Close() {
	_ = c.conn.Close()
}

func (c *SocketClient) Send(event string, payload any) {
	raw, err := json.Marshal(payload)
	c.suite.Require().NoError(err)
	start := time.Now()
	err = c.conn.WriteJSON(ws.Envelope{Event: event, Data: raw})
	c.suite.Require().NoError(err)

	if c.suite.Config.DebugJSON {
		c.suite.T().Logf("WS SEND %s %s in %v\nPAYLOAD: %s", c.name, event, time.Since(start), raw)
	}
}

// Expect reads frames until one matches the wanted event name, decoding
// its payload into out. Interleaved presence or unread traffic is logged
// and skipped.
func (c *SocketClient) Expect(event string, out any, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for {
		c.suite.Require().NoError(c.conn.SetReadDeadline(deadline))
		var envelope ws.Envelope
		err := c.conn.ReadJSON(&envelope)
		c.suite.Require().NoError(err, "%s: timed out waiting for %q", c.name, event)

		if c.suite.Config.DebugJSON {
			c.suite.T().Logf("WS RECV %s %s\nPAYLOAD: %s", c.name, envelope.Event, envelope.Data)
		}
		if envelope.Event != event {
			continue
		}
		if out != nil {
			c.suite.Require().NoError(json.Unmarshal(envelope.Data, out))
		}
		return
	}
}

// ExpectSilence asserts no frame of the given event name arrives within
// the window.
func (c *SocketClient) ExpectSilence(event string, window time.Duration) {
	deadline := time.Now().Add(window)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		var envelope ws.Envelope
		if err := c.conn.ReadJSON(&envelope); err != nil {
			return // deadline hit, silence confirmed
		}
		c.suite.Require().NotEqual(event, envelope.Event,
			"%s: received %q during a silence window", c.name, event)
	}
}
