// Package runtime handles command ingestion, room state, and event
// propagation. It orchestrates the messaging core without containing
// transport or storage logic.
package runtime

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/errors"
	"creator-chat/moderation"
	"creator-chat/observability"
	"creator-chat/runtime/workers"
)

//go:embed censored/*
var censoredFolder embed.FS

// Engine assembles the messaging pipeline: dispatcher -> moderation ->
// fanout, all run under one supervisor. It is the single entry point the
// transports talk to.
type Engine struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   contract.IRegistry
	membership *Membership
	queue      *OfflineQueue
	unread     *UnreadCounter
	dispatcher *Dispatcher
	monitoring *observability.MonitoringManager
	messages   contract.MessageStore

	permanentSinks  []contract.EventSink
	sinkTimeout     time.Duration
	charReplacement rune
	metricInterval  time.Duration
}

func NewEngine(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, membership *Membership, queue *OfflineQueue,
	unread *UnreadCounter, monitoring *observability.MonitoringManager,
	messages contract.MessageStore, bufferSize int,
	sinkTimeout, metricInterval time.Duration, charReplacement rune) *Engine {
	return &Engine{
		log:             log,
		supervisor:      supervisor,
		registry:        registry,
		membership:      membership,
		queue:           queue,
		unread:          unread,
		monitoring:      monitoring,
		messages:        messages,
		sinkTimeout:     sinkTimeout,
		charReplacement: charReplacement,
		metricInterval:  metricInterval,
		dispatcher: NewDispatcher(log, registry, membership, queue, unread,
			monitoring, bufferSize),
	}
}

// AddSinks registers permanent sinks (persistence, projections) that see
// every pipeline event. Must be called before Start.
func (e *Engine) AddSinks(sinks ...contract.EventSink) {
	e.permanentSinks = append(e.permanentSinks, sinks...)
}

// Start loads the moderation dictionaries, wires the pipeline workers to
// the supervisor and launches them. It returns once the pipeline is
// running; shutdown is driven by cancelling ctx or calling Stop.
func (e *Engine) Start(ctx context.Context) error {
	loader := NewCensoredLoader(censoredFolder)
	data, err := loader.LoadAll("censored")
	if err != nil {
		return err
	}
	e.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	e.log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words, e.charReplacement, e.log)
	if err != nil {
		return err
	}

	moderated := make(chan event.DomainEvent, cap(e.dispatcher.Events()))
	e.supervisor.Add(
		e.dispatcher,
		workers.NewModerationWorker(moderator, e.dispatcher.Events(), moderated, e.log),
		workers.NewFanoutWorker(e.log, e.registry, e.membership, moderated,
			e.permanentSinks, e.sinkTimeout),
		workers.NewHeartbeatWorker(e.log, e.monitoring, e.metricInterval),
		workers.NewChannelCapacityWorker(e.log, []workers.NamedChannel{
			{Name: "commands", Channel: e.dispatcher.commands},
			{Name: "rawEvents", Channel: e.dispatcher.events},
			{Name: "moderatedEvents", Channel: moderated},
		}, e.metricInterval),
	)

	e.log.Info("Starting engine and all supervised workers")
	go e.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown of the pipeline.
func (e *Engine) Stop() {
	e.log.Info("Requesting engine shutdown")
	e.supervisor.Stop()
}

// Authenticate binds an identity to a connection and schedules the
// session-start reconciliation (presence, unread merge, auto-created
// conversation synthesis).
func (e *Engine) Authenticate(connID, userID, userName string, sink contract.EventSink) error {
	first, err := e.registry.Authenticate(connID, userID, userName, sink)
	if err != nil {
		return err
	}
	e.monitoring.Connections.Add(1)
	e.dispatcher.Dispatch(domain.SessionStartedCommand{
		ConnectionID: connID,
		UserID:       userID,
		UserName:     userName,
		First:        first,
	})
	return nil
}

// Disconnect tears down a connection and the state scoped to it.
func (e *Engine) Disconnect(connID string) {
	conn, last := e.registry.Disconnect(connID)
	if conn.ID == "" {
		return
	}
	e.monitoring.Connections.Add(-1)
	e.dispatcher.Dispatch(domain.DisconnectCommand{
		ConnectionID: connID,
		UserID:       conn.UserID,
		UserName:     conn.UserName,
		Last:         last,
		At:           time.Now().UTC(),
	})
}

// JoinRoom validates the target room synchronously so the caller gets a
// RoomNotFound for unknown community or stream rooms, then hands the
// join (and its queue flush) to the serialized dispatcher loop.
func (e *Engine) JoinRoom(roomID domain.RoomID, userID, userName string) error {
	if _, known := e.membership.Kind(roomID); !known && !domain.IsDirectRoomID(roomID) {
		return errors.ErrRoomNotFound
	}
	e.dispatcher.Dispatch(domain.JoinRoomCommand{Room: roomID, UserID: userID, UserName: userName})
	return nil
}

func (e *Engine) LeaveRoom(roomID domain.RoomID, userID string) {
	e.dispatcher.Dispatch(domain.LeaveRoomCommand{Room: roomID, UserID: userID})
}

func (e *Engine) CreateRoom(roomID domain.RoomID, kind domain.RoomKind) error {
	return e.membership.Create(roomID, kind)
}

func (e *Engine) CloseRoom(roomID domain.RoomID) {
	e.dispatcher.Dispatch(domain.CloseRoomCommand{Room: roomID})
}

func (e *Engine) PostMessage(cmd domain.SendMessageCommand) {
	e.dispatcher.Dispatch(cmd)
}

func (e *Engine) ActivateRoom(roomID domain.RoomID, userID string) {
	e.dispatcher.Dispatch(domain.ActivateRoomCommand{Room: roomID, UserID: userID})
}

func (e *Engine) SetTyping(roomID domain.RoomID, userID, userName string, stop bool) {
	e.dispatcher.Dispatch(domain.TypingCommand{Room: roomID, UserID: userID, UserName: userName, Stop: stop})
}

// GetMessages pages through persisted room history, newest first.
func (e *Engine) GetMessages(cmd domain.GetMessageCommand) ([]domain.Message, *string, error) {
	return e.messages.GetMessages(cmd.Room, cmd.Cursor)
}

// Conversations lists the direct rooms a user knows about.
func (e *Engine) Conversations(userID string) []domain.RoomID {
	return e.dispatcher.Conversations(userID)
}

// UnreadCounts snapshots the user's non-zero unread counters.
func (e *Engine) UnreadCounts(userID string) map[domain.RoomID]int {
	return e.unread.Counts(userID)
}

// TypingLabel renders the current indicator text for a room.
func (e *Engine) TypingLabel(roomID domain.RoomID) string {
	return TypingLabel(e.dispatcher.typing.Typists(roomID))
}

// OnlineUsers lists the identities currently holding a live connection.
func (e *Engine) OnlineUsers() []domain.Connection {
	return e.registry.OnlineUsers()
}

// Stats snapshots the delivery counters.
func (e *Engine) Stats() observability.MonitoringStats {
	return e.monitoring.GetLatest()
}
