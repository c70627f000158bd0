// Package runtime handles command ingestion, room state, and event
// propagation. It orchestrates the messaging core without containing
// transport or storage logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/observability"

	"github.com/google/uuid"
)

// SystemUserID authors the seed message of an auto-created chat.
const SystemUserID = "system"

// Dispatcher is the fan-out decision point. Every command enters through
// a single serialized loop, so a send processed after a join always sees
// the updated membership and join-then-flush is atomic with respect to
// newly arriving sends.
//
// The loop only decides; delivery goes out as domain events on the events
// channel, which the moderation and fanout workers drain.
type Dispatcher struct {
	log        *slog.Logger
	registry   contract.IRegistry
	membership *Membership
	dedup      *Deduper
	queue      *OfflineQueue
	typing     *TypingTracker
	unread     *UnreadCounter
	monitoring *observability.MonitoringManager

	commands chan domain.Command
	events   chan event.DomainEvent

	mu            sync.RWMutex
	activeRooms   map[string]domain.RoomID
	conversations map[string]Set // user id -> direct rooms the user knows about
}

func NewDispatcher(log *slog.Logger, registry contract.IRegistry,
	membership *Membership, queue *OfflineQueue, unread *UnreadCounter,
	monitoring *observability.MonitoringManager, bufferSize int) *Dispatcher {
	d := &Dispatcher{
		log:           log,
		registry:      registry,
		membership:    membership,
		dedup:         NewDeduper(),
		queue:         queue,
		unread:        unread,
		monitoring:    monitoring,
		commands:      make(chan domain.Command, bufferSize),
		events:        make(chan event.DomainEvent, bufferSize),
		activeRooms:   make(map[string]domain.RoomID),
		conversations: make(map[string]Set),
	}
	d.typing = NewTypingTracker(log, TypingExpiry, d.onTypingExpired)
	return d
}

// Events exposes the outbound side of the pipeline for the moderation
// worker to consume.
func (d *Dispatcher) Events() chan event.DomainEvent { return d.events }

// Dispatch hands a command to the serialized loop without blocking the
// caller. A full channel drops the command, which the transport treats
// as a delivery failure.
func (d *Dispatcher) Dispatch(cmd domain.Command) {
	select {
	case d.commands <- cmd:
	default:
		d.log.Warn(fmt.Sprintf("Command channel full, dropping command for room %s", cmd.RoomID()))
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.log.Debug("Stopping dispatcher")
			d.typing.StopAll()
			return ctx.Err()
		case cmd, ok := <-d.commands:
			if !ok {
				return nil
			}
			d.handle(ctx, cmd)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.SendMessageCommand:
		d.handleSend(ctx, c)
	case domain.JoinRoomCommand:
		d.handleJoin(ctx, c)
	case domain.LeaveRoomCommand:
		d.handleLeave(ctx, c)
	case domain.ActivateRoomCommand:
		d.handleActivate(ctx, c)
	case domain.TypingCommand:
		d.handleTyping(ctx, c)
	case domain.CreateRoomCommand:
		if err := d.membership.Create(c.Room, c.Kind); err != nil {
			d.log.Warn("Room creation rejected", "room", c.Room, "kind", c.Kind, "error", err)
		}
	case domain.CloseRoomCommand:
		d.handleClose(ctx, c)
	case domain.SessionStartedCommand:
		d.handleSessionStarted(ctx, c)
	case domain.DisconnectCommand:
		d.handleDisconnect(ctx, c)
	default:
		d.log.Debug(fmt.Sprintf("Unhandled command type %T", cmd))
	}
}

// handleSend implements the fan-out algorithm: admit, resolve the room,
// queue for absent recipients, auto-create first-contact chats, bump
// unread counters, then emit the delivery event for moderation, the
// persistence sink and the live fan-out.
func (d *Dispatcher) handleSend(ctx context.Context, cmd domain.SendMessageCommand) {
	msg := cmd.Message
	if msg.ID == "" {
		// Clients generate ids; a missing one gets a server-side fallback
		// so dedup always has a key to work with.
		msg.ID = uuid.NewString()
	}
	if d.dedup.Admit(msg.ID) == Duplicate {
		// Redelivery is expected under at-least-once transport. Not an error.
		d.monitoring.Deduped.Add(1)
		d.log.Debug(fmt.Sprintf("Duplicate message %s ignored", msg.ID))
		return
	}

	if cmd.TargetUserID != "" {
		msg.Room = domain.DirectRoomID(msg.SenderID, cmd.TargetUserID)
	}

	kind, known := d.membership.Kind(msg.Room)
	if !known {
		if !domain.IsDirectRoomID(msg.Room) {
			d.log.Warn("Send targets unknown room", "room", msg.Room)
			return
		}
		// First send targeting an unknown direct room creates it.
		_ = d.membership.Create(msg.Room, domain.DirectRoom)
		kind = domain.DirectRoom
	}

	d.rememberConversation(msg.SenderID, msg.Room)

	if kind == domain.DirectRoom {
		d.deliverDirect(ctx, msg, cmd.TargetUserID)
		return
	}
	d.deliverRoom(ctx, msg)
}

func (d *Dispatcher) deliverDirect(ctx context.Context, msg domain.Message, target string) {
	if target == "" {
		target = directPeer(msg.Room, msg.SenderID)
	}

	// A first contact is only announced when the recipient has a live
	// connection to hear it. An offline recipient keeps the conversation
	// unknown, so the next session start synthesizes the notification.
	if !d.knowsConversation(target, msg.Room) && d.registry.IsOnline(target) {
		d.autoCreateChat(ctx, msg, target)
	}

	if d.activeRoom(target) != msg.Room {
		count := d.unread.Increment(target, msg.Room)
		d.emit(ctx, event.UnreadChanged{Room: msg.Room, UserID: target, Count: count})
	}

	live := d.membership.IsMember(msg.Room, target) && d.registry.IsOnline(target)
	if !live {
		// Presence is advisory: we tried the live path and fall back to
		// the queue, never the reverse.
		d.queue.Enqueue(domain.PendingMessage{
			Message:   msg,
			Recipient: target,
			QueuedAt:  time.Now().UTC(),
		})
		d.monitoring.Queued.Add(1)
		d.emit(ctx, event.MessageQueued{Pending: domain.PendingMessage{Message: msg, Recipient: target}})
		// The sender's other tabs still see the message live.
		d.emit(ctx, event.MessageDelivered{Message: msg, Target: msg.SenderID})
		return
	}

	d.monitoring.Delivered.Add(1)
	d.emit(ctx, event.MessageDelivered{Message: msg})
}

func (d *Dispatcher) deliverRoom(ctx context.Context, msg domain.Message) {
	for _, member := range d.membership.MembersOf(msg.Room) {
		if member == msg.SenderID {
			continue
		}
		if d.activeRoom(member) != msg.Room {
			count := d.unread.Increment(member, msg.Room)
			d.emit(ctx, event.UnreadChanged{Room: msg.Room, UserID: member, Count: count})
		}
	}
	d.monitoring.Delivered.Add(1)
	d.emit(ctx, event.MessageDelivered{Message: msg})
}

// autoCreateChat synthesizes the recipient side of a first-contact
// conversation: the room record, a seed system message, and the
// notification that makes the recipient's client grow a chat tab.
func (d *Dispatcher) autoCreateChat(ctx context.Context, msg domain.Message, target string) {
	d.rememberConversation(target, msg.Room)
	d.monitoring.AutoCreated.Add(1)

	seed := domain.NewMessage(msg.Room, SystemUserID, SystemUserID,
		fmt.Sprintf("%s started a conversation", msg.SenderName))

	d.emit(ctx, event.ChatAutoCreated{
		Room:          msg.Room,
		TargetUserID:  target,
		PeerUserID:    msg.SenderID,
		PeerUserName:  msg.SenderName,
		SeededMessage: seed,
		InitialUnread: 1,
	})
}

// handleJoin updates membership first and flushes the offline queue
// second, inside the same loop iteration. Any send processed after this
// point sees the new membership, which is the join-then-flush atomicity
// the queue contract requires.
func (d *Dispatcher) handleJoin(ctx context.Context, cmd domain.JoinRoomCommand) {
	if err := d.membership.Join(cmd.Room, cmd.UserID); err != nil {
		d.log.Warn("Join rejected", "room", cmd.Room, "user", cmd.UserID, "error", err)
		return
	}
	d.rememberConversation(cmd.UserID, cmd.Room)

	for _, p := range d.queue.Flush(cmd.UserID, cmd.Room) {
		// Flushed messages re-enter through each sink's dedup layer, so a
		// copy that already got through live is not displayed twice.
		d.monitoring.Flushed.Add(1)
		d.emit(ctx, event.MessageDelivered{Message: p.Message, Target: cmd.UserID})
	}

	d.emitViewerCount(ctx, cmd.Room)
}

func (d *Dispatcher) handleLeave(ctx context.Context, cmd domain.LeaveRoomCommand) {
	d.membership.Leave(cmd.Room, cmd.UserID)
	if d.typing.ClearTyping(cmd.Room, cmd.UserID) {
		d.emit(ctx, event.TypingChanged{Room: cmd.Room, UserID: cmd.UserID, Typing: false})
	}
	d.emitViewerCount(ctx, cmd.Room)
}

func (d *Dispatcher) handleActivate(ctx context.Context, cmd domain.ActivateRoomCommand) {
	d.mu.Lock()
	d.activeRooms[cmd.UserID] = cmd.Room
	d.mu.Unlock()

	d.unread.Reset(cmd.UserID, cmd.Room)
	d.emit(ctx, event.UnreadChanged{Room: cmd.Room, UserID: cmd.UserID, Count: 0})
}

func (d *Dispatcher) handleTyping(ctx context.Context, cmd domain.TypingCommand) {
	d.monitoring.TypingEvents.Add(1)
	if cmd.Stop {
		if d.typing.ClearTyping(cmd.Room, cmd.UserID) {
			d.emit(ctx, event.TypingChanged{Room: cmd.Room, UserID: cmd.UserID, UserName: cmd.UserName, Typing: false})
		}
		return
	}
	// Refreshes are forwarded too: receivers extend their own 3 second
	// expiry window on every one of them.
	d.typing.SetTyping(cmd.Room, cmd.UserID, cmd.UserName)
	d.emit(ctx, event.TypingChanged{Room: cmd.Room, UserID: cmd.UserID, UserName: cmd.UserName, Typing: true})
}

func (d *Dispatcher) handleClose(ctx context.Context, cmd domain.CloseRoomCommand) {
	d.typing.CloseRoom(cmd.Room)
	d.membership.Close(cmd.Room)
	d.emit(ctx, event.ViewerCount{Room: cmd.Room, Count: 0})
}

// handleSessionStarted reconciles durable unread counts and tells the
// client about conversations that were auto-created while it was away.
func (d *Dispatcher) handleSessionStarted(ctx context.Context, cmd domain.SessionStartedCommand) {
	d.unread.LoadUser(cmd.UserID)

	if cmd.First {
		d.emit(ctx, event.PresenceChanged{
			UserID:   cmd.UserID,
			UserName: cmd.UserName,
			Online:   true,
			At:       time.Now().UTC(),
		})
	}

	for room, pendings := range d.queue.PendingFor(cmd.UserID) {
		if d.knowsConversation(cmd.UserID, room) || len(pendings) == 0 {
			continue
		}
		first := pendings[0]
		d.rememberConversation(cmd.UserID, room)
		d.monitoring.AutoCreated.Add(1)
		d.emit(ctx, event.ChatAutoCreated{
			Room:          room,
			TargetUserID:  cmd.UserID,
			PeerUserID:    first.SenderID,
			PeerUserName:  first.SenderName,
			SeededMessage: domain.NewMessage(room, SystemUserID, SystemUserID, fmt.Sprintf("%s started a conversation", first.SenderName)),
			InitialUnread: d.unread.Get(cmd.UserID, room),
		})
	}

	if counts := d.unread.Counts(cmd.UserID); len(counts) > 0 {
		for room, count := range counts {
			d.emit(ctx, event.UnreadChanged{Room: room, UserID: cmd.UserID, Count: count})
		}
	}
}

func (d *Dispatcher) handleDisconnect(ctx context.Context, cmd domain.DisconnectCommand) {
	if !cmd.Last {
		return
	}
	for _, room := range d.typing.ClearUser(cmd.UserID) {
		d.emit(ctx, event.TypingChanged{Room: room, UserID: cmd.UserID, UserName: cmd.UserName, Typing: false})
	}

	d.mu.Lock()
	delete(d.activeRooms, cmd.UserID)
	d.mu.Unlock()

	d.emit(ctx, event.PresenceChanged{
		UserID:   cmd.UserID,
		UserName: cmd.UserName,
		Online:   false,
		At:       cmd.At,
	})
}

// Conversations lists the direct rooms a user knows about, newest last.
func (d *Dispatcher) Conversations(userID string) []domain.RoomID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]domain.RoomID, 0, len(d.conversations[userID]))
	for room := range d.conversations[userID] {
		rooms = append(rooms, domain.RoomID(room))
	}
	return rooms
}

func (d *Dispatcher) onTypingExpired(room domain.RoomID, userID, userName string) {
	// Runs on the timer goroutine; emit is safe from any goroutine.
	d.emit(context.Background(), event.TypingChanged{Room: room, UserID: userID, UserName: userName, Typing: false})
}

func (d *Dispatcher) emitViewerCount(ctx context.Context, room domain.RoomID) {
	if kind, ok := d.membership.Kind(room); ok && kind == domain.StreamRoom {
		d.emit(ctx, event.ViewerCount{Room: room, Count: len(d.membership.MembersOf(room))})
	}
}

func (d *Dispatcher) emit(_ context.Context, evt event.DomainEvent) {
	select {
	case d.events <- evt:
	default:
		d.log.Warn(fmt.Sprintf("Event channel full, dropping %T for room %s", evt, evt.RoomID()))
	}
}

func (d *Dispatcher) activeRoom(userID string) domain.RoomID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeRooms[userID]
}

func (d *Dispatcher) rememberConversation(userID string, room domain.RoomID) {
	if !domain.IsDirectRoomID(room) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.conversations[userID]; !ok {
		d.conversations[userID] = make(Set)
	}
	d.conversations[userID][string(room)] = struct{}{}
}

func (d *Dispatcher) knowsConversation(userID string, room domain.RoomID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.conversations[userID][string(room)]
	return ok
}

// directPeer extracts the other participant from a direct room id.
func directPeer(room domain.RoomID, userID string) string {
	trimmed := strings.TrimPrefix(string(room), "dm_")
	a, b, found := strings.Cut(trimmed, "_")
	if !found {
		return ""
	}
	if a == userID {
		return b
	}
	return a
}
