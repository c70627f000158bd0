package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/domain/event"
)

// MemberResolver answers which users currently belong to a room.
type MemberResolver interface {
	MembersOf(roomID domain.RoomID) []string
}

// FanoutWorker delivers pipeline events to the connections that should
// see them plus the permanent sinks (persistence, projections).
//
// Delivery to a sink is sequential on purpose: sinks are buffered
// channels behind each socket, and a sequential pass is what keeps the
// per-room receipt order intact on every client. A sink that blocks past
// the timeout loses the event; it does not stall the pipeline.
//
// Fan-out is best effort with no retries. Effectively-once display is
// the dedup layer's job, not this worker's.
type FanoutWorker struct {
	log            *slog.Logger
	registry       contract.IRegistry
	members        MemberResolver
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewFanoutWorker(log *slog.Logger, registry contract.IRegistry,
	members MemberResolver, events chan event.DomainEvent,
	permanentSinks []contract.EventSink, sinkTimeout time.Duration) *FanoutWorker {
	return &FanoutWorker{
		log:            log,
		registry:       registry,
		members:        members,
		events:         events,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *FanoutWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(evt)
		}
	}
}

// Fanout delivers one event to its live audience and the permanent sinks.
func (w *FanoutWorker) Fanout(evt event.DomainEvent) {
	sinks := make([]contract.EventSink, 0, len(w.permanentSinks))
	sinks = append(sinks, w.permanentSinks...)
	sinks = append(sinks, w.audience(evt)...)

	for _, sink := range sinks {
		ctx, cancel := context.WithTimeout(context.Background(), w.sinkTimeout)
		if err := sink.Consume(ctx, evt); err != nil {
			// A failed consume never crashes the pipeline.
			w.log.Warn(fmt.Sprintf("Sink rejected %T", evt), "room", evt.RoomID(), "error", err)
		}
		cancel()
	}
}

// audience resolves the live sinks an event should reach.
func (w *FanoutWorker) audience(evt event.DomainEvent) []contract.EventSink {
	switch e := evt.(type) {
	case event.MessageDelivered:
		if e.Target != "" {
			return w.registry.SinksForUser(e.Target)
		}
		return w.roomSinks(e.Message.Room)
	case event.MessageQueued:
		// Queued means no live audience; the permanent sinks still persist it.
		return nil
	case event.ChatAutoCreated:
		return w.registry.SinksForUser(e.TargetUserID)
	case event.UnreadChanged:
		return w.registry.SinksForUser(e.UserID)
	case event.TypingChanged:
		return w.roomSinks(e.Room)
	case event.ViewerCount:
		return w.roomSinks(e.Room)
	case event.PresenceChanged:
		// Advisory broadcast to everyone connected.
		return w.registry.AllSinks()
	default:
		return nil
	}
}

// roomSinks flattens room membership into the live sinks of every member,
// multi-tab included.
func (w *FanoutWorker) roomSinks(room domain.RoomID) []contract.EventSink {
	var sinks []contract.EventSink
	for _, member := range w.members.MembersOf(room) {
		sinks = append(sinks, w.registry.SinksForUser(member)...)
	}
	return sinks
}
