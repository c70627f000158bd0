// Package sink provides the EventSink implementations the fanout worker
// delivers into: live socket buffers and durable persistence.
package sink

import (
	"context"

	"creator-chat/domain/event"
	"creator-chat/runtime"
)

// SocketSink buffers events for one websocket connection. The write pump
// drains Events and turns them into frames.
//
// Each sink carries its own deduper: a connection is one consuming
// context, so a message replayed by a queue flush after a live delivery
// is dropped here, not upstream. Two tabs are two sinks and each shows
// the message exactly once.
type SocketSink struct {
	events chan event.DomainEvent
	seen   *runtime.Deduper
}

func NewSocketSink(bufferSize int) *SocketSink {
	return &SocketSink{
		events: make(chan event.DomainEvent, bufferSize),
		seen:   runtime.NewDeduper(),
	}
}

// Events exposes the buffered stream for the connection's write pump.
func (s *SocketSink) Events() <-chan event.DomainEvent {
	return s.events
}

// Consume is called by the fanout worker. A full buffer drops the event
// rather than stalling the pipeline; slow clients lose frames, not the
// whole room.
func (s *SocketSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if delivered, ok := e.(event.MessageDelivered); ok {
		if s.seen.Admit(delivered.Message.ID) == runtime.Duplicate {
			return nil
		}
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Backpressure: the client is too slow, drop instead of blocking.
		return nil
	}
}
