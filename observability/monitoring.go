// Package observability aggregates delivery counters for logs and the
// stats endpoint. Counters are atomic; reading them never blocks the
// dispatch path.
package observability

import (
	"runtime"
	"sync/atomic"
)

// MonitoringStats is a point-in-time snapshot.
type MonitoringStats struct {
	Delivered    uint64 `json:"delivered"`
	Deduped      uint64 `json:"deduped"`
	Queued       uint64 `json:"queued"`
	Flushed      uint64 `json:"flushed"`
	AutoCreated  uint64 `json:"auto_created"`
	TypingEvents uint64 `json:"typing_events"`
	Connections  int64  `json:"connections"`
	AllocMemMb   uint64 `json:"alloc_mem_mb"`
	NumGC        uint32 `json:"num_gc"`
}

// MonitoringManager owns the live counters.
type MonitoringManager struct {
	Delivered    atomic.Uint64
	Deduped      atomic.Uint64
	Queued       atomic.Uint64
	Flushed      atomic.Uint64
	AutoCreated  atomic.Uint64
	TypingEvents atomic.Uint64
	Connections  atomic.Int64
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{}
}

func (m *MonitoringManager) GetLatest() MonitoringStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return MonitoringStats{
		Delivered:    m.Delivered.Load(),
		Deduped:      m.Deduped.Load(),
		Queued:       m.Queued.Load(),
		Flushed:      m.Flushed.Load(),
		AutoCreated:  m.AutoCreated.Load(),
		TypingEvents: m.TypingEvents.Load(),
		Connections:  m.Connections.Load(),
		AllocMemMb:   mem.Alloc / 1024 / 1024,
		NumGC:        mem.NumGC,
	}
}
