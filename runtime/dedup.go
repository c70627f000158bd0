package runtime

import "sync"

type Admission int

const (
	Admitted Admission = iota
	Duplicate
)

// Deduper converts the transport's at-least-once delivery into
// effectively-once. The message id is the sole deduplication key; content
// and timestamps are never consulted. One Deduper exists per consuming
// context: each connected client sink owns one, and the dispatcher owns
// one guarding the ingress path.
//
// Safe for concurrent use: a message can arrive both as a live push and
// as part of a queue flush at the same time.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Admit records the id and reports whether it was seen before.
// The membership test and the insertion are a single critical section so
// two concurrent deliveries of the same id collapse into one admission.
func (d *Deduper) Admit(id string) Admission {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return Duplicate
	}
	d.seen[id] = struct{}{}
	return Admitted
}

func (d *Deduper) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[id]
	return ok
}
