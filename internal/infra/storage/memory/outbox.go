package memory

import (
	"context"
	"sync"

	"teamdesk/internal/app/outbox"
)

// Outbox stages event records in memory. Flush moves the staged batch into
// the published log, which tests inspect to assert event emission.
type Outbox struct {
	mu        sync.Mutex
	staged    []outbox.EventRecord
	published []outbox.EventRecord
}

// NewOutbox builds an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record outbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published = append(o.published, o.staged...)
	o.staged = nil
	return nil
}

// Published returns a snapshot of flushed records.
func (o *Outbox) Published() []outbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]outbox.EventRecord(nil), o.published...)
}

// Reset clears both staged and published records.
func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = nil
	o.published = nil
}
