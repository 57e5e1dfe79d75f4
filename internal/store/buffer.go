package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultDebounce is how long writes may sit in the buffer before a
	// background flush.
	DefaultDebounce = 30 * time.Second
	// DefaultMaxPending forces a flush once this many items are queued.
	DefaultMaxPending = 50
)

// Buffer batches progress upserts and attempt appends in front of the store.
// Writes sit for a debounce window so a burst of answers becomes one flush;
// crossing the pending limit forces an immediate flush instead. The engine
// itself never sees this type; it wraps the repos on the runner side.
type Buffer struct {
	progress ProgressRepo
	events   EventRepo

	debounce   time.Duration
	maxPending int

	mu              sync.Mutex
	pendingProgress map[string]ProgressData
	pendingAttempts []AttemptData
	timer           *time.Timer
	closed          bool
}

// NewBuffer returns a Buffer with the default debounce and pending limit.
func NewBuffer(progress ProgressRepo, events EventRepo) *Buffer {
	return &Buffer{
		progress:        progress,
		events:          events,
		debounce:        DefaultDebounce,
		maxPending:      DefaultMaxPending,
		pendingProgress: make(map[string]ProgressData),
	}
}

// NewBufferWith returns a Buffer with explicit tuning, for tests.
func NewBufferWith(progress ProgressRepo, events EventRepo, debounce time.Duration, maxPending int) *Buffer {
	b := NewBuffer(progress, events)
	b.debounce = debounce
	b.maxPending = maxPending
	return b
}

// QueueProgress stages a per-skill upsert. Later writes for the same
// (user, skill) pair replace earlier ones.
func (b *Buffer) QueueProgress(data ProgressData) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pendingProgress[data.UserID+"\x00"+data.SkillID] = data
	b.afterQueueLocked()
}

// QueueAttempt stages an append to the attempt log.
func (b *Buffer) QueueAttempt(data AttemptData) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pendingAttempts = append(b.pendingAttempts, data)
	b.afterQueueLocked()
}

// afterQueueLocked arms the debounce timer or forces a flush at the limit.
// Releases the mutex.
func (b *Buffer) afterQueueLocked() {
	if len(b.pendingProgress)+len(b.pendingAttempts) >= b.maxPending {
		b.mu.Unlock()
		_ = b.Flush(context.Background())
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.debounce, func() {
			_ = b.Flush(context.Background())
		})
	}
	b.mu.Unlock()
}

// Flush writes everything pending. Attempts flush before progress so the log
// never trails the aggregates it produced.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	attempts := b.pendingAttempts
	b.pendingAttempts = nil
	progressItems := make([]ProgressData, 0, len(b.pendingProgress))
	for _, d := range b.pendingProgress {
		progressItems = append(progressItems, d)
	}
	b.pendingProgress = make(map[string]ProgressData)
	b.mu.Unlock()

	sort.Slice(progressItems, func(i, j int) bool {
		if progressItems[i].UserID != progressItems[j].UserID {
			return progressItems[i].UserID < progressItems[j].UserID
		}
		return progressItems[i].SkillID < progressItems[j].SkillID
	})

	for _, a := range attempts {
		if err := b.events.AppendAttempt(ctx, a); err != nil {
			return fmt.Errorf("flush attempt: %w", err)
		}
	}
	for _, p := range progressItems {
		if err := b.progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("flush progress: %w", err)
		}
	}
	return nil
}

// Pending returns the number of staged items.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pendingProgress) + len(b.pendingAttempts)
}

// Close flushes and stops accepting writes.
func (b *Buffer) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.Flush(ctx)
}
