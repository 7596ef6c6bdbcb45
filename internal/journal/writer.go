package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store persists batches. persist.JournalRepo implements it.
type Store interface {
	WriteEntries(ctx context.Context, entries []Entry) error
}

// Buffer is the region-side collector. Not safe for concurrent use; each
// region owns one and flushes it during its persist phase.
type Buffer struct {
	pending []Entry
	out     chan<- []Entry
	dropped int
	log     *zap.Logger
}

func (b *Buffer) Record(e Entry) {
	b.pending = append(b.pending, e)
}

func (b *Buffer) Pending() int { return len(b.pending) }

// Dropped counts entries discarded because the writer queue was full.
func (b *Buffer) Dropped() int { return b.dropped }

// Flush hands pending entries to the writer without blocking the tick.
func (b *Buffer) Flush() {
	if len(b.pending) == 0 {
		return
	}
	batch := b.pending
	select {
	case b.out <- batch:
		b.pending = nil
	default:
		b.dropped += len(batch)
		b.log.Warn("journal queue full, dropping batch",
			zap.Int("entries", len(batch)), zap.Int("dropped_total", b.dropped))
		b.pending = b.pending[:0]
	}
}

// Writer drains batches from all region buffers into a Store.
type Writer struct {
	in    chan []Entry
	store Store
	log   *zap.Logger
}

func NewWriter(store Store, queueSize int, log *zap.Logger) *Writer {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Writer{
		in:    make(chan []Entry, queueSize),
		store: store,
		log:   log,
	}
}

// NewBuffer returns a collector feeding this writer.
func (w *Writer) NewBuffer() *Buffer {
	return &Buffer{out: w.in, log: w.log}
}

// Run writes batches until ctx is cancelled, then drains what is queued.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case batch := <-w.in:
			w.write(ctx, batch)
		case <-ctx.Done():
			w.drain()
			return nil
		}
	}
}

func (w *Writer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case batch := <-w.in:
			w.write(ctx, batch)
		default:
			return
		}
	}
}

func (w *Writer) write(ctx context.Context, batch []Entry) {
	if err := w.store.WriteEntries(ctx, batch); err != nil {
		// 寫入失敗不影響模擬，只記錄。
		w.log.Error("journal write failed", zap.Int("entries", len(batch)), zap.Error(err))
	}
}
