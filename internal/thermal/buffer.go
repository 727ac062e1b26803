package thermal

import (
	"sync/atomic"
	"time"
)

// DefaultCapacity is the frame buffer size used when none is configured.
const DefaultCapacity = 10

// Buffer is a fixed-capacity FIFO of samples between one producer (the
// capture callback) and one consumer (the render loop).
//
// When full, TryPush discards the incoming sample instead of evicting an
// older one, so the producer never blocks.
type Buffer struct {
	ch      chan *Sample
	dropped atomic.Uint64
}

// NewBuffer creates a Buffer holding at most capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{ch: make(chan *Sample, capacity)}
}

// TryPush enqueues s without blocking. It returns false, and counts a drop,
// if the buffer is full.
func (b *Buffer) TryPush(s *Sample) bool {
	select {
	case b.ch <- s:
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

// TryPop returns the oldest sample, waiting at most timeout for one to
// arrive. A non-positive timeout polls without waiting. ok is false when no
// sample was available, which is the normal "no new frame" condition.
func (b *Buffer) TryPop(timeout time.Duration) (s *Sample, ok bool) {
	select {
	case s = <-b.ch:
		return s, true
	default:
	}
	if timeout <= 0 {
		return nil, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s = <-b.ch:
		return s, true
	case <-timer.C:
		return nil, false
	}
}

// Len returns the number of queued samples.
func (b *Buffer) Len() int {
	return len(b.ch)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return cap(b.ch)
}

// Dropped returns how many pushes were discarded because the buffer was full.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}
