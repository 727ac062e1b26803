package thermal

import (
	"encoding/binary"
	"sync/atomic"
)

// SourceStats counts frames seen by a Source.
type SourceStats struct {
	Received  uint64
	Malformed uint64
	Enqueued  uint64
	Dropped   uint64
}

// Source receives frames from the camera driver and hands them to a Buffer.
// HandleFrame is safe to register as the driver's per-frame callback.
type Source struct {
	buf *Buffer

	received  atomic.Uint64
	malformed atomic.Uint64
	enqueued  atomic.Uint64
}

// NewSource creates a Source feeding buf.
func NewSource(buf *Buffer) *Source {
	return &Source{buf: buf}
}

// HandleFrame decodes a Y16 frame (little-endian uint16 per pixel, row-major)
// and enqueues it without blocking.
//
// Frames whose length is not 2×width×height are discarded silently. data is
// only read for the duration of the call; the enqueued Sample owns a copy.
func (s *Source) HandleFrame(data []byte, width, height int) {
	s.received.Add(1)

	if width <= 0 || height <= 0 || len(data) != 2*width*height {
		s.malformed.Add(1)
		return
	}

	pix := make([]uint16, width*height)
	for i := range pix {
		pix[i] = binary.LittleEndian.Uint16(data[2*i:])
	}

	if s.buf.TryPush(&Sample{Width: width, Height: height, Pix: pix}) {
		s.enqueued.Add(1)
	}
}

// Stats returns a snapshot of the frame counters.
func (s *Source) Stats() SourceStats {
	return SourceStats{
		Received:  s.received.Load(),
		Malformed: s.malformed.Load(),
		Enqueued:  s.enqueued.Load(),
		Dropped:   s.buf.Dropped(),
	}
}
