// Package frameslot provides the single-frame hand-off between a session's
// ingest path and its processing worker. The slot holds at most one frame:
// a newer frame replaces an unconsumed one, so the worker always sees the
// most recent capture and backlog can never build up.
package frameslot

import (
	"sync"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

type Slot struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  entity.Frame
	filled bool
	closed bool
}

func New() *Slot {
	s := &Slot{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Put stores a frame, replacing any frame not yet consumed. It reports
// whether a pending frame was superseded. Put on a closed slot is a no-op.
func (s *Slot) Put(frame entity.Frame) (superseded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	superseded = s.filled
	s.frame = frame
	s.filled = true
	s.cond.Signal()

	return superseded
}

// Receive blocks until a frame is available or the slot is closed.
// The second return value is false once the slot is closed and drained.
func (s *Slot) Receive() (entity.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.filled && !s.closed {
		s.cond.Wait()
	}

	if !s.filled {
		return entity.Frame{}, false
	}

	frame := s.frame
	s.frame = entity.Frame{}
	s.filled = false

	return frame, true
}

// Close wakes any blocked receiver. A frame already in the slot is still
// delivered before Receive starts reporting closure.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	s.cond.Broadcast()
}
