package frameslot

import (
	"testing"
	"time"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

func TestPutKeepsNewest(t *testing.T) {
	s := New()

	if superseded := s.Put(entity.Frame{Sequence: 1}); superseded {
		t.Error("first Put reported a superseded frame")
	}
	if superseded := s.Put(entity.Frame{Sequence: 2}); !superseded {
		t.Error("second Put did not report the pending frame as superseded")
	}

	frame, ok := s.Receive()
	if !ok {
		t.Fatal("Receive found no frame")
	}
	if frame.Sequence != 2 {
		t.Errorf("received sequence %d, want 2", frame.Sequence)
	}

	s.Close()
	if _, ok := s.Receive(); ok {
		t.Error("Receive returned a frame from a drained slot")
	}
}

func TestReceiveBlocksUntilPut(t *testing.T) {
	s := New()
	got := make(chan entity.Frame, 1)

	go func() {
		frame, ok := s.Receive()
		if ok {
			got <- frame
		}
	}()

	time.Sleep(20 * time.Millisecond)
	s.Put(entity.Frame{Sequence: 7})

	select {
	case frame := <-got:
		if frame.Sequence != 7 {
			t.Errorf("received sequence %d, want 7", frame.Sequence)
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Put")
	}
}

func TestCloseUnblocksReceive(t *testing.T) {
	s := New()
	done := make(chan bool, 1)

	go func() {
		_, ok := s.Receive()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Receive reported a frame after Close on an empty slot")
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Close")
	}
}

func TestCloseDeliversPendingFrame(t *testing.T) {
	s := New()
	s.Put(entity.Frame{Sequence: 3})
	s.Close()

	frame, ok := s.Receive()
	if !ok {
		t.Fatal("pending frame lost on Close")
	}
	if frame.Sequence != 3 {
		t.Errorf("received sequence %d, want 3", frame.Sequence)
	}

	if _, ok := s.Receive(); ok {
		t.Error("Receive returned a frame from a closed, drained slot")
	}

	if superseded := s.Put(entity.Frame{Sequence: 4}); superseded {
		t.Error("Put on a closed slot reported a superseded frame")
	}
}
