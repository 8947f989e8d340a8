package landmark

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

var testUpgrader = websocket.Upgrader{}

// landmarkServer runs a websocket endpoint that calls handle for every
// received frame. A nil handle consumes frames without ever answering.
func landmarkServer(t *testing.T, handle func(conn *websocket.Conn) error) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			if handle != nil {
				if err := handle(conn); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func connectedClient(t *testing.T, srv *httptest.Server) ILandmark {
	t.Helper()

	t.Setenv("LANDMARK_SERVICE_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))

	c := NewClient()
	t.Cleanup(c.Close)

	deadline := time.Now().Add(2 * time.Second)
	for !c.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("client did not connect to the landmark service")
		}
		time.Sleep(10 * time.Millisecond)
	}

	return c
}

func TestDetectReturnsLandmarks(t *testing.T) {
	srv := landmarkServer(t, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"face_detected":true,"landmarks":[[0.1,0.2],[0.3,0.4]]}`))
	})
	c := connectedClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ls, err := c.Detect(ctx, entity.Frame{Data: []byte{0x01}})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if ls == nil || len(ls.Points) != 2 {
		t.Fatalf("Detect returned %+v, want 2 landmark points", ls)
	}
	if ls.Points[1].X != 0.3 || ls.Points[1].Y != 0.4 {
		t.Errorf("second point = %+v, want {0.3 0.4}", ls.Points[1])
	}
}

func TestDetectNoFaceReturnsNil(t *testing.T) {
	srv := landmarkServer(t, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"face_detected":false,"landmarks":[]}`))
	})
	c := connectedClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ls, err := c.Detect(ctx, entity.Frame{Data: []byte{0x01}})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if ls != nil {
		t.Errorf("Detect returned %+v for an absent face, want nil", ls)
	}
}

// A slow call must run to its own deadline even when a second call with a
// shorter budget arrives mid-flight, and the latecomer must time out without
// corrupting the exchange in progress.
func TestDetectSerializesConcurrentCalls(t *testing.T) {
	srv := landmarkServer(t, nil)
	c := connectedClient(t, srv)

	frame := entity.Frame{Data: []byte{0x01}}

	var wg sync.WaitGroup
	var firstErr error
	var firstElapsed time.Duration

	wg.Add(1)
	go func() {
		defer wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, firstErr = c.Detect(ctx, frame)
		firstElapsed = time.Since(start)
	}()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := c.Detect(ctx, frame); !errors.Is(err, ErrTimeout) {
		t.Errorf("second Detect error = %v, want ErrTimeout", err)
	}

	wg.Wait()

	if !errors.Is(firstErr, ErrTimeout) {
		t.Errorf("first Detect error = %v, want ErrTimeout", firstErr)
	}
	if firstElapsed < 300*time.Millisecond {
		t.Errorf("first Detect returned after %v, its own deadline should govern the read", firstElapsed)
	}
}
