package monitorService

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/facegeom"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/landmark"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/metrics"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/utils"
)

// fakeProvider records which frames reach detection. Detect blocks while
// gate is held, which simulates a slow landmark service.
type fakeProvider struct {
	mu   sync.Mutex
	gate sync.Mutex
	seen []int64
	err  error
}

func (f *fakeProvider) Detect(ctx context.Context, frame entity.Frame) (*facegeom.LandmarkSet, error) {
	f.gate.Lock()
	f.gate.Unlock()

	f.mu.Lock()
	f.seen = append(f.seen, frame.Sequence)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeProvider) IsConnected() bool { return true }
func (f *fakeProvider) Reconnect() error  { return nil }
func (f *fakeProvider) Close()            {}

func (f *fakeProvider) sequences() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.seen...)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testService(provider landmark.ILandmark, cfg monitor.PipelineConfig) IMonitorService {
	return NewMonitorService(testLogger(), provider, cfg, metrics.New(), utils.New())
}

func testFramePayload(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("failed to encode test frame: %v", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func waitForUpdates(t *testing.T, sess *Session, n int) []entity.StatusUpdate {
	t.Helper()

	var updates []entity.StatusUpdate
	timeout := time.After(2 * time.Second)
	for len(updates) < n {
		select {
		case update, ok := <-sess.Results():
			if !ok {
				t.Fatalf("results channel closed after %d of %d updates", len(updates), n)
			}
			updates = append(updates, update)
		case <-timeout:
			t.Fatalf("timed out after %d of %d updates", len(updates), n)
		}
	}
	return updates
}

func TestPipelineBackpressureKeepsNewest(t *testing.T) {
	provider := &fakeProvider{}
	svc := testService(provider, testPipelineConfig())

	sess, err := svc.StartSession("user-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer svc.StopSession(sess.ID)

	payload := testFramePayload(t)

	// first frame enters the worker; hold the provider so the next
	// frames pile into the slot
	provider.gate.Lock()
	if err := sess.Ingest(payload); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// give the worker time to pick frame 1 out of the slot
	time.Sleep(50 * time.Millisecond)

	if err := sess.Ingest(payload); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if err := sess.Ingest(payload); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	provider.gate.Unlock()

	updates := waitForUpdates(t, sess, 2)
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}

	seen := provider.sequences()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 3 {
		t.Errorf("provider saw sequences %v, want [1 3]: frame 2 must be superseded", seen)
	}
}

func TestPipelineTimeoutYieldsNoFace(t *testing.T) {
	provider := &fakeProvider{err: landmark.ErrTimeout}
	cfg := testPipelineConfig()
	cfg.ConsecFrames = 1
	cfg.ProviderTimeout = 50 * time.Millisecond
	svc := testService(provider, cfg)

	sess, err := svc.StartSession("user-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer svc.StopSession(sess.ID)

	if err := sess.Ingest(testFramePayload(t)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	updates := waitForUpdates(t, sess, 1)
	if updates[0].Status != entity.StateNoFace {
		t.Errorf("status = %s after provider timeout, want NoFace", updates[0].Status)
	}
}

func TestPipelineSessionIsolation(t *testing.T) {
	provider := &fakeProvider{}
	svc := testService(provider, testPipelineConfig())

	sessA, err := svc.StartSession("user-a")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer svc.StopSession(sessA.ID)

	sessB, err := svc.StartSession("user-b")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer svc.StopSession(sessB.ID)

	// a decode failure in A must not disturb B
	if err := sessA.Ingest("not-base64!!!"); !errors.Is(err, monitor.ErrDecodeFrame) {
		t.Errorf("Ingest of garbage = %v, want ErrDecodeFrame", err)
	}

	if err := sessB.Ingest(testFramePayload(t)); err != nil {
		t.Fatalf("Ingest into B: %v", err)
	}

	updates := waitForUpdates(t, sessB, 1)
	if updates[0].SessionID != sessB.ID {
		t.Errorf("update carries session %s, want %s", updates[0].SessionID, sessB.ID)
	}

	select {
	case update := <-sessA.Results():
		t.Errorf("session A emitted %v for a dropped frame", update)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPipelineDataURLPrefixStripped(t *testing.T) {
	provider := &fakeProvider{}
	svc := testService(provider, testPipelineConfig())

	sess, err := svc.StartSession("user-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer svc.StopSession(sess.ID)

	payload := "data:image/png;base64," + testFramePayload(t)
	if err := sess.Ingest(payload); err != nil {
		t.Fatalf("Ingest with data URL prefix: %v", err)
	}

	waitForUpdates(t, sess, 1)
}

func TestStopSessionClosesResults(t *testing.T) {
	provider := &fakeProvider{}
	svc := testService(provider, testPipelineConfig())

	sess, err := svc.StartSession("user-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if got := len(svc.ActiveSessions()); got != 1 {
		t.Errorf("ActiveSessions = %d, want 1", got)
	}

	svc.StopSession(sess.ID)

	select {
	case _, ok := <-sess.Results():
		if ok {
			t.Error("received an update after StopSession")
		}
	case <-time.After(time.Second):
		t.Fatal("results channel not closed after StopSession")
	}

	if got := len(svc.ActiveSessions()); got != 0 {
		t.Errorf("ActiveSessions = %d after stop, want 0", got)
	}

	// idempotent
	svc.StopSession(sess.ID)
}
