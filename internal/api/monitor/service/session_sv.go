package monitorService

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/frameslot"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/metrics"
)

// resultBuffer bounds the outbound channel. A slow transport loses
// updates rather than stalling the worker.
const resultBuffer = 16

// Session is one live monitoring connection: its frame slot, its worker,
// and its outbound result channel. Sessions share nothing mutable.
type Session struct {
	ID        string
	UserID    string
	StartedAt time.Time

	slot    *frameslot.Slot
	results chan entity.StatusUpdate
	cancel  context.CancelFunc
	seq     atomic.Int64
	state   atomic.Value

	log     *logrus.Logger
	metrics *metrics.Metrics
}

func (s *monitorService) StartSession(userID string) (*Session, error) {
	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to generate session ID")
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	sess := &Session{
		ID:        id,
		UserID:    userID,
		StartedAt: time.Now(),
		slot:      frameslot.New(),
		results:   make(chan entity.StatusUpdate, resultBuffer),
		cancel:    cancel,
		log:       s.log,
		metrics:   s.metrics,
	}
	sess.state.Store(entity.StateAttentive)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.metrics.SessionStarted()

	go s.runPipeline(ctx, sess)

	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"user_id":    userID,
	}).Info("Monitoring session started")

	return sess, nil
}

func (s *monitorService) StopSession(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	sess.cancel()
	sess.slot.Close()
	s.metrics.SessionStopped()

	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"user_id":    sess.UserID,
	}).Info("Monitoring session stopped")
}

// Ingest decodes one inbound frame payload and hands it to the worker.
// A frame still waiting in the slot is replaced by the newer one.
func (sess *Session) Ingest(payload string) error {
	sess.metrics.FrameReceived()

	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		sess.metrics.DecodeError()
		return monitor.ErrDecodeFrame
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		sess.metrics.DecodeError()
		return monitor.ErrDecodeFrame
	}

	frame := entity.Frame{
		Data:       data,
		Width:      cfg.Width,
		Height:     cfg.Height,
		SessionID:  sess.ID,
		Sequence:   sess.seq.Add(1),
		CapturedAt: time.Now(),
	}

	if superseded := sess.slot.Put(frame); superseded {
		sess.metrics.FrameSuperseded()
		sess.log.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"sequence":   frame.Sequence,
		}).Debug("Pending frame superseded by newer capture")
	}

	return nil
}

// Results is drained by the transport writer. The channel closes when the
// session worker exits.
func (sess *Session) Results() <-chan entity.StatusUpdate {
	return sess.results
}

func (sess *Session) Describe() entity.MonitorSession {
	state, _ := sess.state.Load().(entity.BehaviorState)

	return entity.MonitorSession{
		ID:        sess.ID,
		UserID:    sess.UserID,
		State:     state,
		StartedAt: sess.StartedAt,
	}
}
