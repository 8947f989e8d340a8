package monitorService

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/facegeom"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/landmark"
)

// runPipeline is the session worker. It consumes the frame slot serially,
// so frames within a session are always classified in capture order.
func (s *monitorService) runPipeline(ctx context.Context, sess *Session) {
	defer close(sess.results)

	cls := newClassifier(s.cfg)

	for {
		frame, ok := sess.slot.Receive()
		if !ok {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		m := s.observe(ctx, sess, frame)
		state := cls.Advance(m)
		sess.state.Store(state)

		update := entity.StatusUpdate{
			SessionID: sess.ID,
			Status:    state,
			Timestamp: frame.CapturedAt,
		}
		if m != nil {
			update.EARScore = m.EAR
			update.MARScore = m.MAR
		}

		s.metrics.FrameProcessed()

		// teardown may have raced the observation; never emit after stop
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case sess.results <- update:
		default:
			s.metrics.EmitDrop()
			s.log.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"sequence":   frame.Sequence,
			}).Warn("Result channel full, dropping status update")
		}
	}
}

// observe runs one frame through the landmark service and the metric
// computation. It returns nil when the face is absent, which covers
// detector timeouts and partial landmark sets as well.
func (s *monitorService) observe(ctx context.Context, sess *Session, frame entity.Frame) *entity.Metrics {
	detectCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	ls, err := s.provider.Detect(detectCtx, frame)
	if err != nil {
		if errors.Is(err, landmark.ErrTimeout) {
			s.metrics.ProviderTimeout()
			s.log.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"sequence":   frame.Sequence,
				"timeout":    s.cfg.ProviderTimeout.String(),
			}).Warn("Landmark service timed out, treating frame as face-absent")
		} else {
			s.log.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"sequence":   frame.Sequence,
				"error":      err.Error(),
			}).Error("Landmark detection failed, treating frame as face-absent")
		}
		return nil
	}

	if ls == nil {
		return nil
	}

	m, err := facegeom.Compute(ls, frame.Width, frame.Height)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"sequence":   frame.Sequence,
			"landmarks":  len(ls.Points),
		}).Debug("Incomplete landmark set, treating frame as face-absent")
		return nil
	}

	return &m
}
