package monitorHandler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	contextPkg "github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/context"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/handlerUtil"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/log"
)

func (h *MonitorHandler) handleMonitorWebSocket(c *websocket.Conn) {
	user, _ := c.Locals("user").(entity.UserLoginData)

	sess, err := h.monitorService.StartSession(user.ID)
	if err != nil {
		h.log.WithFields(log.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Failed to start monitoring session")
		_ = c.WriteJSON(map[string]string{"error": "failed to start session"})
		return
	}
	defer h.monitorService.StopSession(sess.ID)

	h.log.WithFields(log.Fields{
		"session_id": sess.ID,
		"user_id":    user.ID,
	}).Info("Monitor WebSocket client connected")
	defer h.log.WithFields(log.Fields{
		"session_id": sess.ID,
	}).Info("Monitor WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	// writer: drains the pipeline results until the worker closes the channel
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for update := range sess.Results() {
			if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				return
			}
			if err := c.WriteJSON(monitor.NewStatusUpdateEvent(update)); err != nil {
				h.log.WithFields(log.Fields{
					"session_id": sess.ID,
					"error":      err.Error(),
				}).Warn("Failed to write status update, stopping writer")
				return
			}
		}
	}()

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		var event monitor.FrameEvent
		if err := c.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.WithFields(log.Fields{
					"session_id": sess.ID,
					"error":      err.Error(),
				}).Error("Monitor WebSocket error")
			}
			break
		}

		if err := h.validator.Struct(event); err != nil {
			h.log.WithFields(log.Fields{
				"session_id": sess.ID,
				"error":      err.Error(),
			}).Debug("Dropping invalid frame event")
			continue
		}

		if err := sess.Ingest(event.Frame); err != nil {
			if errors.Is(err, monitor.ErrDecodeFrame) {
				h.log.WithFields(log.Fields{
					"session_id": sess.ID,
				}).Debug("Dropping frame that failed to decode")
				continue
			}
			h.log.WithFields(log.Fields{
				"session_id": sess.ID,
				"error":      err.Error(),
			}).Error("Failed to ingest frame")
			continue
		}
	}

	h.monitorService.StopSession(sess.ID)
	<-writerDone
}

func (h *MonitorHandler) HandleActiveSessions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing active sessions request")

	sessions := h.monitorService.ActiveSessions()

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, monitor.ActiveSessionsResponse{
			Count:    len(sessions),
			Sessions: sessions,
		})
	}
}
