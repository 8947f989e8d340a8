package monitor

import (
	"time"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

// FrameEvent is the inbound websocket payload: one base64-encoded capture,
// optionally prefixed with a browser data URL header.
type FrameEvent struct {
	Frame string `json:"frame" validate:"required"`
}

// StatusUpdateEvent is the outbound websocket payload, sent once per
// processed frame.
type StatusUpdateEvent struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	EARScore  float64   `json:"ear_score"`
	MARScore  float64   `json:"mar_score"`
	Timestamp time.Time `json:"timestamp"`
}

type ActiveSessionsResponse struct {
	Count    int                     `json:"count"`
	Sessions []entity.MonitorSession `json:"sessions"`
}

func NewStatusUpdateEvent(update entity.StatusUpdate) StatusUpdateEvent {
	return StatusUpdateEvent{
		SessionID: update.SessionID,
		Status:    string(update.Status),
		EARScore:  update.EARScore,
		MARScore:  update.MARScore,
		Timestamp: update.Timestamp,
	}
}
