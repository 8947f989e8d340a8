package entity

import "time"

// BehaviorState is the stable classification reported for a monitoring session.
// Exactly one state is active per session at any time.
type BehaviorState string

const (
	StateAttentive  BehaviorState = "Attentive"
	StateDrowsy     BehaviorState = "Drowsy"
	StateYawning    BehaviorState = "Yawning"
	StateDistracted BehaviorState = "Distracted"
	StateNoFace     BehaviorState = "NoFace"
)

// Frame is one decoded webcam capture. It is created on ingestion and
// discarded after a single pass through the pipeline.
type Frame struct {
	Data       []byte
	Width      int
	Height     int
	SessionID  string
	Sequence   int64
	CapturedAt time.Time
}

// Metrics are the per-frame facial measurements the classifier consumes.
// HeadDeviation is an unsigned angular estimate in degrees.
type Metrics struct {
	EAR           float64
	MAR           float64
	HeadDeviation float64
	Timestamp     time.Time
}

// StatusUpdate is the event emitted toward the transport once per
// processed frame.
type StatusUpdate struct {
	SessionID string
	Status    BehaviorState
	EARScore  float64
	MARScore  float64
	Timestamp time.Time
}
