package entity

import "time"

// MonitorSession is the externally visible description of one live
// monitoring connection. The runtime machinery (frame slot, classifier,
// result channel) lives inside the monitor service.
type MonitorSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id,omitempty"`
	State     BehaviorState `json:"state"`
	StartedAt time.Time     `json:"started_at"`
}
