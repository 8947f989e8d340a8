package monitorService

import (
	"time"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

// classifier is the per-session state machine. Each condition keeps a
// counter of consecutive qualifying frames, capped at ConsecFrames; the
// same window debounces both entering and leaving a state. Exactly one
// goroutine (the session worker) calls Advance, so no locking here.
type classifier struct {
	cfg monitor.PipelineConfig

	noFace     int
	drowsy     int
	yawn       int
	distracted int

	state          entity.BehaviorState
	lastTransition time.Time
}

func newClassifier(cfg monitor.PipelineConfig) *classifier {
	return &classifier{
		cfg:            cfg,
		state:          entity.StateAttentive,
		lastTransition: time.Now(),
	}
}

// Advance feeds one observation into the machine and returns the stable
// state. A nil metrics value means no face was found in the frame.
func (c *classifier) Advance(m *entity.Metrics) entity.BehaviorState {
	if m == nil {
		c.noFace = c.capped(c.noFace + 1)
		c.fade(&c.drowsy, entity.StateDrowsy)
		c.fade(&c.yawn, entity.StateYawning)
		c.fade(&c.distracted, entity.StateDistracted)
	} else {
		c.fade(&c.noFace, entity.StateNoFace)
		c.bump(&c.drowsy, m.EAR < c.cfg.EARThreshold, entity.StateDrowsy)
		c.bump(&c.yawn, m.MAR > c.cfg.MARThreshold, entity.StateYawning)
		c.bump(&c.distracted, m.HeadDeviation > c.cfg.AngleThreshold, entity.StateDistracted)
	}

	c.resolve()

	return c.state
}

func (c *classifier) State() entity.BehaviorState {
	return c.state
}

func (c *classifier) LastTransition() time.Time {
	return c.lastTransition
}

// bump advances a condition counter on a qualifying frame. On a
// non-qualifying frame the counter decays while its state is held, and
// resets otherwise, so entry and exit both span ConsecFrames.
func (c *classifier) bump(counter *int, qualifies bool, owner entity.BehaviorState) {
	if qualifies {
		*counter = c.capped(*counter + 1)
		return
	}
	c.fade(counter, owner)
}

func (c *classifier) fade(counter *int, owner entity.BehaviorState) {
	if c.state == owner {
		if *counter > 0 {
			*counter--
		}
		return
	}
	*counter = 0
}

func (c *classifier) capped(v int) int {
	if v > c.cfg.ConsecFrames {
		return c.cfg.ConsecFrames
	}
	return v
}

// resolve picks the next stable state. Conditions whose counter filled the
// window are candidates, taken in priority order NoFace, Drowsy, Yawning,
// Distracted. A held state keeps priority over lower-ranked candidates
// until its counter drains back to zero.
func (c *classifier) resolve() {
	candidate := entity.StateAttentive
	switch {
	case c.noFace >= c.cfg.ConsecFrames:
		candidate = entity.StateNoFace
	case c.drowsy >= c.cfg.ConsecFrames:
		candidate = entity.StateDrowsy
	case c.yawn >= c.cfg.ConsecFrames:
		candidate = entity.StateYawning
	case c.distracted >= c.cfg.ConsecFrames:
		candidate = entity.StateDistracted
	}

	if candidate != entity.StateAttentive {
		if candidate == c.state || rank(candidate) < rank(c.state) || c.counterFor(c.state) == 0 {
			c.setState(candidate)
		}
		return
	}

	if c.state != entity.StateAttentive && c.counterFor(c.state) == 0 {
		c.setState(entity.StateAttentive)
	}
}

func (c *classifier) counterFor(state entity.BehaviorState) int {
	switch state {
	case entity.StateNoFace:
		return c.noFace
	case entity.StateDrowsy:
		return c.drowsy
	case entity.StateYawning:
		return c.yawn
	case entity.StateDistracted:
		return c.distracted
	default:
		return 0
	}
}

func rank(state entity.BehaviorState) int {
	switch state {
	case entity.StateNoFace:
		return 0
	case entity.StateDrowsy:
		return 1
	case entity.StateYawning:
		return 2
	case entity.StateDistracted:
		return 3
	default:
		return 4
	}
}

func (c *classifier) setState(next entity.BehaviorState) {
	if c.state == next {
		return
	}
	c.state = next
	c.lastTransition = time.Now()
}
