package monitorService

import (
	"testing"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

func testPipelineConfig() monitor.PipelineConfig {
	return monitor.PipelineConfig{
		EARThreshold:   0.22,
		MARThreshold:   0.6,
		AngleThreshold: 20,
		ConsecFrames:   3,
	}
}

func attentiveMetrics() *entity.Metrics {
	return &entity.Metrics{EAR: 0.30, MAR: 0.30, HeadDeviation: 5}
}

func drowsyMetrics() *entity.Metrics {
	return &entity.Metrics{EAR: 0.10, MAR: 0.30, HeadDeviation: 5}
}

func yawningMetrics() *entity.Metrics {
	return &entity.Metrics{EAR: 0.30, MAR: 0.90, HeadDeviation: 5}
}

func distractedMetrics() *entity.Metrics {
	return &entity.Metrics{EAR: 0.30, MAR: 0.30, HeadDeviation: 35}
}

func feed(c *classifier, m *entity.Metrics, n int) entity.BehaviorState {
	state := c.State()
	for i := 0; i < n; i++ {
		state = c.Advance(m)
	}
	return state
}

func TestClassifierEntryDebounce(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	if state := feed(c, drowsyMetrics(), 2); state != entity.StateAttentive {
		t.Errorf("state = %s after 2 qualifying frames, want Attentive", state)
	}
	if state := c.Advance(drowsyMetrics()); state != entity.StateDrowsy {
		t.Errorf("state = %s after 3 qualifying frames, want Drowsy", state)
	}
}

func TestClassifierFlickerNeverTriggers(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	for i := 0; i < 20; i++ {
		c.Advance(drowsyMetrics())
		if state := c.Advance(attentiveMetrics()); state != entity.StateAttentive {
			t.Fatalf("state = %s during alternating frames, want Attentive", state)
		}
	}
}

func TestClassifierExitHysteresis(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, drowsyMetrics(), 3)

	if state := feed(c, attentiveMetrics(), 2); state != entity.StateDrowsy {
		t.Errorf("state = %s after 2 recovery frames, want Drowsy still held", state)
	}
	if state := c.Advance(attentiveMetrics()); state != entity.StateAttentive {
		t.Errorf("state = %s after 3 recovery frames, want Attentive", state)
	}
}

func TestClassifierExitCounterRefills(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, drowsyMetrics(), 3)

	// partial recovery followed by a qualifying frame keeps the state held
	// and pushes the counter back up
	feed(c, attentiveMetrics(), 2)
	if state := c.Advance(drowsyMetrics()); state != entity.StateDrowsy {
		t.Errorf("state = %s, want Drowsy after recovery was interrupted", state)
	}
	if state := c.Advance(attentiveMetrics()); state != entity.StateDrowsy {
		t.Errorf("state = %s, want Drowsy while the refilled counter drains", state)
	}
	if state := c.Advance(attentiveMetrics()); state != entity.StateAttentive {
		t.Errorf("state = %s, want Attentive once the counter drained", state)
	}
}

func TestClassifierPriorityDrowsyOverYawning(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	both := &entity.Metrics{EAR: 0.10, MAR: 0.90, HeadDeviation: 5}
	if state := feed(c, both, 3); state != entity.StateDrowsy {
		t.Errorf("state = %s with drowsy and yawning both satisfied, want Drowsy", state)
	}
}

func TestClassifierPriorityYawningOverDistracted(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	both := &entity.Metrics{EAR: 0.30, MAR: 0.90, HeadDeviation: 35}
	if state := feed(c, both, 3); state != entity.StateYawning {
		t.Errorf("state = %s with yawning and distracted both satisfied, want Yawning", state)
	}
}

func TestClassifierDistracted(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	if state := feed(c, distractedMetrics(), 3); state != entity.StateDistracted {
		t.Errorf("state = %s, want Distracted", state)
	}
}

func TestClassifierYawning(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	if state := feed(c, yawningMetrics(), 3); state != entity.StateYawning {
		t.Errorf("state = %s, want Yawning", state)
	}
}

func TestClassifierNoFaceDebounce(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	if state := feed(c, nil, 2); state != entity.StateAttentive {
		t.Errorf("state = %s after 2 absent frames, want Attentive", state)
	}
	if state := c.Advance(nil); state != entity.StateNoFace {
		t.Errorf("state = %s after 3 absent frames, want NoFace", state)
	}
}

func TestClassifierAbsenceResetsOtherCounters(t *testing.T) {
	c := newClassifier(testPipelineConfig())

	feed(c, drowsyMetrics(), 2)
	c.Advance(nil)

	// the interrupted run must start over
	if state := feed(c, drowsyMetrics(), 2); state != entity.StateAttentive {
		t.Errorf("state = %s, want Attentive until a full fresh window qualifies", state)
	}
	if state := c.Advance(drowsyMetrics()); state != entity.StateDrowsy {
		t.Errorf("state = %s, want Drowsy after a full fresh window", state)
	}
}

func TestClassifierShortDropoutKeepsHeldState(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, drowsyMetrics(), 3)

	if state := c.Advance(nil); state != entity.StateDrowsy {
		t.Errorf("state = %s after one absent frame, want Drowsy still held", state)
	}
	if state := c.Advance(drowsyMetrics()); state != entity.StateDrowsy {
		t.Errorf("state = %s, want Drowsy", state)
	}
}

func TestClassifierNoFaceOutranksHeldState(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, drowsyMetrics(), 3)

	if state := feed(c, nil, 3); state != entity.StateNoFace {
		t.Errorf("state = %s after sustained absence, want NoFace", state)
	}
}

func TestClassifierNoFaceRecovery(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, nil, 3)

	// NoFace drains over the same window it took to enter
	if state := feed(c, attentiveMetrics(), 2); state != entity.StateNoFace {
		t.Errorf("state = %s after 2 present frames, want NoFace still held", state)
	}
	if state := c.Advance(attentiveMetrics()); state != entity.StateAttentive {
		t.Errorf("state = %s after 3 present frames, want Attentive", state)
	}
}

func TestClassifierNoFaceBlipDoesNotClear(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, nil, 3)

	// one present frame followed by renewed absence refills the counter
	c.Advance(attentiveMetrics())
	if state := c.Advance(nil); state != entity.StateNoFace {
		t.Errorf("state = %s after a single present frame, want NoFace", state)
	}
	if state := feed(c, attentiveMetrics(), 3); state != entity.StateAttentive {
		t.Errorf("state = %s after a full present window, want Attentive", state)
	}
}

func TestClassifierHeldStateBlocksLowerPriority(t *testing.T) {
	c := newClassifier(testPipelineConfig())
	feed(c, drowsyMetrics(), 3)

	// eyes open but yawning: drowsy drains while yawn fills
	if state := feed(c, yawningMetrics(), 2); state != entity.StateDrowsy {
		t.Errorf("state = %s, want Drowsy while its exit window drains", state)
	}
	if state := c.Advance(yawningMetrics()); state != entity.StateYawning {
		t.Errorf("state = %s, want Yawning once Drowsy drained and Yawning qualified", state)
	}
}
