package facegeom

import (
	"math"
	"testing"
)

const frameSize = 400

func newMesh() *LandmarkSet {
	ls := &LandmarkSet{Points: make([]Point, MeshPointCount)}
	return ls
}

// set places a pixel coordinate into the mesh as a normalized point.
func set(ls *LandmarkSet, idx int, x, y float64) {
	ls.Points[idx] = Point{X: x / frameSize, Y: y / frameSize}
}

func setEye(ls *LandmarkSet, idx [6]int, width, opening float64) {
	// corners on a horizontal line, upper/lower pairs split evenly around it
	set(ls, idx[0], 100, 200)
	set(ls, idx[3], 100+width, 200)
	set(ls, idx[1], 110, 200-opening/2)
	set(ls, idx[5], 110, 200+opening/2)
	set(ls, idx[2], 120, 200-opening/2)
	set(ls, idx[4], 120, 200+opening/2)
}

func TestComputeEAR(t *testing.T) {
	ls := newMesh()
	setEye(ls, leftEyeIndices, 40, 10)
	setEye(ls, rightEyeIndices, 40, 10)

	m, err := Compute(ls, frameSize, frameSize)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	// (10 + 10) / (2 * 40) = 0.25
	if math.Abs(m.EAR-0.25) > 1e-9 {
		t.Errorf("EAR = %f, want 0.25", m.EAR)
	}
}

func TestComputeEARClosedEyes(t *testing.T) {
	ls := newMesh()
	setEye(ls, leftEyeIndices, 40, 2)
	setEye(ls, rightEyeIndices, 40, 2)

	m, err := Compute(ls, frameSize, frameSize)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if m.EAR >= 0.22 {
		t.Errorf("EAR = %f for nearly closed eyes, want below drowsiness threshold", m.EAR)
	}
}

func TestComputeMAR(t *testing.T) {
	ls := newMesh()
	set(ls, mouthCornerLeft, 150, 300)
	set(ls, mouthCornerRight, 250, 300)
	for _, pair := range mouthVerticalPairs {
		set(ls, pair[0], 200, 270)
		set(ls, pair[1], 200, 350)
	}

	m, err := Compute(ls, frameSize, frameSize)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	// vertical 80 over horizontal 100
	if math.Abs(m.MAR-0.8) > 1e-9 {
		t.Errorf("MAR = %f, want 0.8", m.MAR)
	}
}

func TestComputeHeadDeviation(t *testing.T) {
	ls := newMesh()
	set(ls, leftEyeCorner, 150, 200)
	set(ls, rightEyeCorner, 250, 200)
	// nose offset 50 against eye distance 100 -> atan(0.5)
	set(ls, noseTipIndex, 250, 250)

	m, err := Compute(ls, frameSize, frameSize)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	want := math.Atan(0.5) * 180.0 / math.Pi
	if math.Abs(m.HeadDeviation-want) > 1e-9 {
		t.Errorf("HeadDeviation = %f, want %f", m.HeadDeviation, want)
	}
}

func TestComputeCenteredHead(t *testing.T) {
	ls := newMesh()
	set(ls, leftEyeCorner, 150, 200)
	set(ls, rightEyeCorner, 250, 200)
	set(ls, noseTipIndex, 200, 250)

	m, err := Compute(ls, frameSize, frameSize)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if m.HeadDeviation != 0 {
		t.Errorf("HeadDeviation = %f for centered nose, want 0", m.HeadDeviation)
	}
}

func TestComputeIncompleteLandmarks(t *testing.T) {
	ls := &LandmarkSet{Points: make([]Point, 100)}

	if _, err := Compute(ls, frameSize, frameSize); err == nil {
		t.Fatal("Compute accepted an incomplete landmark set")
	}

	if _, err := Compute(nil, frameSize, frameSize); err == nil {
		t.Fatal("Compute accepted a nil landmark set")
	}
}
