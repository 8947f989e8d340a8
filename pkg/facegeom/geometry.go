package facegeom

import (
	"math"
	"time"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

// Compute derives the per-frame facial metrics from a landmark set.
// Width and height are the decoded frame dimensions used to scale the
// normalized mesh coordinates back into pixel space, so the aspect
// ratios are not distorted by non-square frames.
func Compute(ls *LandmarkSet, width, height int) (entity.Metrics, error) {
	if !ls.Complete() {
		return entity.Metrics{}, ErrIncompleteLandmarks
	}

	w := float64(width)
	h := float64(height)
	at := func(i int) Point {
		p := ls.Points[i]
		return Point{X: p.X * w, Y: p.Y * h}
	}

	leftEAR := eyeAspectRatio(at, leftEyeIndices)
	rightEAR := eyeAspectRatio(at, rightEyeIndices)

	return entity.Metrics{
		EAR:           (leftEAR + rightEAR) / 2.0,
		MAR:           mouthAspectRatio(at),
		HeadDeviation: headDeviation(at),
		Timestamp:     time.Now(),
	}, nil
}

// eyeAspectRatio is (|p2-p6| + |p3-p5|) / (2 * |p1-p4|): vertical eyelid
// distances over the horizontal eye width. Closed eyes push it toward zero.
func eyeAspectRatio(at func(int) Point, idx [6]int) float64 {
	p1, p2, p3 := at(idx[0]), at(idx[1]), at(idx[2])
	p4, p5, p6 := at(idx[3]), at(idx[4]), at(idx[5])

	horizontal := dist(p1, p4)
	if horizontal == 0 {
		return 0
	}

	return (dist(p2, p6) + dist(p3, p5)) / (2.0 * horizontal)
}

// mouthAspectRatio averages three inner-lip vertical gaps over the mouth
// corner distance. A wide-open mouth (yawn) drives it past 1.
func mouthAspectRatio(at func(int) Point) float64 {
	horizontal := dist(at(mouthCornerLeft), at(mouthCornerRight))
	if horizontal == 0 {
		return 0
	}

	var vertical float64
	for _, pair := range mouthVerticalPairs {
		vertical += dist(at(pair[0]), at(pair[1]))
	}
	vertical /= float64(len(mouthVerticalPairs))

	return vertical / horizontal
}

// headDeviation estimates horizontal head turn in degrees from how far the
// nose tip sits from the midpoint between the outer eye corners, relative
// to the inter-eye distance.
func headDeviation(at func(int) Point) float64 {
	left := at(leftEyeCorner)
	right := at(rightEyeCorner)
	nose := at(noseTipIndex)

	eyeDist := dist(left, right)
	if eyeDist == 0 {
		return 0
	}

	mid := Point{X: (left.X + right.X) / 2.0, Y: (left.Y + right.Y) / 2.0}
	offset := math.Abs(nose.X - mid.X)

	return math.Atan(offset/eyeDist) * 180.0 / math.Pi
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
