package facegeom

import (
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/response"
	"net/http"
)

// MediaPipe face-mesh topology. Indices below follow the 468-point mesh
// the landmark service reports.
const MeshPointCount = 468

var (
	// p1..p6 per eye, ordered corner, upper pair, corner, lower pair.
	leftEyeIndices  = [6]int{362, 385, 387, 263, 373, 380}
	rightEyeIndices = [6]int{33, 160, 158, 133, 153, 144}

	mouthCornerLeft  = 61
	mouthCornerRight = 291

	// inner-lip vertical pairs, averaged for the mouth opening estimate
	mouthVerticalPairs = [3][2]int{{13, 14}, {82, 87}, {312, 317}}

	noseTipIndex   = 1
	leftEyeCorner  = 33
	rightEyeCorner = 263
)

var ErrIncompleteLandmarks = response.NewError(http.StatusUnprocessableEntity, "landmark set incomplete")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSet holds the normalized mesh points for one detected face.
// Coordinates are in [0,1] relative to the frame dimensions.
type LandmarkSet struct {
	Points []Point
}

func (ls *LandmarkSet) Complete() bool {
	return ls != nil && len(ls.Points) >= MeshPointCount
}
