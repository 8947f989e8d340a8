package monitor

import (
	"net/http"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/response"
)

var (
	ErrDecodeFrame     = response.NewError(http.StatusBadRequest, "frame could not be decoded")
	ErrSessionNotFound = response.NewError(http.StatusNotFound, "session not found")
)
