package auth

import (
	"net/http"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/response"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrorInvalidToken         = response.NewError(http.StatusUnauthorized, "invalid token")
	ErrInvalidFileType        = response.NewError(http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge           = response.NewError(http.StatusBadRequest, "file too large")
	ErrFailedToUploadFile     = response.NewError(http.StatusInternalServerError, "failed to upload file")
)
