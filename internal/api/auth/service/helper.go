package authService

import (
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
)

func MakeUserData(user entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Name,
	}
}
