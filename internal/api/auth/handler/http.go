package authHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	authService "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth/service"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/middleware"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/s3"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
	s3Client    s3.ItfS3
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware,
	s3Client s3.ItfS3) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
		s3Client:    s3Client,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")
	auth.Post("/login", h.HandleLogin)
	auth.Post("/logout", h.middleware.NewTokenMiddleware, h.HandleLogout)

	users := srv.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Get("/me", h.middleware.NewTokenMiddleware, h.HandleGetMe)
	users.Post("/profile-photo", h.middleware.NewTokenMiddleware, h.HandleUpdateProfilePhoto)
}
