package monitorHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	monitorService "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor/service"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/middleware"
)

type MonitorHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	monitorService monitorService.IMonitorService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms monitorService.IMonitorService,
) *MonitorHandler {
	return &MonitorHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		monitorService: ms,
	}
}

func (h *MonitorHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	monitor := srv.Group("/monitor")
	monitor.Use("/ws", h.middleware.NewTokenMiddleware, wsMiddleware)
	monitor.Get("/ws", websocket.New(h.handleMonitorWebSocket))
	monitor.Get("/sessions", h.middleware.NewTokenMiddleware, h.HandleActiveSessions)
}
