package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/database/postgres"
	authHandler "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth/handler"
	authRepository "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth/repository"
	authService "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/auth/service"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	monitorHandler "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor/handler"
	monitorService "github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor/service"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/middleware"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/bcrypt"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/landmark"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/metrics"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/redis"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/s3"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	redisServer    redis.IRedis
	landmarkClient landmark.ILandmark
	metrics        *metrics.Metrics
	pipelineCfg    monitor.PipelineConfig
	s3Client       s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithLandmarkClient(client landmark.ILandmark) ServerOption {
	return func(s *Server) error {
		s.landmarkClient = client
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

func WithPipelineConfig() ServerOption {
	return func(s *Server) error {
		s.pipelineCfg = monitor.NewPipelineConfig()
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.redisServer == nil {
			return fmt.Errorf("redis server must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.redisServer)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.redisServer, s.s3Client, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware, s.s3Client)

	// Monitor Domain
	monitorServices := monitorService.NewMonitorService(s.log, s.landmarkClient, s.pipelineCfg, s.metrics, s.utils)
	monitorHandlers := monitorHandler.New(s.log, s.validator, s.middleware, monitorServices)

	s.setupHealthCheck()
	s.setupMetrics()
	s.handlers = append(s.handlers, authHandlers, monitorHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.landmarkClient != nil {
			s.landmarkClient.Close()
		}
		return err
	}

	return nil
}

func (s *Server) Shutdown() error {
	if s.landmarkClient != nil {
		s.landmarkClient.Close()
	}
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func (s *Server) setupMetrics() {
	if s.metrics == nil {
		return
	}
	s.engine.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
}
