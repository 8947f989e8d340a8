package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/config"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/landmark"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/log"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/metrics"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/redis"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()
	landmarkClient := landmark.NewClient()
	pipelineMetrics := metrics.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithLandmarkClient(landmarkClient),
		config.WithMetrics(pipelineMetrics),
		config.WithPipelineConfig(),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
