package monitor

import (
	"os"
	"strconv"
	"time"
)

// PipelineConfig holds the classification thresholds and the landmark service
// deadline. One snapshot is taken at startup and shared read-only by all
// sessions.
type PipelineConfig struct {
	EARThreshold    float64
	MARThreshold    float64
	AngleThreshold  float64
	ConsecFrames    int
	ProviderTimeout time.Duration
}

func NewPipelineConfig() PipelineConfig {
	return PipelineConfig{
		EARThreshold:    getEnvFloat("MONITOR_EAR_THRESHOLD", 0.22),
		MARThreshold:    getEnvFloat("MONITOR_MAR_THRESHOLD", 0.6),
		AngleThreshold:  getEnvFloat("MONITOR_ANGLE_THRESHOLD", 20),
		ConsecFrames:    getEnvInt("MONITOR_CONSEC_FRAMES", 15),
		ProviderTimeout: time.Duration(getEnvInt("LANDMARK_TIMEOUT_MS", 1500)) * time.Millisecond,
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
