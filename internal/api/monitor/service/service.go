package monitorService

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/api/monitor"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/landmark"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/metrics"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/utils"
)

type IMonitorService interface {
	StartSession(userID string) (*Session, error)
	StopSession(id string)
	ActiveSessions() []entity.MonitorSession
}

type monitorService struct {
	log      *logrus.Logger
	provider landmark.ILandmark
	cfg      monitor.PipelineConfig
	metrics  *metrics.Metrics
	utils    utils.IUtils

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMonitorService(
	log *logrus.Logger,
	provider landmark.ILandmark,
	cfg monitor.PipelineConfig,
	m *metrics.Metrics,
	utils utils.IUtils,
) IMonitorService {
	return &monitorService{
		log:      log,
		provider: provider,
		cfg:      cfg,
		metrics:  m,
		utils:    utils,
		sessions: make(map[string]*Session),
	}
}

func (s *monitorService) ActiveSessions() []entity.MonitorSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]entity.MonitorSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess.Describe())
	}

	return sessions
}
