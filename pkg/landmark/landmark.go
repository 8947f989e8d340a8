package landmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/samirkumar13/Webcam-Behavior-Analytics/internal/entity"
	"github.com/samirkumar13/Webcam-Behavior-Analytics/pkg/facegeom"
)

// ErrTimeout reports that the landmark service did not answer within the
// caller's deadline. The pipeline treats it as a face-absent observation.
var ErrTimeout = errors.New("landmark detection timed out")

// ILandmark is the client contract for the external landmark detection
// service. Detect returns nil without error when no face is present.
type ILandmark interface {
	Detect(ctx context.Context, frame entity.Frame) (*facegeom.LandmarkSet, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type detectionResponse struct {
	FaceDetected bool         `json:"face_detected"`
	Landmarks    [][2]float64 `json:"landmarks"`
}

type landmarkClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewClient() ILandmark {
	client := &landmarkClient{
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			logrus.Warnf("Initial connection to landmark service failed: %v. Will retry on demand.", err)
		} else {
			logrus.Info("Successfully connected to landmark service")
		}
	}()

	return client
}

func (c *landmarkClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *landmarkClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := serviceURL()

	logrus.Infof("Connecting to landmark service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			logrus.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *landmarkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *landmarkClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn
		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)
		if err != nil {
			logrus.Warnf("Ping to landmark service failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// Detect sends one frame and waits for the mesh. Write and read deadlines
// are bounded by the caller's context, falling back to the client defaults.
// The mutex is held for the whole request-response exchange: only one call
// owns the connection at a time, so callers can neither interleave frames
// nor disturb the deadlines governing another call's read.
func (c *landmarkClient) Detect(ctx context.Context, frame entity.Frame) (*facegeom.LandmarkSet, error) {
	if !c.IsConnected() {
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to landmark service: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A caller whose deadline expired while waiting its turn must not touch
	// the connection at all.
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	conn := c.conn
	if conn == nil {
		return nil, errors.New("not connected to landmark service")
	}

	writeDeadline := time.Now().Add(c.writeTimeout)
	readDeadline := time.Now().Add(c.readTimeout)
	if deadline, ok := ctx.Deadline(); ok {
		if deadline.Before(writeDeadline) {
			writeDeadline = deadline
		}
		if deadline.Before(readDeadline) {
			readDeadline = deadline
		}
	}

	conn.SetWriteDeadline(writeDeadline)

	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Data); err != nil {
		c.conn = nil
		conn.Close()
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(readDeadline)

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("error reading landmark response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var result detectionResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling landmark response: %w", err)
	}

	if !result.FaceDetected {
		return nil, nil
	}

	ls := &facegeom.LandmarkSet{Points: make([]facegeom.Point, len(result.Landmarks))}
	for i, p := range result.Landmarks {
		ls.Points[i] = facegeom.Point{X: p[0], Y: p[1]}
	}

	return ls, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func serviceURL() string {
	url := os.Getenv("LANDMARK_SERVICE_URL")
	if url == "" {
		url = "ws://localhost:8000/api/v1/landmarks/ws"
	}
	return url
}
