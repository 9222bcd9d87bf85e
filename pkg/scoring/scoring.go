package scoringPkg

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"VerifID/internal/entity"
	"github.com/gorilla/websocket"
)

// ScoringKind selects one of the external AI scoring services.
type ScoringKind int

const (
	VoiceScoring ScoringKind = iota
	FaceScoring
)

// IScoring is the boundary to the external biometric services. Voice samples
// come back as a human/match verdict; face images come back as a 128-dim
// descriptor (empty when no face was detected). The comparison itself is done
// by the caller.
type IScoring interface {
	ScoreVoiceSample(sample []byte) (*entity.VoiceScore, error)
	ExtractFaceDescriptor(image []byte) ([]float64, error)
	ReferenceDescriptor() ([]float64, error)
	IsConnected(kind ScoringKind) bool
	Reconnect(kind ScoringKind) error
	CloseConnections()
}

type faceDescriptorResponse struct {
	Descriptor []float64 `json:"descriptor"`
	FaceCount  int       `json:"face_count"`
}

type scoringClient struct {
	voiceConn    *websocket.Conn
	faceConn     *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	refMu         sync.Mutex
	refDescriptor []float64
}

func NewScoringClient() IScoring {
	client := &scoringClient{
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground(VoiceScoring)
	go client.connectInBackground(FaceScoring)

	return client
}

func (c *scoringClient) connectInBackground(kind ScoringKind) {
	err := c.Reconnect(kind)
	if err != nil {
		log.Printf("Initial connection to %s failed: %v. Will retry on demand.",
			getScoringKindName(kind), err)
	} else {
		log.Printf("Successfully connected to %s service", getScoringKindName(kind))
	}
}

func (c *scoringClient) IsConnected(kind ScoringKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case VoiceScoring:
		return c.voiceConn != nil
	case FaceScoring:
		return c.faceConn != nil
	default:
		return false
	}
}

func (c *scoringClient) Reconnect(kind ScoringKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == VoiceScoring && c.voiceConn != nil {
		c.voiceConn.Close()
		c.voiceConn = nil
	} else if kind == FaceScoring && c.faceConn != nil {
		c.faceConn.Close()
		c.faceConn = nil
	}

	url := getScoringURL(kind)
	if url == "" {
		return fmt.Errorf("URL for %s not configured", getScoringKindName(kind))
	}

	log.Printf("Connecting to %s at %s", getScoringKindName(kind), url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	if kind == VoiceScoring {
		c.voiceConn = conn
	} else {
		c.faceConn = conn
	}

	go c.keepAlive(kind)

	return nil
}

func (c *scoringClient) CloseConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.voiceConn != nil {
		c.voiceConn.Close()
		c.voiceConn = nil
	}

	if c.faceConn != nil {
		c.faceConn.Close()
		c.faceConn = nil
	}
}

func (c *scoringClient) keepAlive(kind ScoringKind) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		var conn *websocket.Conn

		if kind == VoiceScoring {
			conn = c.voiceConn
		} else {
			conn = c.faceConn
		}

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
			log.Printf("Ping failed for %s, marking connection as dead: %v",
				getScoringKindName(kind), err)
			if kind == VoiceScoring {
				c.voiceConn = nil
			} else {
				c.faceConn = nil
			}
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *scoringClient) getConnection(kind ScoringKind) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var conn *websocket.Conn

	if kind == VoiceScoring {
		conn = c.voiceConn
	} else {
		conn = c.faceConn
	}

	if conn == nil {
		return nil, fmt.Errorf("not connected to %s service", getScoringKindName(kind))
	}

	return conn, nil
}

func (c *scoringClient) roundTrip(kind ScoringKind, payload []byte) ([]byte, error) {
	conn, err := c.getConnection(kind)
	if err != nil {
		if err := c.Reconnect(kind); err != nil {
			return nil, fmt.Errorf("cannot connect to %s service: %w", getScoringKindName(kind), err)
		}
		conn, err = c.getConnection(kind)
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		c.dropConn(kind, conn)
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending %s payload: %w", getScoringKindName(kind), err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	c.mu.Unlock()

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.mu.Lock()
		c.dropConn(kind, conn)
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading %s response: %w", getScoringKindName(kind), err)
	}

	c.mu.Lock()
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	return message, nil
}

// dropConn must be called with c.mu held.
func (c *scoringClient) dropConn(kind ScoringKind, conn *websocket.Conn) {
	if kind == VoiceScoring {
		c.voiceConn = nil
	} else {
		c.faceConn = nil
	}
	conn.Close()
}

func (c *scoringClient) ScoreVoiceSample(sample []byte) (*entity.VoiceScore, error) {
	log.Printf("Sending voice sample of size: %d bytes", len(sample))

	message, err := c.roundTrip(VoiceScoring, sample)
	if err != nil {
		return nil, err
	}

	var score entity.VoiceScore
	if err := json.Unmarshal(message, &score); err != nil {
		return nil, fmt.Errorf("error unmarshaling voice response: %w", err)
	}

	log.Printf("Voice Scoring Result: IsHuman=%t, IsMatch=%t", score.IsHuman, score.IsMatch)

	return &score, nil
}

func (c *scoringClient) ExtractFaceDescriptor(image []byte) ([]float64, error) {
	log.Printf("Sending face image of size: %d bytes", len(image))

	message, err := c.roundTrip(FaceScoring, image)
	if err != nil {
		return nil, err
	}

	var result faceDescriptorResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling face response: %w", err)
	}

	log.Printf("Face descriptor received: faces=%d, dims=%d", result.FaceCount, len(result.Descriptor))

	return result.Descriptor, nil
}

// ReferenceDescriptor returns the enrolled reference descriptor, extracting
// it from the configured reference image on first use.
func (c *scoringClient) ReferenceDescriptor() ([]float64, error) {
	c.refMu.Lock()
	defer c.refMu.Unlock()

	if c.refDescriptor != nil {
		return c.refDescriptor, nil
	}

	refPath := os.Getenv("FACE_REFERENCE_IMAGE")
	if refPath == "" {
		return nil, fmt.Errorf("FACE_REFERENCE_IMAGE not configured")
	}

	image, err := os.ReadFile(refPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}

	descriptor, err := c.ExtractFaceDescriptor(image)
	if err != nil {
		return nil, err
	}

	c.refDescriptor = descriptor
	return descriptor, nil
}

func getScoringURL(kind ScoringKind) string {
	switch kind {
	case VoiceScoring:
		url := os.Getenv("AI_VOICE_SCORING_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/voice/ws"
		}
		return url
	case FaceScoring:
		url := os.Getenv("AI_FACE_SCORING_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/face/ws"
		}
		return url
	default:
		return ""
	}
}

func getScoringKindName(kind ScoringKind) string {
	switch kind {
	case VoiceScoring:
		return "Voice Scoring"
	case FaceScoring:
		return "Face Scoring"
	default:
		return "Unknown Scoring"
	}
}
