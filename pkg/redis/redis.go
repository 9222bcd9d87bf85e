package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"VerifID/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// IRedis stores active wizard sessions. A session expires after SessionTTL of
// inactivity; completed sessions are deleted explicitly.
type IRedis interface {
	SetSession(ctx context.Context, session entity.VerificationSession) error
	GetSession(ctx context.Context, id string) (entity.VerificationSession, error)
	DeleteSession(ctx context.Context, id string) error
}

const SessionTTL = 30 * time.Minute

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// NewWithClient wires an existing client, used by tests.
func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func sessionKey(id string) string {
	return "verification:session:" + id
}

func (r *redisClient) SetSession(ctx context.Context, session entity.VerificationSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, SessionTTL).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error storing session %s: %v", session.ID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetSession(ctx context.Context, id string) (entity.VerificationSession, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.VerificationSession{}, ErrSessionNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error loading session %s: %v", id, err))
		return entity.VerificationSession{}, err
	}

	var session entity.VerificationSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return entity.VerificationSession{}, err
	}
	return session, nil
}

func (r *redisClient) DeleteSession(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting session %s: %v", id, err))
		return err
	}
	return nil
}
