package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/skill-profiler/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionRepository keeps sessions in process memory until deleted.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string][]byte)}
}

// Create implements SessionRepository.
func (m *memorySessionRepository) Create(ctx context.Context) (*models.Session, error) {
	session := models.NewSession()
	if err := m.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get implements SessionRepository. Callers receive a copy; changes are only
// visible to others after Save.
func (m *memorySessionRepository) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(data)
}

// Save implements SessionRepository.
func (m *memorySessionRepository) Save(_ context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.ID] = data
	m.mu.Unlock()
	return nil
}

// Delete implements SessionRepository.
func (m *memorySessionRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

type redisSessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionRepository stores sessions as JSON values that expire after
// ttl without a save.
func NewRedisSessionRepository(client *redis.Client, prefix string, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, prefix: prefix, ttl: ttl}
}

// Create implements SessionRepository.
func (r *redisSessionRepository) Create(ctx context.Context) (*models.Session, error) {
	session := models.NewSession()
	if err := r.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get implements SessionRepository.
func (r *redisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(data)
}

// Save implements SessionRepository.
func (r *redisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete implements SessionRepository.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if removed == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *redisSessionRepository) key(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func decodeSession(data []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
