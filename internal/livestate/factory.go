package livestate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Driver selects the live-state backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

// NewStore creates a Store for the given driver. The redis driver requires
// WithRedisClient.
func NewStore(driver Driver, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch driver {
	case DriverMemory:
		return &memoryStore{
			states: make(map[string]*State),
		}, nil

	case DriverRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.ttl
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidDriver
	}
}

// memoryStore implements Store using an in-memory map with optimistic locking.
type memoryStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

func (s *memoryStore) Create(ctx context.Context, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdatedAt = time.Now()
	state.Version = 1

	s.states[state.SessionID] = state
	return nil
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.states[sessionID]
	if !exists {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *memoryStore) Update(ctx context.Context, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.states[state.SessionID]
	if !exists {
		return ErrNotFound
	}

	if stored.Version != state.Version {
		return ErrVersionConflict
	}

	state.Version++
	state.UpdatedAt = time.Now()

	s.states[state.SessionID] = state
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = nil
	return nil
}

// redisStore implements Store using Redis with optimistic locking.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func stateKey(sessionID string) string {
	return "interview:state:" + sessionID
}

func (s *redisStore) Create(ctx context.Context, state *State) error {
	state.UpdatedAt = time.Now()
	state.Version = 1

	val, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, stateKey(state.SessionID), val, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*State, error) {
	key := stateKey(sessionID)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &state, nil
}

func (s *redisStore) Update(ctx context.Context, state *State) error {
	key := stateKey(state.SessionID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored State
		if err := json.Unmarshal([]byte(val), &stored); err != nil {
			return err
		}

		if stored.Version != state.Version {
			return ErrVersionConflict
		}

		state.Version++
		state.UpdatedAt = time.Now()

		newVal, err := json.Marshal(state)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, stateKey(sessionID)).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
