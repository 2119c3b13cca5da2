// Package idempotency provides a Redis-backed guard for at-least-once message
// handling. A message id is marked in progress while the handler runs,
// promoted to completed on success, and released on failure so broker
// redelivery can retry.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidState indicates the stored marker holds an unknown value.
var ErrInvalidState = errors.New("idempotency: invalid state")

// State describes the stored handling state for a key.
type State string

const (
	// StateNone means no marker exists and the operation can proceed.
	StateNone State = "none"
	// StateInProgress means another handler currently owns the key.
	StateInProgress State = "in_progress"
	// StateCompleted means the operation already finished successfully.
	StateCompleted State = "completed"
	// StateError means the tracker itself failed.
	StateError State = "error"
)

// String returns the string form of the state.
func (s State) String() string {
	return string(s)
}

// Idempotency guards an operation keyed by a stable identifier.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// StateTracker is a Redis SetNX based Idempotency implementation.
type StateTracker struct {
	client *redis.Client
	prefix string
}

// New constructs a StateTracker on the given Redis client.
func New(client *redis.Client) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

// Acquire tries to claim the key. StateNone means the caller now owns it.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}
		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	switch result {
	case StateInProgress.String():
		return StateInProgress, nil
	case StateCompleted.String():
		return StateCompleted, nil
	default:
		return StateError, ErrInvalidState
	}
}

// MarkCompleted records successful handling of the key.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// Release drops the in-progress marker so a redelivery can claim the key again.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
