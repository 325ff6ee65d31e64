package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/utils"
)

type IdempotencyState string

const (
	IdempotencyPending IdempotencyState = "pending"
	IdempotencyDone    IdempotencyState = "done"
)

// IdempotencyRecord is stored under a client supplied key for the lifetime of the TTL.
type IdempotencyRecord[T any] struct {
	State       IdempotencyState `json:"state"`
	Fingerprint string           `json:"fingerprint"`
	Result      *T               `json:"result,omitempty"`
}

type IdempotencyOptions struct {
	TTL          time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type IdempotencyService[T any] struct {
	records port.CachePort[IdempotencyRecord[T]]
	opts    IdempotencyOptions
}

func NewIdempotencyService[T any](records port.CachePort[IdempotencyRecord[T]], opts IdempotencyOptions) *IdempotencyService[T] {
	return &IdempotencyService[T]{
		records: records,
		opts:    opts,
	}
}

// Execute runs fn at most once per key. A repeated call with the same payload
// returns the stored result, a different payload under the same key is rejected.
func (s *IdempotencyService[T]) Execute(ctx context.Context, key string, payload any, fn func(ctx context.Context) (*T, error)) (*T, error) {
	fingerprint := utils.Fingerprint(payload)

	stored, err := s.reserve(ctx, key, fingerprint)
	if err != nil {
		logger.Warn(ctx, "idempotency: reserve failed", map[string]any{
			"idempotency_key": key,
			"error":           err.Error(),
		})
		return nil, err
	}
	if stored != nil {
		logger.Info(ctx, "idempotency: replaying stored result", map[string]any{
			"idempotency_key": key,
		})
		return stored, nil
	}

	result, err := fn(ctx)
	if err != nil {
		s.forget(ctx, key)
		return nil, err
	}

	s.finish(ctx, key, fingerprint, result)
	return result, nil
}

func (s *IdempotencyService[T]) reserve(ctx context.Context, key, fingerprint string) (*T, error) {
	reserved, err := s.records.SetNX(ctx, key, &IdempotencyRecord[T]{
		State:       IdempotencyPending,
		Fingerprint: fingerprint,
	}, s.opts.TTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency reserve failed: %w", err)
	}
	if reserved {
		return nil, nil
	}
	return s.await(ctx, key, fingerprint)
}

func (s *IdempotencyService[T]) finish(ctx context.Context, key, fingerprint string, result *T) {
	err := s.records.Set(ctx, key, &IdempotencyRecord[T]{
		State:       IdempotencyDone,
		Fingerprint: fingerprint,
		Result:      result,
	}, s.opts.TTL)
	if err != nil {
		logger.Error(ctx, "idempotency: storing result failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

func (s *IdempotencyService[T]) forget(ctx context.Context, key string) {
	if err := s.records.Del(ctx, key); err != nil {
		logger.Error(ctx, "idempotency: forget failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

// inspect returns the stored result once the record is done, nil while pending.
func (s *IdempotencyService[T]) inspect(ctx context.Context, key, fingerprint string) (*T, error) {
	record, err := s.records.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	switch {
	case record == nil:
		return nil, serviceerrors.NewConflictError("Previous request with this key failed, retry it")
	case record.Fingerprint != fingerprint:
		return nil, serviceerrors.NewUnprocessableEntityError("Idempotency key already used with a different request")
	case record.State == IdempotencyDone:
		return record.Result, nil
	}
	return nil, nil
}

func (s *IdempotencyService[T]) await(ctx context.Context, key, fingerprint string) (*T, error) {
	if result, err := s.inspect(ctx, key, fingerprint); result != nil || err != nil {
		return result, err
	}

	deadline := time.NewTimer(s.opts.PollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, serviceerrors.NewConflictError("Request with this key is still being processed")
		case <-ticker.C:
			if result, err := s.inspect(ctx, key, fingerprint); result != nil || err != nil {
				return result, err
			}
		}
	}
}
