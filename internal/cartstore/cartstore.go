// Package cartstore parks in-progress carts in Redis so a cashier can
// suspend an order at the counter and resume it later, on any terminal.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baancha/pos/pkg/cart"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Held carts expire after a day; an unclaimed cart is stale by then.
const holdTTL = 24 * time.Hour

var ErrNotFound = errors.New("held cart not found")

// Store defines the held-cart operations. Satisfied by *RedisStore; narrow
// interface for testability.
type Store interface {
	Hold(ctx context.Context, items []cart.Item, label string) (string, error)
	Get(ctx context.Context, id string) (HeldCart, error)
	Delete(ctx context.Context, id string) error
}

// HeldCart is the parked snapshot.
type HeldCart struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Items  []cart.Item `json:"items"`
	HeldAt time.Time   `json:"held_at"`
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	return &RedisStore{rdb: rdb}, nil
}

func key(id string) string {
	return "held_cart:" + id
}

// Hold stores the items under a fresh id with a 24h TTL and returns the id.
func (s *RedisStore) Hold(ctx context.Context, items []cart.Item, label string) (string, error) {
	held := HeldCart{
		ID:     uuid.NewString(),
		Label:  label,
		Items:  items,
		HeldAt: time.Now().UTC(),
	}
	data, err := json.Marshal(held)
	if err != nil {
		return "", fmt.Errorf("marshal held cart: %w", err)
	}
	if err := s.rdb.Set(ctx, key(held.ID), data, holdTTL).Err(); err != nil {
		return "", fmt.Errorf("store held cart: %w", err)
	}
	return held.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (HeldCart, error) {
	val, err := s.rdb.Get(ctx, key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return HeldCart{}, ErrNotFound
		}
		return HeldCart{}, fmt.Errorf("fetch held cart: %w", err)
	}

	var held HeldCart
	if err := json.Unmarshal([]byte(val), &held); err != nil {
		return HeldCart{}, fmt.Errorf("decode held cart: %w", err)
	}
	return held, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.rdb.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete held cart: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
