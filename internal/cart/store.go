package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desesperanza/panaderia-backend/pkg/config"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CartKey(userID string) string
}

// Store persists session carts in Redis as JSON snapshots. A missing key
// reads back as an empty cart.
type Store struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

type storeClient interface {
	sessionStore
	sessionKeyer
}

// NewStore wires the cart session store.
func NewStore(client storeClient, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid cart session ttl %s", cfg.SessionTTL)
	}
	return &Store{store: client, keyer: client, ttl: cfg.SessionTTL}, nil
}

// Load reads the cart attached to the user's session.
func (s *Store) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.keyer.CartKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load cart")
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &cart, nil
}

// Save writes the cart back to the session, refreshing the TTL.
func (s *Store) Save(ctx context.Context, userID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.keyer.CartKey(userID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: save cart")
	}
	return nil
}

// Clear drops the session cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.store.Del(ctx, s.keyer.CartKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear cart")
	}
	return nil
}
