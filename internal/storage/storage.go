// Package storage persists the current-user identity between runs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codego/internal/config"
	"codego/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCorruptRecord is returned when a stored identity cannot be decoded.
var ErrCorruptRecord = errors.New("stored identity is corrupt")

// IdentityStore holds at most one serialized user.
type IdentityStore interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

func encodeUser(u *models.User) ([]byte, error) {
	if u == nil || u.ID == "" {
		return nil, errors.New("cannot persist an identity without an id")
	}
	return json.Marshal(u)
}

func decodeUser(raw []byte) (*models.User, error) {
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrCorruptRecord)
	}
	return &u, nil
}

// Open builds the identity store selected by cfg.SessionBackend. rdb is only
// used by the redis backend.
func Open(cfg *config.Config, rdb *redis.Client) (IdentityStore, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendFile, "":
		return NewFileStore(cfg.SessionFile), nil
	case config.SessionBackendRedis:
		if rdb == nil {
			return nil, errors.New("redis session backend requires a reachable REDIS_URL")
		}
		return NewRedisStore(rdb), nil
	case config.SessionBackendSQL:
		db, err := OpenDB(cfg.SessionDBDriver, cfg.SessionDBDSN, cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
