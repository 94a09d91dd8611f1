package routestore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/route"
)

const (
	redisRoutePrefix = "routecast:route:"
	redisIndexKey    = "routecast:routes"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each route as a Redis list of JSON-encoded points, with a
// set indexing the known route ids. Suitable when several collector
// instances share storage.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperr.Wrap(apperr.CodeInternal, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

// Append pushes points onto the route's list and records the id in the index.
func (s *RedisStore) Append(ctx context.Context, routeID string, points []route.Point) error {
	values := make([]any, 0, len(points))
	for _, p := range points {
		data, err := json.Marshal(p)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, err, "encode route point")
		}
		values = append(values, data)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, redisRoutePrefix+routeID, values...)
	pipe.SAdd(ctx, redisIndexKey, routeID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "append to route %s", routeID)
	}
	return nil
}

// Get returns all points of the route.
func (s *RedisStore) Get(ctx context.Context, routeID string) ([]route.Point, error) {
	raw, err := s.client.LRange(ctx, redisRoutePrefix+routeID, 0, -1).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "read route %s", routeID)
	}
	if len(raw) == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "route %s", routeID)
	}

	points := make([]route.Point, 0, len(raw))
	for _, item := range raw {
		var p route.Point
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "decode route %s", routeID)
		}
		points = append(points, p)
	}
	return points, nil
}

// List returns the ids of all stored routes.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list routes")
	}
	return ids, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
