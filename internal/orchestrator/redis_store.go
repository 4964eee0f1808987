package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "lecture:render:"
	redisIndexKey  = "lecture:renders"
)

// RedisStore keeps jobs as JSON strings with a TTL, plus a set of known IDs.
// IDs whose job has expired are pruned from the set on listing.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by client. A ttl <= 0 keeps jobs
// forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func jobKey(id RenderID) string { return redisKeyPrefix + string(id) }

// GetJob implements Store.GetJob.
func (s *RedisStore) GetJob(ctx context.Context, id RenderID) (*Job, bool, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get job %s: %w", id, err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, false, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, true, nil
}

// SetJob implements Store.SetJob.
func (s *RedisStore) SetJob(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(job.ID), data, s.ttl)
		pipe.SAdd(ctx, redisIndexKey, string(job.ID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("set job %s: %w", job.ID, err)
	}
	return nil
}

// ListJobIDs implements Store.ListJobIDs.
func (s *RedisStore) ListJobIDs(ctx context.Context) ([]RenderID, error) {
	members, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = jobKey(RenderID(m))
	}
	live, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	ids := make([]RenderID, 0, len(members))
	if int(live) == len(members) {
		for _, m := range members {
			ids = append(ids, RenderID(m))
		}
		return ids, nil
	}

	var stale []any
	for _, m := range members {
		n, err := s.client.Exists(ctx, jobKey(RenderID(m))).Result()
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		if n == 0 {
			stale = append(stale, m)
			continue
		}
		ids = append(ids, RenderID(m))
	}
	if len(stale) > 0 {
		s.client.SRem(ctx, redisIndexKey, stale...)
	}
	return ids, nil
}
