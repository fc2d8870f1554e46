package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"workload-tlx/internal/domain"
)

// StatsCache holds recently computed per-task aggregates so repeated stats
// reads do not rescan the store. Entries are short-lived and invalidated
// whenever a new assessment is scored or deleted for the task.
type StatsCache interface {
	Get(taskName string) (domain.TaskStats, bool, error)
	Set(taskName string, stats domain.TaskStats, ttl time.Duration) error
	Invalidate(taskName string) error
}

type memoryStatsCache struct {
	mu    sync.Mutex
	items map[string]memoryStatsEntry
}

type memoryStatsEntry struct {
	stats     domain.TaskStats
	expiresAt time.Time
}

func NewMemoryStatsCache() StatsCache {
	return &memoryStatsCache{
		items: make(map[string]memoryStatsEntry),
	}
}

func (c *memoryStatsCache) Get(taskName string) (domain.TaskStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[taskName]
	if !ok {
		return domain.TaskStats{}, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, taskName)
		return domain.TaskStats{}, false, nil
	}
	return entry.stats, true, nil
}

func (c *memoryStatsCache) Set(taskName string, stats domain.TaskStats, ttl time.Duration) error {
	if strings.TrimSpace(taskName) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[taskName] = memoryStatsEntry{
		stats:     stats,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (c *memoryStatsCache) Invalidate(taskName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, taskName)
	return nil
}

type redisStatsCache struct {
	client *redis.Client
	prefix string
}

func NewRedisStatsCache(client *redis.Client) StatsCache {
	if client == nil {
		return nil
	}
	return &redisStatsCache{
		client: client,
		prefix: "stats:task:",
	}
}

func (c *redisStatsCache) Get(taskName string) (domain.TaskStats, bool, error) {
	if strings.TrimSpace(taskName) == "" {
		return domain.TaskStats{}, false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	payload, err := c.client.Get(ctx, c.prefix+taskName).Bytes()
	if err == redis.Nil {
		return domain.TaskStats{}, false, nil
	}
	if err != nil {
		return domain.TaskStats{}, false, err
	}
	var stats domain.TaskStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return domain.TaskStats{}, false, err
	}
	return stats, true, nil
}

func (c *redisStatsCache) Set(taskName string, stats domain.TaskStats, ttl time.Duration) error {
	if strings.TrimSpace(taskName) == "" {
		return nil
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+taskName, payload, ttl).Err()
}

func (c *redisStatsCache) Invalidate(taskName string) error {
	if strings.TrimSpace(taskName) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.prefix+taskName).Err()
}
