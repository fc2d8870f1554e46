package service

import (
	"testing"
	"time"

	"workload-tlx/internal/domain"
)

func TestMemoryStatsCache(t *testing.T) {
	stats := domain.TaskStats{TaskName: "landing", Count: 3, Raw: domain.ScoreStats{Count: 3, Mean: 10}}

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryStatsCache()
		if err := c.Set("landing", stats, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, ok, err := c.Get("landing")
		if err != nil || !ok {
			t.Fatalf("expected hit, ok=%t err=%v", ok, err)
		}
		if got.Count != 3 || got.Raw.Mean != 10 {
			t.Fatalf("unexpected cached stats: %+v", got)
		}
	})

	t.Run("miss on unknown task", func(t *testing.T) {
		c := NewMemoryStatsCache()
		if _, ok, _ := c.Get("unknown"); ok {
			t.Fatalf("expected miss")
		}
	})

	t.Run("expired entry evicted", func(t *testing.T) {
		c := NewMemoryStatsCache()
		if err := c.Set("landing", stats, -time.Second); err != nil {
			t.Fatalf("set: %v", err)
		}
		if _, ok, _ := c.Get("landing"); ok {
			t.Fatalf("expected expired entry to miss")
		}
	})

	t.Run("invalidate", func(t *testing.T) {
		c := NewMemoryStatsCache()
		if err := c.Set("landing", stats, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := c.Invalidate("landing"); err != nil {
			t.Fatalf("invalidate: %v", err)
		}
		if _, ok, _ := c.Get("landing"); ok {
			t.Fatalf("expected miss after invalidation")
		}
	})

	t.Run("blank task name ignored", func(t *testing.T) {
		c := NewMemoryStatsCache()
		if err := c.Set("  ", stats, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		if _, ok, _ := c.Get("  "); ok {
			t.Fatalf("blank task names must not be cached")
		}
	})
}
