package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// JobStatus is the cached snapshot of an analysis job as the status
// endpoint reports it.
type JobStatus struct {
	JobID    uint   `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// StatusCache keeps short-lived job status snapshots so that pollers do not
// hit the database on every request. Entries are deleted on terminal
// transitions; the TTL only covers in-flight polling.
type StatusCache struct {
	client    *redisv9.Client
	statusTTL time.Duration
}

func NewStatusCache(client *redisv9.Client, statusTTL time.Duration) *StatusCache {
	if statusTTL <= 0 {
		statusTTL = 5 * time.Second
	}
	return &StatusCache{
		client:    client,
		statusTTL: statusTTL,
	}
}

func (c *StatusCache) Get(ctx context.Context, jobID uint) (*JobStatus, bool, error) {
	raw, err := c.client.Get(ctx, c.key(jobID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get job status failed: %w", err)
	}

	var status JobStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached job status failed: %w", err)
	}
	return &status, true, nil
}

func (c *StatusCache) Set(ctx context.Context, status *JobStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal job status cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(status.JobID), payload, c.statusTTL).Err(); err != nil {
		return fmt.Errorf("redis set job status failed: %w", err)
	}
	return nil
}

func (c *StatusCache) Delete(ctx context.Context, jobID uint) error {
	if err := c.client.Del(ctx, c.key(jobID)).Err(); err != nil {
		return fmt.Errorf("redis delete job status failed: %w", err)
	}
	return nil
}

func (c *StatusCache) key(jobID uint) string {
	return fmt.Sprintf("analysis:job:status:%d", jobID)
}
