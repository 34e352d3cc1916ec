// Package queue bridges chat interactions to the external Redis-backed
// worker queue: it submits jobs, awaits their results with a bounded
// timeout, and exposes queue counters for the status surface.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Distinct failure kinds surfaced to the dispatcher, which maps them to
// distinct user-visible messages.
var (
	// ErrUnavailable means the queue is not configured or not reachable.
	ErrUnavailable = errors.New("queue unavailable")

	// ErrAwaitTimeout means the result did not arrive in time. The
	// underlying job is not cancelled; a late result is simply discarded.
	ErrAwaitTimeout = errors.New("await timed out")
)

// jobTTL bounds how long job payloads and unclaimed results stay in Redis.
const jobTTL = 24 * time.Hour

// Config holds queue connection settings.
type Config struct {
	RedisURL string `json:"redisUrl"`
	Name     string `json:"name"` // key prefix, e.g. "starkbot:jobs"
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// Request carries everything the worker needs to process one question.
type Request struct {
	Platform      string `json:"platform"`
	RequesterID   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
	Payload       string `json:"payload"`
	MessageID     string `json:"messageId"`
}

// Job is one submitted unit of work. Ownership transfers to the queue at
// submit time; the caller keeps only the ID for correlation.
type Job struct {
	ID            string `json:"id"`
	Platform      string `json:"platform"`
	RequesterID   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
	Payload       string `json:"payload"`
	MessageID     string `json:"messageId"`
	SubmittedAtMs int64  `json:"submittedAtMs"`
}

// Metrics are the queue counters shown on the status surface.
type Metrics struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Bridge is a consumer-side view of the worker queue. Each awaiting
// caller blocks on its own per-job result key, so concurrent awaiters
// never contend on shared state.
type Bridge struct {
	mu     sync.RWMutex
	client *redis.Client // nil when disconnected or closed
	name   string
	log    *log.Logger
}

// New connects to Redis and returns a Bridge. With no URL configured the
// bridge is created disconnected and every submit fails with
// ErrUnavailable; the process itself keeps running.
func New(cfg Config, logger *log.Logger) *Bridge {
	b := &Bridge{name: cfg.Name, log: logger.WithPrefix("queue")}
	if b.name == "" {
		b.name = "starkbot:jobs"
	}
	if cfg.RedisURL == "" {
		b.log.Warn("Redis URL not configured, queue disabled")
		return b
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		b.log.Error("Invalid Redis URL", "error", err)
		return b
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.DialTimeout = 5 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.MaxRetries = 3

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		b.log.Error("Redis connection failed", "error", err)
		client.Close()
		return b
	}

	b.client = client
	b.log.Info("Connected to Redis", "queue", b.name)
	return b
}

// conn snapshots the client. Close nils the field concurrently with
// in-flight submits and awaits, so every access goes through the lock.
func (b *Bridge) conn() *redis.Client {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.client
}

// Available reports whether the queue is reachable.
func (b *Bridge) Available() bool {
	return b.conn() != nil
}

// Submit creates a job from the request and hands it to the queue. The
// job ID is the only state retained for correlating the eventual result.
func (b *Bridge) Submit(ctx context.Context, req Request) (Job, error) {
	client := b.conn()
	if client == nil {
		return Job{}, ErrUnavailable
	}

	job := Job{
		ID:            uuid.NewString(),
		Platform:      req.Platform,
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		Payload:       req.Payload,
		MessageID:     req.MessageID,
		SubmittedAtMs: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return Job{}, fmt.Errorf("marshal job: %w", err)
	}

	pipe := client.TxPipeline()
	pipe.Set(ctx, b.jobKey(job.ID), data, jobTTL)
	pipe.LPush(ctx, b.waitKey(), job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	b.log.Info("Job submitted", "job_id", job.ID,
		"platform", job.Platform, "requester", job.RequesterID)
	return job, nil
}

// AwaitResult blocks until the worker publishes a result for jobID or
// the timeout elapses, whichever comes first. The wait is a blocking pop
// on the job's own result key, so it never stalls other awaiters. On
// timeout the job keeps running; its result expires unread.
func (b *Bridge) AwaitResult(ctx context.Context, jobID string, timeout time.Duration) (Result, error) {
	client := b.conn()
	if client == nil {
		return Result{}, ErrUnavailable
	}

	res, err := client.BRPop(ctx, timeout, b.resultKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			b.log.Warn("Await timed out", "job_id", jobID, "timeout", timeout)
			return Result{}, ErrAwaitTimeout
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// BRPOP returns [key, value].
	if len(res) < 2 {
		return Result{}, fmt.Errorf("%w: malformed BRPOP reply", ErrUnavailable)
	}
	return ParseResult([]byte(res[1])), nil
}

// Metrics reads the queue counters.
func (b *Bridge) Metrics(ctx context.Context) (Metrics, error) {
	client := b.conn()
	if client == nil {
		return Metrics{}, ErrUnavailable
	}

	pipe := client.Pipeline()
	waiting := pipe.LLen(ctx, b.waitKey())
	active := pipe.LLen(ctx, b.activeKey())
	completed := pipe.Get(ctx, b.completedKey())
	failed := pipe.Get(ctx, b.failedKey())
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Metrics{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m := Metrics{
		Waiting: waiting.Val(),
		Active:  active.Val(),
	}
	m.Completed, _ = completed.Int64()
	m.Failed, _ = failed.Int64()
	return m, nil
}

// Close releases the Redis connection. Safe to call concurrently with
// in-flight submits and awaits; those fail with ErrUnavailable once the
// client is gone.
func (b *Bridge) Close() error {
	b.mu.Lock()
	client := b.client
	b.client = nil
	b.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

func (b *Bridge) jobKey(id string) string    { return b.name + ":job:" + id }
func (b *Bridge) resultKey(id string) string { return b.name + ":result:" + id }
func (b *Bridge) waitKey() string            { return b.name + ":wait" }
func (b *Bridge) activeKey() string          { return b.name + ":active" }
func (b *Bridge) completedKey() string       { return b.name + ":completed" }
func (b *Bridge) failedKey() string          { return b.name + ":failed" }
