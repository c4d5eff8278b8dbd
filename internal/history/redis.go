// Package history keeps an optional Redis-backed record of recent
// conversion and extraction requests.
package history

import (
    "context"
    "encoding/json"
    "time"

    redis "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"
)

const listKey = "docconvert:history"

// Entry is one recorded request outcome.
type Entry struct {
    Operation    string    `json:"operation"`
    OriginalName string    `json:"original_name,omitempty"`
    Artifact     string    `json:"artifact,omitempty"`
    Result       string    `json:"result"`
    Error        string    `json:"error,omitempty"`
    DurationMS   int64     `json:"duration_ms"`
    Timestamp    time.Time `json:"timestamp"`
}

// Store records entries in a capped Redis list, newest first.
type Store struct {
    client  *redis.Client
    maxKept int64
}

// New connects to Redis and verifies the connection.
func New(redisURL string, maxKept int64) (*Store, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, err
    }
    c := redis.NewClient(opt)
    if err := c.Ping(context.Background()).Err(); err != nil {
        return nil, err
    }
    if maxKept <= 0 {
        maxKept = 200
    }
    return &Store{client: c, maxKept: maxKept}, nil
}

// Record appends an entry. Best effort: failures only log.
func (s *Store) Record(ctx context.Context, e Entry) {
    if e.Timestamp.IsZero() {
        e.Timestamp = time.Now().UTC()
    }
    payload, err := json.Marshal(e)
    if err != nil {
        log.Warn().Err(err).Msg("failed to encode history entry")
        return
    }
    pipe := s.client.Pipeline()
    pipe.LPush(ctx, listKey, payload)
    pipe.LTrim(ctx, listKey, 0, s.maxKept-1)
    if _, err := pipe.Exec(ctx); err != nil {
        log.Warn().Err(err).Msg("failed to record history entry")
    }
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int64) ([]Entry, error) {
    if n <= 0 || n > s.maxKept {
        n = s.maxKept
    }
    raw, err := s.client.LRange(ctx, listKey, 0, n-1).Result()
    if err != nil {
        return nil, err
    }
    entries := make([]Entry, 0, len(raw))
    for _, r := range raw {
        var e Entry
        if err := json.Unmarshal([]byte(r), &e); err != nil {
            log.Warn().Err(err).Msg("skipping undecodable history entry")
            continue
        }
        entries = append(entries, e)
    }
    return entries, nil
}

// Ping reports Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
    return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *Store) Close() error { return s.client.Close() }
