package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	searchLogKey = "recent_searches"
	searchLogMax = 100
	searchLogTTL = 7 * 24 * time.Hour
)

// SearchEntry is one logged route search.
type SearchEntry struct {
	Pickup      string    `json:"pickup"`
	Destination string    `json:"destination"`
	SearchedAt  time.Time `json:"searched_at"`
}

// SearchLogStore keeps a capped log of recent route searches in Redis.
// It backs analytics only; failures are logged by callers and never affect
// the comparison response.
type SearchLogStore struct {
	client *redis.Client
}

// NewSearchLogStore creates a new SearchLogStore.
func NewSearchLogStore(client *redis.Client) *SearchLogStore {
	return &SearchLogStore{client: client}
}

// LogSearch prepends a search to the log, trims it to capacity, and
// refreshes the TTL.
func (s *SearchLogStore) LogSearch(ctx context.Context, pickup, destination string) error {
	entry := SearchEntry{
		Pickup:      pickup,
		Destination: destination,
		SearchedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, searchLogKey, data)
	pipe.LTrim(ctx, searchLogKey, 0, searchLogMax-1)
	pipe.Expire(ctx, searchLogKey, searchLogTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n most recent searches, newest first.
func (s *SearchLogStore) Recent(ctx context.Context, n int) ([]SearchEntry, error) {
	if n <= 0 || n > searchLogMax {
		n = searchLogMax
	}
	raw, err := s.client.LRange(ctx, searchLogKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]SearchEntry, 0, len(raw))
	for _, item := range raw {
		var e SearchEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue // Skip corrupt entries.
		}
		entries = append(entries, e)
	}
	return entries, nil
}
