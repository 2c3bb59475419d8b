package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/logging"
)

type memoryKeyValue struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryKeyValue() *memoryKeyValue {
	return &memoryKeyValue{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKeyValue) Get(ctx context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func sampleResult() entity.AnalysisResult {
	return entity.AnalysisResult{
		Success:         true,
		ClassName:       "normal",
		ClassIndex:      1,
		Confidence:      0.91,
		Bucket:          entity.ConfidenceHigh,
		Description:     "Normal nutritional status detected (High confidence)",
		Severity:        entity.SeverityNormal,
		Recommendations: []string{"Continue maintaining healthy nutrition", "Regular growth monitoring recommended"},
	}
}

func TestResultCache_RoundTrip(t *testing.T) {
	kv := newMemoryKeyValue()
	cache := NewResultCache(kv, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", sampleResult()))
	assert.Equal(t, time.Minute, kv.ttls["k"])

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResult(), got)
}

func TestResultCache_SkipsFailedResults(t *testing.T) {
	kv := newMemoryKeyValue()
	cache := NewResultCache(kv, 0)

	require.NoError(t, cache.Set(context.Background(), "k", entity.FailedResult(errors.New("boom"))))
	assert.Empty(t, kv.values)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)
}

func TestResultCache_Errors(t *testing.T) {
	kv := newMemoryKeyValue()
	cache := NewResultCache(kv, time.Minute)
	ctx := context.Background()

	kv.values["bad"] = "{not json"
	_, ok, err := cache.Get(ctx, "bad")
	assert.False(t, ok)
	var opErr *logging.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "cache.decode", opErr.Operation)

	kv.err = errors.New("connection reset")
	_, ok, err = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection reset")

	err = cache.Set(ctx, "k", sampleResult())
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "cache.set", opErr.Operation)
}

func TestRedisResultCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	cache := NewRedisResultCache(client, time.Minute)
	_, ok, err := cache.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))

	_, err = OpenRedis(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}
