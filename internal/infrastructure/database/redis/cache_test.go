package redis

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/AgriMat-Platform/pkg/errors"
)

type scorePayload struct {
	IDs    []string       `json:"ids"`
	Scores map[string]int `json:"scores"`
}

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mr     *miniredis.Miniredis
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	s.client, s.mr = newTestClient(s.T())
	s.cache = NewRedisCache(s.client, logging.NewNopLogger(), WithPrefix("test:"), WithoutJitter())
}

func (s *CacheTestSuite) TestSetGet_RoundTrip() {
	ctx := context.Background()
	in := scorePayload{IDs: []string{"AL-01", "AL-02"}, Scores: map[string]int{"AL-01": 100, "AL-02": 95}}
	s.Require().NoError(s.cache.Set(ctx, "k", in, time.Minute))

	var out scorePayload
	s.Require().NoError(s.cache.Get(ctx, "k", &out))
	s.Equal(in, out)

	s.True(s.mr.Exists("test:k"))
	s.Equal(time.Minute, s.mr.TTL("test:k"))
}

func (s *CacheTestSuite) TestGet_Miss() {
	var out scorePayload
	err := s.cache.Get(context.Background(), "absent", &out)
	s.ErrorIs(err, ErrCacheMiss)
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	ctx := context.Background()
	s.Require().NoError(s.client.Set(ctx, "test:bad", "{not json", 0).Err())
	var out scorePayload
	err := s.cache.Get(ctx, "bad", &out)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnceThenHits() {
	ctx := context.Background()
	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return scorePayload{IDs: []string{"X"}, Scores: map[string]int{"X": 100}}, nil
	}

	var first scorePayload
	hit, err := s.cache.GetOrSet(ctx, "scores", &first, time.Minute, loader)
	s.Require().NoError(err)
	s.False(hit)
	s.Equal(100, first.Scores["X"])

	var second scorePayload
	hit, err = s.cache.GetOrSet(ctx, "scores", &second, time.Minute, loader)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal(first, second)
	s.Equal(int32(1), atomic.LoadInt32(&calls))
}

func (s *CacheTestSuite) TestGetOrSet_CollapsesConcurrentLoads() {
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.cache.GetOrSet(ctx, "shared", &results[i], time.Minute, loader)
			assert.NoError(s.T(), err)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		s.Equal(42, r)
	}
	s.LessOrEqual(atomic.LoadInt32(&calls), int32(8))
	s.GreaterOrEqual(atomic.LoadInt32(&calls), int32(1))
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	boom := stderrors.New("boom")
	var out int
	_, err := s.cache.GetOrSet(context.Background(), "err", &out, 0, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	s.ErrorIs(err, boom)
	s.False(s.mr.Exists("test:err"))
}

func (s *CacheTestSuite) TestDeleteByPrefix() {
	ctx := context.Background()
	for _, k := range []string{"scores:a", "scores:b", "predict:c"} {
		s.Require().NoError(s.cache.Set(ctx, k, k, 0))
	}
	n, err := s.cache.DeleteByPrefix(ctx, "scores:")
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	s.True(s.mr.Exists("test:predict:c"))
	s.False(s.mr.Exists("test:scores:a"))
}

func (s *CacheTestSuite) TestPing() {
	s.NoError(s.cache.Ping(context.Background()))
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestCache_GetBackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, config: &RedisConfig{}, logger: logging.NewNopLogger()}
	cache := NewRedisCache(client, nil, WithPrefix("p:"))

	mock.ExpectGet("p:k").SetErr(stderrors.New("connection reset"))

	var out string
	err := cache.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetOrSetFallsBackOnReadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, config: &RedisConfig{}, logger: logging.NewNopLogger()}
	cache := NewRedisCache(client, nil, WithPrefix("p:"), WithoutJitter())

	mock.ExpectGet("p:k").SetErr(stderrors.New("timeout"))
	mock.ExpectSet("p:k", []byte(`"v"`), time.Minute).SetVal("OK")

	var out string
	hit, err := cache.GetOrSet(context.Background(), "k", &out, time.Minute, func(context.Context) (interface{}, error) {
		return "v", nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "v", out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
