package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiquiz/internal/domain"
)

func TestGetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectGet("wikiquiz:quiz:url:abc").SetVal(`{"title":"Go"}`)

	val, err := cache.Get(context.Background(), "wikiquiz:quiz:url:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Go"}`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectGet("missing").RedisNil()

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectSet("key", "value", 24*time.Hour).SetVal("OK")

	err := cache.Set(context.Background(), "key", "value", 24*time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectDel("key").SetVal(1)

	err := cache.Delete(context.Background(), "key")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")

	err := cache.Ping(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
