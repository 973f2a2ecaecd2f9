package adapter

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapterGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("quiz:tree:quiz1").SetVal(`{"id":"quiz1"}`)

	val, err := cacheAdapter.Get(context.Background(), "quiz:tree:quiz1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"quiz1"}`, val)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterGetTranslatesNilToCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("quiz:tree:missing").RedisNil()

	_, err := cacheAdapter.Get(context.Background(), "quiz:tree:missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterSetWithExpiration(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectSet("session:guest:abc", "Guest-01HZX3", 30*24*time.Hour).SetVal("OK")

	err := cacheAdapter.Set(context.Background(), "session:guest:abc", "Guest-01HZX3", 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectDel("quiz:tree:quiz1").SetVal(1)

	err := cacheAdapter.Delete(context.Background(), "quiz:tree:quiz1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
