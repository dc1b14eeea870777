package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	key := KeyIdemBooking(5, "abc-123")

	t.Run("acquire lock", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewIdempotencyStore(db, time.Hour)

		mock.ExpectSetNX(key, "LOCK", time.Minute).SetVal(true)

		ok, err := s.AcquireLock(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save and replay result", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewIdempotencyStore(db, time.Hour)

		payload := `{"id":"r1"}`
		mock.ExpectSet(key, "RES:"+payload, time.Hour).SetVal("OK")
		mock.ExpectGet(key).SetVal("RES:" + payload)

		require.NoError(t, s.SaveResult(ctx, key, payload))

		got, ok, err := s.GetResult(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, payload, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock value is not a result", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewIdempotencyStore(db, time.Hour)

		mock.ExpectGet(key).SetVal("LOCK")

		_, ok, err := s.GetResult(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		mock.ExpectGet(key).SetVal("LOCK")
		locked, err := s.IsLocked(ctx, key)
		require.NoError(t, err)
		assert.True(t, locked)
	})

	t.Run("missing key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewIdempotencyStore(db, time.Hour)

		mock.ExpectGet(key).RedisNil()

		_, ok, err := s.GetResult(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
