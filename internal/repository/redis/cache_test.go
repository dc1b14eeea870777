package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryFixture struct {
	MatchID   int64 `json:"match_id"`
	Available int   `json:"available"`
}

func TestGetOrSetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the loader", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := New(db)

		key := KeyMatchSummary(7)
		mock.ExpectGet(key).SetVal(`{"match_id":7,"available":12}`)

		out, err := GetOrSetJSON(ctx, c, key, time.Minute, func(ctx context.Context) (summaryFixture, error) {
			t.Fatal("loader must not run on a hit")
			return summaryFixture{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, summaryFixture{MatchID: 7, Available: 12}, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss loads and stores", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := New(db)

		key := KeyMatchSummary(7)
		// outer probe, then the re-check inside singleflight
		mock.ExpectGet(key).RedisNil()
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, `{"match_id":7,"available":3}`, time.Minute).SetVal("OK")

		out, err := GetOrSetJSON(ctx, c, key, time.Minute, func(ctx context.Context) (summaryFixture, error) {
			return summaryFixture{MatchID: 7, Available: 3}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, summaryFixture{MatchID: 7, Available: 3}, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loader error is surfaced", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := New(db)

		key := KeyMatchSummary(8)
		mock.ExpectGet(key).RedisNil()
		mock.ExpectGet(key).RedisNil()

		wantErr := errors.New("store down")
		_, err := GetOrSetJSON(ctx, c, key, time.Minute, func(ctx context.Context) (summaryFixture, error) {
			return summaryFixture{}, wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestInvalidateMatch(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(db)

	mock.ExpectDel(
		KeyMatchSummary(42),
		KeyMatchSeats(42),
		KeyMatchList(),
	).SetVal(3)

	require.NoError(t, c.InvalidateMatch(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
