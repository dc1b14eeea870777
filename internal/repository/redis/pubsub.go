package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

func ChannelMatchesChanged() string {
	return ns + ":matches:changed"
}

// MatchesPubSub fans out "seat inventory of match X changed" signals so
// other instances can drop their cached views.
type MatchesPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewMatchesPubSub(rdb *redis.Client) *MatchesPubSub {
	return &MatchesPubSub{
		rdb:     rdb,
		channel: ChannelMatchesChanged(),
	}
}

type matchChangedMsg struct {
	Type    string `json:"type"`
	MatchID int64  `json:"match_id"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *MatchesPubSub) PublishMatchChanged(ctx context.Context, matchID int64) error {
	msg := matchChangedMsg{
		Type:    "match_changed",
		MatchID: matchID,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *MatchesPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, matchID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev matchChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.MatchID != 0 {
				handler(ctx, ev.MatchID)
			}
		}
	}
}
