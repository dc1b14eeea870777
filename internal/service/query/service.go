// Package query serves the public read paths, with redis caching in
// front of the store.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
	postgresrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	redisrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
)

type Config struct {
	MatchSummaryTTL time.Duration
	MatchListTTL    time.Duration
	SeatsTTL        time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.MatchSummaryTTL <= 0 {
		cfg.MatchSummaryTTL = 60 * time.Second
	}

	if cfg.MatchListTTL <= 0 {
		cfg.MatchListTTL = 15 * time.Second
	}

	if cfg.SeatsTTL <= 0 {
		cfg.SeatsTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetMatch retrieves a match summary (venue + availability counters)
// through the cache.
//
// Returns:
//   - error: query.ErrMatchNotFound if the match is not found.
func (s *Service) GetMatch(ctx context.Context, id int64) (*domain.MatchSummary, error) {
	const op = "service.query.GetMatch"

	key := redisrepo.KeyMatchSummary(id)

	sum, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.MatchSummaryTTL,
		func(ctx context.Context) (domain.MatchSummary, error) {
			m, err := s.store.Matches().GetSummary(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.MatchSummary{}, ErrMatchNotFound
				}

				return domain.MatchSummary{}, err
			}

			return *m, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrMatchNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sum, nil
}

// ListMatches lists all matches with availability counters, soonest
// kickoff first.
func (s *Service) ListMatches(ctx context.Context) ([]domain.MatchSummary, error) {
	const op = "service.query.ListMatches"

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyMatchList(),
		s.cfg.MatchListTTL,
		func(ctx context.Context) ([]domain.MatchSummary, error) {
			return s.store.Matches().ListSummaries(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ListSeats lists a match's seat inventory ordered by tier and number.
//
// Returns:
//   - error: query.ErrMatchNotFound if the match is not found.
func (s *Service) ListSeats(ctx context.Context, matchID int64) ([]domain.Seat, error) {
	const op = "service.query.ListSeats"

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyMatchSeats(matchID),
		s.cfg.SeatsTTL,
		func(ctx context.Context) ([]domain.Seat, error) {
			seats, err := s.store.Query().ListSeats(ctx, matchID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrMatchNotFound
				}

				return nil, err
			}

			return seats, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrMatchNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
