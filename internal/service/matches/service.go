// Package matches owns the match lifecycle and the administrative CRUD
// around it, including seat inventory generation on create and on
// venue-changing edits.
package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/inventory"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
	postgresrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	redisrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/uow"
)

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.MatchesPubSub
	uow     *uow.UoW
	pricing inventory.Pricing
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.MatchesPubSub,
	pricing inventory.Pricing,
) *Service {
	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		uow:     uow.NewUoW(store),
		pricing: pricing,
	}
}

type CreateMatchInput struct {
	VenueID     int64
	HomeTeam    int
	AwayTeam    int
	Kickoff     time.Time
	Referee     string
	LinesmanOne string
	LinesmanTwo string
}

// Create validates the match, generates its full seat inventory from
// the venue layout and persists both in one transaction.
//
// Returns:
//   - error: matches.ErrInvalid on a validation failure.
//   - error: matches.ErrVenueNotFound if the venue does not exist.
func (s *Service) Create(ctx context.Context, in CreateMatchInput) (*domain.MatchSummary, error) {
	const op = "service.matches.Create"

	m := domain.Match{
		VenueID:     in.VenueID,
		HomeTeam:    in.HomeTeam,
		AwayTeam:    in.AwayTeam,
		Kickoff:     in.Kickoff,
		Referee:     in.Referee,
		LinesmanOne: in.LinesmanOne,
		LinesmanTwo: in.LinesmanTwo,
		State:       domain.MatchScheduled,
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalid, err)
	}

	var matchID int64

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		venue, err := s.store.Venues().With(tx).Get(ctx, in.VenueID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		seats := inventory.Generate(*venue, s.pricing)

		matchID, err = s.store.Matches().With(tx).Create(ctx, m, seats)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateMatch(ctx, matchID)
			_ = s.pubsub.PublishMatchChanged(ctx, matchID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.summary(ctx, matchID)
}

// UpdateMatchInput carries optional new values; nil fields keep the
// stored value.
type UpdateMatchInput struct {
	VenueID     *int64
	HomeTeam    *int
	AwayTeam    *int
	Kickoff     *time.Time
	Referee     *string
	LinesmanOne *string
	LinesmanTwo *string
}

// Update edits a match that is still scheduled and not yet started.
// A venue change regenerates the seat inventory against the new layout
// and is rejected while any reservation for the match exists.
//
// Returns:
//   - error: matches.ErrMatchNotFound, matches.ErrMatchFrozen,
//     matches.ErrHasReservations, matches.ErrVenueNotFound,
//     matches.ErrInvalid.
func (s *Service) Update(ctx context.Context, matchID int64, in UpdateMatchInput) (*domain.MatchSummary, error) {
	const op = "service.matches.Update"

	now := time.Now()

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		m, err := s.store.Matches().With(tx).Get(ctx, matchID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrMatchNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		// The time comparison backstops a stale stored state.
		if m.State == domain.MatchCompleted || m.Started(now) {
			return fmt.Errorf("%s: %w", op, ErrMatchFrozen)
		}

		oldVenueID := m.VenueID
		applyUpdate(m, in)

		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s: %w: %s", op, ErrInvalid, err)
		}

		if m.VenueID != oldVenueID {
			booked, err := s.store.Matches().With(tx).HasReservations(ctx, matchID)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			if booked {
				return fmt.Errorf("%s: %w", op, ErrHasReservations)
			}

			venue, err := s.store.Venues().With(tx).Get(ctx, m.VenueID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
				}

				return fmt.Errorf("%s: %w", op, err)
			}

			seats := inventory.Generate(*venue, s.pricing)

			if err := s.store.Matches().With(tx).ReplaceSeats(ctx, matchID, seats); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		if err := s.store.Matches().With(tx).Update(ctx, *m); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateMatch(ctx, matchID)
			_ = s.pubsub.PublishMatchChanged(ctx, matchID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.summary(ctx, matchID)
}

// Delete removes a match and its whole aggregate (seats, reservations)
// in one transaction. Completed or already started matches cannot be
// deleted.
//
// Returns:
//   - error: matches.ErrMatchNotFound, matches.ErrMatchFrozen.
func (s *Service) Delete(ctx context.Context, matchID int64) error {
	const op = "service.matches.Delete"

	now := time.Now()

	return s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		m, err := s.store.Matches().With(tx).Get(ctx, matchID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrMatchNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		if m.State == domain.MatchCompleted || m.Started(now) {
			return fmt.Errorf("%s: %w", op, ErrMatchFrozen)
		}

		if err := s.store.Matches().With(tx).Delete(ctx, matchID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateMatch(ctx, matchID)
			_ = s.pubsub.PublishMatchChanged(ctx, matchID)
		})

		return nil
	})
}

// Report lists every match with reserved-seat counts and revenue.
func (s *Service) Report(ctx context.Context) ([]domain.MatchReport, error) {
	const op = "service.matches.Report"

	out, err := s.store.Matches().Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) summary(ctx context.Context, matchID int64) (*domain.MatchSummary, error) {
	const op = "service.matches.summary"

	sum, err := s.store.Matches().GetSummary(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

func applyUpdate(m *domain.Match, in UpdateMatchInput) {
	if in.VenueID != nil {
		m.VenueID = *in.VenueID
	}
	if in.HomeTeam != nil {
		m.HomeTeam = *in.HomeTeam
	}
	if in.AwayTeam != nil {
		m.AwayTeam = *in.AwayTeam
	}
	if in.Kickoff != nil {
		m.Kickoff = *in.Kickoff
	}
	if in.Referee != nil {
		m.Referee = *in.Referee
	}
	if in.LinesmanOne != nil {
		m.LinesmanOne = *in.LinesmanOne
	}
	if in.LinesmanTwo != nil {
		m.LinesmanTwo = *in.LinesmanTwo
	}
}
