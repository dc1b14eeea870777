// Package booking is the reservation transaction manager: the only
// code path that claims and releases seats, and the sole owner of
// reservation total arithmetic.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/monitoring"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
	postgresrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	redisrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/uow"
)

type Config struct {
	// MaxSeatsPerBooking caps a single booking request.
	MaxSeatsPerBooking int
	// ClaimRetries bounds transparent retries of serialization
	// failures before the conflict is surfaced to the caller.
	ClaimRetries int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.MatchesPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.MatchesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.MaxSeatsPerBooking <= 0 {
		cfg.MaxSeatsPerBooking = 10
	}

	if cfg.ClaimRetries <= 0 {
		cfg.ClaimRetries = 3
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// Book atomically claims seatIDs of a match for a user and creates the
// reservation. The whole claim is all-or-nothing: when any requested
// seat is already reserved, no seat changes state. Of two concurrent
// bookings with overlapping seat sets at most one succeeds.
//
// Returns:
//   - error: booking.ErrMatchNotFound, booking.ErrMatchNotBookable,
//     booking.ErrSeatsNotFound, booking.ErrSeatsUnavailable,
//     booking.ErrRateLimited, booking.ErrBookingConflict.
func (s *Service) Book(
	ctx context.Context,
	userID, matchID int64,
	seatIDs []int64,
	rlKey string,
) (*domain.ReservationDetails, error) {
	const op = "service.booking.Book"

	seatIDs = dedupe(seatIDs)

	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSeatsSelected)
	}

	if len(seatIDs) > s.cfg.MaxSeatsPerBooking {
		return nil, fmt.Errorf("%s: %w", op, ErrTooManySeats)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	var reservationID uuid.UUID

	var err error
	for attempt := 0; attempt < s.cfg.ClaimRetries; attempt++ {
		reservationID, err = s.bookOnce(ctx, userID, matchID, seatIDs)
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		if postgresrepo.IsRetryable(err) {
			monitoring.ObserveBooking("conflict", 0)
			return nil, fmt.Errorf("%s: %w", op, ErrBookingConflict)
		}

		if errors.Is(err, ErrSeatsUnavailable) {
			monitoring.ObserveClaimConflict()
		}

		monitoring.ObserveBooking("rejected", 0)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	monitoring.ObserveBooking("success", len(seatIDs))

	details, err := s.store.Query().ReservationDetails(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (s *Service) bookOnce(
	ctx context.Context,
	userID, matchID int64,
	seatIDs []int64,
) (uuid.UUID, error) {
	const op = "service.booking.bookOnce"

	reservationID := uuid.New()
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

		if !m.Bookable(now) {
			return fmt.Errorf("%s: %w", op, ErrMatchNotBookable)
		}

		seats, err := s.store.Booking().With(tx).SeatsForBooking(ctx, matchID, seatIDs)
		if err != nil {
			if errors.Is(err, repository.ErrSeatsNotFound) {
				return fmt.Errorf("%s: %w", op, ErrSeatsNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.store.Booking().With(tx).ClaimSeats(ctx, matchID, seatIDs); err != nil {
			if errors.Is(err, repository.ErrSeatsUnavailable) {
				return fmt.Errorf("%s: %w", op, ErrSeatsUnavailable)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		// Server-computed; any client-supplied total is ignored.
		totalCents := 0
		for _, seat := range seats {
			totalCents += seat.PriceCents
		}

		if err := s.store.Booking().With(tx).CreateReservation(
			ctx, reservationID, matchID, userID, totalCents, seatIDs,
		); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateMatch(ctx, matchID)
			_ = s.pubsub.PublishMatchChanged(ctx, matchID)
		})

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return reservationID, nil
}

// CancelSeat removes one seat from a reservation, frees it and
// re-derives the total. When the last seat is removed the reservation
// itself is deleted and removed=true is returned with a nil details.
// Removing a seat that is not part of the reservation is a no-op: the
// unchanged reservation is returned.
//
// Returns:
//   - error: booking.ErrReservationNotFound, booking.ErrForbidden,
//     booking.ErrMatchStarted.
func (s *Service) CancelSeat(
	ctx context.Context,
	userID int64,
	reservationID uuid.UUID,
	seatID int64,
) (details *domain.ReservationDetails, removed bool, err error) {
	const op = "service.booking.CancelSeat"

	now := time.Now()

	var matchID int64
	var deleted bool

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		res, m, err := s.store.Booking().With(tx).GetReservation(ctx, reservationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrReservationNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		if res.UserID != userID {
			return fmt.Errorf("%s: %w", op, ErrForbidden)
		}

		if m.Started(now) {
			return fmt.Errorf("%s: %w", op, ErrMatchStarted)
		}

		matchID = m.ID

		released, err := s.store.Booking().With(tx).ReleaseSeat(ctx, reservationID, seatID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		totalCents, seatCount, err := s.store.Booking().With(tx).RederiveTotal(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if seatCount == 0 {
			if err := s.store.Booking().With(tx).DeleteReservation(ctx, reservationID); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			deleted = true
		} else if err := s.store.Booking().With(tx).UpdateTotal(ctx, reservationID, totalCents); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if released {
			after(func(ctx context.Context) {
				monitoring.ObserveCancellation()
				_ = s.cache.InvalidateMatch(ctx, matchID)
				_ = s.pubsub.PublishMatchChanged(ctx, matchID)
			})
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if deleted {
		return nil, true, nil
	}

	details, err = s.store.Query().ReservationDetails(ctx, reservationID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return details, false, nil
}

// ListReservations resolves all of a holder's reservations with match,
// venue and seats, newest first.
func (s *Service) ListReservations(ctx context.Context, userID int64) ([]domain.ReservationDetails, error) {
	const op = "service.booking.ListReservations"

	out, err := s.store.Query().ListUserReservations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
