package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
)

// BookingRepo owns every vacant <-> reserved seat transition and all
// reservation total arithmetic. Nothing else writes those columns.
type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// SeatsForBooking loads exactly the requested seats belonging to the
// match. A shorter result than seatIDs means some seats do not exist or
// belong to another match.
//
// Returns:
//   - error: repository.ErrSeatsNotFound on a count mismatch.
func (r *BookingRepo) SeatsForBooking(
	ctx context.Context,
	matchID int64,
	seatIDs []int64,
) ([]domain.Seat, error) {
	const op = "postgres.BookingRepo.SeatsForBooking"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, match_id, tier, seat_number, price_cents, state
       	 FROM seats
      	 WHERE id = ANY($1) AND match_id = $2`,
		seatIDs, matchID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.MatchID, &s.Tier, &s.SeatNumber, &s.PriceCents, &s.State); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	if len(out) != len(seatIDs) {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrSeatsNotFound)
	}

	return out, nil
}

// ClaimSeats flips the requested seats from vacant to reserved in one
// conditional bulk update. The claim succeeds only if every requested
// seat was still vacant: a rows-affected mismatch aborts the enclosing
// transaction, so the flip is all-or-nothing.
//
// Returns:
//   - error: repository.ErrSeatsUnavailable when any seat was taken.
func (r *BookingRepo) ClaimSeats(ctx context.Context, matchID int64, seatIDs []int64) error {
	const op = "postgres.BookingRepo.ClaimSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE seats
        	SET state = 'reserved'
      	 WHERE id = ANY($1)
        	AND match_id = $2
        	AND state = 'vacant'`,
		seatIDs, matchID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if int(tag.RowsAffected()) != len(seatIDs) {
		return fmt.Errorf("%s: %w", op, repository.ErrSeatsUnavailable)
	}

	return nil
}

// CreateReservation persists the reservation row and its seat links.
func (r *BookingRepo) CreateReservation(
	ctx context.Context,
	id uuid.UUID,
	matchID int64,
	userID int64,
	totalCents int,
	seatIDs []int64,
) error {
	const op = "postgres.BookingRepo.CreateReservation"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO reservations(id, match_id, user_id, total_cents)
       	 VALUES ($1, $2, $3, $4)`,
		id, matchID, userID, totalCents,
	); err != nil {
		return wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for _, sid := range seatIDs {
		batch.Queue(
			`INSERT INTO reservation_seats(reservation_id, seat_id)
         	 VALUES ($1, $2)`,
			id, sid,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetReservation loads a reservation together with its match.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is absent.
func (r *BookingRepo) GetReservation(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Reservation, *domain.Match, error) {
	const op = "postgres.BookingRepo.GetReservation"

	db := r.handle()

	var res domain.Reservation
	var m domain.Match

	err := db.QueryRow(ctx,
		`SELECT r.id, r.match_id, r.user_id, r.total_cents, r.created_at,
		        m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at
       	 FROM reservations r
       	 JOIN matches m ON m.id = r.match_id
      	 WHERE r.id = $1`,
		id,
	).Scan(
		&res.ID, &res.MatchID, &res.UserID, &res.TotalCents, &res.CreatedAt,
		&m.ID, &m.VenueID, &m.HomeTeam, &m.AwayTeam, &m.Kickoff,
		&m.Referee, &m.LinesmanOne, &m.LinesmanTwo, &m.State, &m.CreatedAt,
	)
	if err != nil {
		return nil, nil, wrapDBErr(op, err)
	}

	return &res, &m, nil
}

// ReleaseSeat detaches a seat from the reservation and, when it was
// attached, flips it back to vacant. Returns whether the seat was
// actually part of the reservation; a missing link is a no-op.
func (r *BookingRepo) ReleaseSeat(
	ctx context.Context,
	reservationID uuid.UUID,
	seatID int64,
) (bool, error) {
	const op = "postgres.BookingRepo.ReleaseSeat"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`DELETE FROM reservation_seats
      	 WHERE reservation_id = $1 AND seat_id = $2`,
		reservationID, seatID,
	)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := db.Exec(ctx,
		`UPDATE seats SET state = 'vacant' WHERE id = $1 AND state = 'reserved'`,
		seatID,
	); err != nil {
		return false, wrapDBErr(op, err)
	}

	return true, nil
}

// RederiveTotal recomputes the reservation total from its current seat
// set. The total is always re-derived, never decremented from client
// state, so concurrent double-submits of the same cancellation cannot
// drift it.
func (r *BookingRepo) RederiveTotal(
	ctx context.Context,
	reservationID uuid.UUID,
) (totalCents int, seatCount int, err error) {
	const op = "postgres.BookingRepo.RederiveTotal"

	db := r.handle()

	err = db.QueryRow(ctx,
		`SELECT COALESCE(SUM(s.price_cents), 0), COUNT(s.id)
       	 FROM reservation_seats rs
       	 JOIN seats s ON s.id = rs.seat_id
      	 WHERE rs.reservation_id = $1`,
		reservationID,
	).Scan(&totalCents, &seatCount)
	if err != nil {
		return 0, 0, wrapDBErr(op, err)
	}

	return totalCents, seatCount, nil
}

// UpdateTotal persists a re-derived total.
func (r *BookingRepo) UpdateTotal(ctx context.Context, reservationID uuid.UUID, totalCents int) error {
	const op = "postgres.BookingRepo.UpdateTotal"

	if _, err := r.handle().Exec(ctx,
		`UPDATE reservations SET total_cents = $2 WHERE id = $1`,
		reservationID, totalCents,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// DeleteReservation removes a reservation whose seat set became empty.
func (r *BookingRepo) DeleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	const op = "postgres.BookingRepo.DeleteReservation"

	if _, err := r.handle().Exec(ctx,
		`DELETE FROM reservations WHERE id = $1`,
		reservationID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
