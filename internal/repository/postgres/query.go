package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
)

type QueryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ListSeats lists a match's seats ordered by (tier, seat_number).
//
// Returns:
//   - error: repository.ErrNotFound if the match does not exist.
func (r *QueryRepo) ListSeats(ctx context.Context, matchID int64) ([]domain.Seat, error) {
	const op = "postgres.QueryRepo.ListSeats"

	db := r.handle()

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`,
		matchID,
	).Scan(&exists); err != nil {
		return nil, wrapDBErr(op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	rows, err := db.Query(ctx,
		`SELECT id, match_id, tier, seat_number, price_cents, state
       	 FROM seats
      	 WHERE match_id = $1
      	 ORDER BY tier, seat_number`,
		matchID,
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

	return out, nil
}

// ReservationDetails resolves a reservation with its match, venue and
// current seats.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is absent.
func (r *QueryRepo) ReservationDetails(ctx context.Context, id uuid.UUID) (*domain.ReservationDetails, error) {
	const op = "postgres.QueryRepo.ReservationDetails"

	db := r.handle()

	var d domain.ReservationDetails
	err := db.QueryRow(ctx,
		`SELECT r.id, r.match_id, r.user_id, r.total_cents, r.created_at,
		        m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at,
		        v.id, v.name, v.tier_rows, v.seats_per_row, v.created_at
       	 FROM reservations r
       	 JOIN matches m ON m.id = r.match_id
       	 JOIN venues v ON v.id = m.venue_id
      	 WHERE r.id = $1`,
		id,
	).Scan(
		&d.Reservation.ID, &d.Reservation.MatchID, &d.Reservation.UserID,
		&d.Reservation.TotalCents, &d.Reservation.CreatedAt,
		&d.Match.ID, &d.Match.VenueID, &d.Match.HomeTeam, &d.Match.AwayTeam, &d.Match.Kickoff,
		&d.Match.Referee, &d.Match.LinesmanOne, &d.Match.LinesmanTwo, &d.Match.State, &d.Match.CreatedAt,
		&d.Venue.ID, &d.Venue.Name, &d.Venue.TierRows, &d.Venue.SeatsPerRow, &d.Venue.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	seats, err := r.reservationSeats(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.Seats = seats

	return &d, nil
}

// ListUserReservations resolves all of a holder's reservations, newest
// first.
func (r *QueryRepo) ListUserReservations(ctx context.Context, userID int64) ([]domain.ReservationDetails, error) {
	const op = "postgres.QueryRepo.ListUserReservations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT r.id, r.match_id, r.user_id, r.total_cents, r.created_at,
		        m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at,
		        v.id, v.name, v.tier_rows, v.seats_per_row, v.created_at
       	 FROM reservations r
       	 JOIN matches m ON m.id = r.match_id
       	 JOIN venues v ON v.id = m.venue_id
      	 WHERE r.user_id = $1
      	 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.ReservationDetails
	for rows.Next() {
		var d domain.ReservationDetails
		if err := rows.Scan(
			&d.Reservation.ID, &d.Reservation.MatchID, &d.Reservation.UserID,
			&d.Reservation.TotalCents, &d.Reservation.CreatedAt,
			&d.Match.ID, &d.Match.VenueID, &d.Match.HomeTeam, &d.Match.AwayTeam, &d.Match.Kickoff,
			&d.Match.Referee, &d.Match.LinesmanOne, &d.Match.LinesmanTwo, &d.Match.State, &d.Match.CreatedAt,
			&d.Venue.ID, &d.Venue.Name, &d.Venue.TierRows, &d.Venue.SeatsPerRow, &d.Venue.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	for i := range out {
		seats, err := r.reservationSeats(ctx, db, out[i].Reservation.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[i].Seats = seats
	}

	return out, nil
}

func (r *QueryRepo) reservationSeats(ctx context.Context, db DB, reservationID uuid.UUID) ([]domain.Seat, error) {
	const op = "postgres.QueryRepo.reservationSeats"

	rows, err := db.Query(ctx,
		`SELECT s.id, s.match_id, s.tier, s.seat_number, s.price_cents, s.state
       	 FROM reservation_seats rs
       	 JOIN seats s ON s.id = rs.seat_id
      	 WHERE rs.reservation_id = $1
      	 ORDER BY s.tier, s.seat_number`,
		reservationID,
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

	return out, nil
}
