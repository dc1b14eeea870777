package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
)

type MatchRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *MatchRepo) With(db DB) *MatchRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *MatchRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const matchColumns = `id, venue_id, home_team, away_team, kickoff,
	referee, linesman_one, linesman_two, state, created_at`

func scanMatch(row pgx.Row, m *domain.Match) error {
	return row.Scan(
		&m.ID, &m.VenueID, &m.HomeTeam, &m.AwayTeam, &m.Kickoff,
		&m.Referee, &m.LinesmanOne, &m.LinesmanTwo, &m.State, &m.CreatedAt,
	)
}

// Get retrieves a match by ID. The lazy lifecycle transition runs
// first: a scheduled match whose kickoff has passed is persisted as
// completed before the row is read.
//
// Returns:
//   - error: repository.ErrNotFound if the match is not found.
func (r *MatchRepo) Get(ctx context.Context, id int64) (*domain.Match, error) {
	const op = "postgres.MatchRepo.Get"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`UPDATE matches
        	SET state = 'completed'
      	 WHERE id = $1 AND state = 'scheduled' AND kickoff <= now()`,
		id,
	); err != nil {
		return nil, wrapDBErr(op, err)
	}

	var m domain.Match
	if err := scanMatch(db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id,
	), &m); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &m, nil
}

// sweepCompleted persists the scheduled -> completed transition for
// every match past kickoff. Read-triggered, no background timer.
func (r *MatchRepo) sweepCompleted(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx,
		`UPDATE matches
        	SET state = 'completed'
      	 WHERE state = 'scheduled' AND kickoff <= now()`,
	)
	return err
}

// GetSummary retrieves a match with its venue and availability counters.
//
// Returns:
//   - error: repository.ErrNotFound if the match is not found.
func (r *MatchRepo) GetSummary(ctx context.Context, id int64) (*domain.MatchSummary, error) {
	const op = "postgres.MatchRepo.GetSummary"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`UPDATE matches
        	SET state = 'completed'
      	 WHERE id = $1 AND state = 'scheduled' AND kickoff <= now()`,
		id,
	); err != nil {
		return nil, wrapDBErr(op, err)
	}

	var s domain.MatchSummary
	err := db.QueryRow(ctx,
		`SELECT m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at,
		        v.id, v.name, v.tier_rows, v.seats_per_row, v.created_at,
		        COALESCE(SUM(CASE WHEN s.state = 'reserved' THEN 1 ELSE 0 END), 0),
		        COUNT(s.id)
		 FROM matches m
		 JOIN venues v ON v.id = m.venue_id
		 LEFT JOIN seats s ON s.match_id = m.id
		 WHERE m.id = $1
		 GROUP BY m.id, v.id`,
		id,
	).Scan(
		&s.ID, &s.VenueID, &s.HomeTeam, &s.AwayTeam, &s.Kickoff,
		&s.Referee, &s.LinesmanOne, &s.LinesmanTwo, &s.State, &s.CreatedAt,
		&s.Venue.ID, &s.Venue.Name, &s.Venue.TierRows, &s.Venue.SeatsPerRow, &s.Venue.CreatedAt,
		&s.ReservedSeats, &s.TotalSeats,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	s.AvailableSeats = s.TotalSeats - s.ReservedSeats

	return &s, nil
}

// ListSummaries lists all matches with venue and availability counters,
// soonest kickoff first.
func (r *MatchRepo) ListSummaries(ctx context.Context) ([]domain.MatchSummary, error) {
	const op = "postgres.MatchRepo.ListSummaries"

	db := r.handle()

	if err := r.sweepCompleted(ctx, db); err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at,
		        v.id, v.name, v.tier_rows, v.seats_per_row, v.created_at,
		        COALESCE(SUM(CASE WHEN s.state = 'reserved' THEN 1 ELSE 0 END), 0),
		        COUNT(s.id)
		 FROM matches m
		 JOIN venues v ON v.id = m.venue_id
		 LEFT JOIN seats s ON s.match_id = m.id
		 GROUP BY m.id, v.id
		 ORDER BY m.kickoff`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.MatchSummary
	for rows.Next() {
		var s domain.MatchSummary
		if err := rows.Scan(
			&s.ID, &s.VenueID, &s.HomeTeam, &s.AwayTeam, &s.Kickoff,
			&s.Referee, &s.LinesmanOne, &s.LinesmanTwo, &s.State, &s.CreatedAt,
			&s.Venue.ID, &s.Venue.Name, &s.Venue.TierRows, &s.Venue.SeatsPerRow, &s.Venue.CreatedAt,
			&s.ReservedSeats, &s.TotalSeats,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		s.AvailableSeats = s.TotalSeats - s.ReservedSeats
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Report lists all matches with reserved-seat counts and booking
// revenue (sum of reserved seat prices).
func (r *MatchRepo) Report(ctx context.Context) ([]domain.MatchReport, error) {
	const op = "postgres.MatchRepo.Report"

	db := r.handle()

	if err := r.sweepCompleted(ctx, db); err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT m.id, m.venue_id, m.home_team, m.away_team, m.kickoff,
		        m.referee, m.linesman_one, m.linesman_two, m.state, m.created_at,
		        v.id, v.name, v.tier_rows, v.seats_per_row, v.created_at,
		        COALESCE(SUM(CASE WHEN s.state = 'reserved' THEN 1 ELSE 0 END), 0),
		        COUNT(s.id),
		        COALESCE(SUM(CASE WHEN s.state = 'reserved' THEN s.price_cents ELSE 0 END), 0)
		 FROM matches m
		 JOIN venues v ON v.id = m.venue_id
		 LEFT JOIN seats s ON s.match_id = m.id
		 GROUP BY m.id, v.id
		 ORDER BY m.kickoff`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.MatchReport
	for rows.Next() {
		var rep domain.MatchReport
		if err := rows.Scan(
			&rep.ID, &rep.VenueID, &rep.HomeTeam, &rep.AwayTeam, &rep.Kickoff,
			&rep.Referee, &rep.LinesmanOne, &rep.LinesmanTwo, &rep.State, &rep.CreatedAt,
			&rep.Venue.ID, &rep.Venue.Name, &rep.Venue.TierRows, &rep.Venue.SeatsPerRow, &rep.Venue.CreatedAt,
			&rep.ReservedSeats, &rep.TotalSeats, &rep.RevenueCents,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Create inserts a match together with its generated seat inventory.
func (r *MatchRepo) Create(ctx context.Context, m domain.Match, seats []domain.Seat) (int64, error) {
	const op = "postgres.MatchRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO matches(venue_id, home_team, away_team, kickoff,
		                     referee, linesman_one, linesman_two, state)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled')
     	 RETURNING id`,
		m.VenueID, m.HomeTeam, m.AwayTeam, m.Kickoff,
		m.Referee, m.LinesmanOne, m.LinesmanTwo,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	if err := insertSeats(ctx, db, id, seats); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// Update rewrites the administrative match fields. Lifecycle state is
// never written here; only the lazy sweep moves it.
//
// Returns:
//   - error: repository.ErrNotFound if the match is not found.
func (r *MatchRepo) Update(ctx context.Context, m domain.Match) error {
	const op = "postgres.MatchRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE matches
        	SET venue_id = $2, home_team = $3, away_team = $4, kickoff = $5,
        	    referee = $6, linesman_one = $7, linesman_two = $8
      	 WHERE id = $1`,
		m.ID, m.VenueID, m.HomeTeam, m.AwayTeam, m.Kickoff,
		m.Referee, m.LinesmanOne, m.LinesmanTwo,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

// ReplaceSeats drops a match's seat inventory and bulk-inserts a fresh
// one. Callers must ensure no reservations exist for the match.
func (r *MatchRepo) ReplaceSeats(ctx context.Context, matchID int64, seats []domain.Seat) error {
	const op = "postgres.MatchRepo.ReplaceSeats"

	db := r.handle()

	if _, err := db.Exec(ctx, `DELETE FROM seats WHERE match_id = $1`, matchID); err != nil {
		return wrapDBErr(op, err)
	}

	if err := insertSeats(ctx, db, matchID, seats); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// HasReservations reports whether any reservation references the match.
func (r *MatchRepo) HasReservations(ctx context.Context, matchID int64) (bool, error) {
	const op = "postgres.MatchRepo.HasReservations"

	db := r.handle()

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE match_id = $1)`,
		matchID,
	).Scan(&exists); err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// Delete removes the whole match aggregate: reservation seat links,
// reservations, seats, then the match row. Meant to run inside one
// transaction via With.
//
// Returns:
//   - error: repository.ErrNotFound if the match is not found.
func (r *MatchRepo) Delete(ctx context.Context, matchID int64) error {
	const op = "postgres.MatchRepo.Delete"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`DELETE FROM reservation_seats
      	 WHERE reservation_id IN (SELECT id FROM reservations WHERE match_id = $1)`,
		matchID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	if _, err := db.Exec(ctx, `DELETE FROM reservations WHERE match_id = $1`, matchID); err != nil {
		return wrapDBErr(op, err)
	}

	if _, err := db.Exec(ctx, `DELETE FROM seats WHERE match_id = $1`, matchID); err != nil {
		return wrapDBErr(op, err)
	}

	tag, err := db.Exec(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func insertSeats(ctx context.Context, db DB, matchID int64, seats []domain.Seat) error {
	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seats(match_id, tier, seat_number, price_cents, state)
         	 VALUES ($1, $2, $3, $4, $5)`,
			matchID, s.Tier, s.SeatNumber, s.PriceCents, s.State,
		)
	}

	return db.SendBatch(ctx, batch).Close()
}
