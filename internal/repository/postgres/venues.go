package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
)

type VenueRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *VenueRepo) With(db DB) *VenueRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *VenueRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a venue and returns its ID.
//
// Returns:
//   - error: repository.ErrConflict if a venue with the same name exists.
func (r *VenueRepo) Create(ctx context.Context, v domain.Venue) (int64, error) {
	const op = "postgres.VenueRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO venues(name, tier_rows, seats_per_row)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		v.Name, v.TierRows, v.SeatsPerRow,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// Get retrieves a venue by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the venue is not found.
func (r *VenueRepo) Get(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "postgres.VenueRepo.Get"

	db := r.handle()

	var v domain.Venue
	err := db.QueryRow(ctx,
		`SELECT id, name, tier_rows, seats_per_row, created_at
       	 FROM venues WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.TierRows, &v.SeatsPerRow, &v.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

func (r *VenueRepo) List(ctx context.Context) ([]domain.Venue, error) {
	const op = "postgres.VenueRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, tier_rows, seats_per_row, created_at
		 FROM venues
		 ORDER BY name`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.TierRows, &v.SeatsPerRow, &v.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Update rewrites the mutable venue fields.
//
// Returns:
//   - error: repository.ErrNotFound if the venue is not found.
//   - error: repository.ErrConflict on a name collision.
func (r *VenueRepo) Update(ctx context.Context, v domain.Venue) error {
	const op = "postgres.VenueRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE venues
        	SET name = $2, tier_rows = $3, seats_per_row = $4
      	 WHERE id = $1`,
		v.ID, v.Name, v.TierRows, v.SeatsPerRow,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

// Delete removes a venue record.
//
// Returns:
//   - error: repository.ErrNotFound if the venue is not found.
//   - error: repository.ErrConflict if matches still reference it.
func (r *VenueRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgres.VenueRepo.Delete"

	db := r.handle()

	var referenced bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE venue_id = $1)`,
		id,
	).Scan(&referenced); err != nil {
		return wrapDBErr(op, err)
	}

	if referenced {
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	tag, err := db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}
