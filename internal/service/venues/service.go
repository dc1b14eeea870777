// Package venues is the thin record-management surface around venue
// layouts. The booking core only ever reads these records.
package venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository"
	postgresrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	uow   *uow.UoW
}

func New(store *postgresrepo.Store) *Service {
	return &Service{
		store: store,
		uow:   uow.NewUoW(store),
	}
}

// Create validates and persists a venue layout.
//
// Returns:
//   - error: venues.ErrInvalid on a layout violation.
//   - error: venues.ErrNameTaken on a duplicate name.
func (s *Service) Create(ctx context.Context, v domain.Venue) (*domain.Venue, error) {
	const op = "service.venues.Create"

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalid, err)
	}

	var id int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Venues().With(tx).Create(ctx, v)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrNameTaken)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, op, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "service.venues.Get"
	return s.get(ctx, op, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Venue, error) {
	const op = "service.venues.List"

	out, err := s.store.Venues().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Update rewrites a venue layout. Matches that already generated their
// inventory from the old layout are unaffected; only future matches
// pick up the new grid.
//
// Returns:
//   - error: venues.ErrVenueNotFound, venues.ErrNameTaken,
//     venues.ErrInvalid.
func (s *Service) Update(ctx context.Context, v domain.Venue) (*domain.Venue, error) {
	const op = "service.venues.Update"

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalid, err)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Venues().With(tx).Update(ctx, v); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
			}
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrNameTaken)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, op, v.ID)
}

// Delete removes an unreferenced venue.
//
// Returns:
//   - error: venues.ErrVenueNotFound, venues.ErrVenueInUse.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "service.venues.Delete"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Venues().With(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
			}
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrVenueInUse)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Venue, error) {
	v, err := s.store.Venues().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrVenueNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}
