// Package inventory expands a venue layout into the concrete seat
// records of a match. Generation is pure; persistence belongs to the
// match repository.
package inventory

import (
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
)

// Pricing is the two-tier price table. Tier 1 rows are premium, every
// other row sells at the standard price. Values come from configuration.
type Pricing struct {
	TierOneCents  int
	StandardCents int
}

// PriceFor returns the ticket price for a row tier.
func (p Pricing) PriceFor(tier int) int {
	if tier == 1 {
		return p.TierOneCents
	}
	return p.StandardCents
}

// Generate produces one vacant seat per (tier, seatNumber) pair of the
// venue layout: tierRows x seatsPerRow records, tiers and seat numbers
// starting at 1.
func Generate(venue domain.Venue, pricing Pricing) []domain.Seat {
	seats := make([]domain.Seat, 0, venue.Capacity())

	for tier := 1; tier <= venue.TierRows; tier++ {
		for number := 1; number <= venue.SeatsPerRow; number++ {
			seats = append(seats, domain.Seat{
				Tier:       tier,
				SeatNumber: number,
				PriceCents: pricing.PriceFor(tier),
				State:      domain.SeatVacant,
			})
		}
	}

	return seats
}
