package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
)

func TestGenerate(t *testing.T) {
	pricing := Pricing{TierOneCents: 10000, StandardCents: 5000}

	t.Run("expands the full layout", func(t *testing.T) {
		venue := domain.Venue{TierRows: 3, SeatsPerRow: 10}

		seats := Generate(venue, pricing)
		require.Len(t, seats, 30)

		// tier-major order, both coordinates starting at 1
		assert.Equal(t, 1, seats[0].Tier)
		assert.Equal(t, 1, seats[0].SeatNumber)
		assert.Equal(t, 1, seats[9].Tier)
		assert.Equal(t, 10, seats[9].SeatNumber)
		assert.Equal(t, 2, seats[10].Tier)
		assert.Equal(t, 1, seats[10].SeatNumber)
		assert.Equal(t, 3, seats[29].Tier)
		assert.Equal(t, 10, seats[29].SeatNumber)
	})

	t.Run("tier one is premium, everything else standard", func(t *testing.T) {
		venue := domain.Venue{TierRows: 3, SeatsPerRow: 2}

		for _, s := range Generate(venue, pricing) {
			if s.Tier == 1 {
				assert.Equal(t, 10000, s.PriceCents)
			} else {
				assert.Equal(t, 5000, s.PriceCents)
			}
		}
	})

	t.Run("all seats start vacant", func(t *testing.T) {
		venue := domain.Venue{TierRows: 2, SeatsPerRow: 5}

		for _, s := range Generate(venue, pricing) {
			assert.Equal(t, domain.SeatVacant, s.State)
		}
	})

	t.Run("no coordinate repeats", func(t *testing.T) {
		venue := domain.Venue{TierRows: 4, SeatsPerRow: 7}

		seen := make(map[[2]int]bool)
		for _, s := range Generate(venue, pricing) {
			key := [2]int{s.Tier, s.SeatNumber}
			require.False(t, seen[key], "duplicate seat %v", key)
			seen[key] = true
		}
		assert.Len(t, seen, venue.Capacity())
	})
}

func TestPriceFor(t *testing.T) {
	pricing := Pricing{TierOneCents: 12345, StandardCents: 678}

	assert.Equal(t, 12345, pricing.PriceFor(1))
	assert.Equal(t, 678, pricing.PriceFor(2))
	assert.Equal(t, 678, pricing.PriceFor(9))
}
