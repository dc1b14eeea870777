package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchState string

const (
	MatchScheduled MatchState = "scheduled"
	MatchCompleted MatchState = "completed"
)

type SeatState string

const (
	SeatVacant   SeatState = "vacant"
	SeatReserved SeatState = "reserved"
)

// Club IDs are league-assigned and bounded.
const (
	MinClubID = 1
	MaxClubID = 18
)

type Venue struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TierRows    int       `json:"tier_rows"`
	SeatsPerRow int       `json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`
}

// Capacity is the number of seats a single match at this venue carries.
func (v Venue) Capacity() int {
	return v.TierRows * v.SeatsPerRow
}

type Match struct {
	ID          int64      `json:"id"`
	VenueID     int64      `json:"venue_id"`
	HomeTeam    int        `json:"home_team"`
	AwayTeam    int        `json:"away_team"`
	Kickoff     time.Time  `json:"kickoff"`
	Referee     string     `json:"referee"`
	LinesmanOne string     `json:"linesman_one"`
	LinesmanTwo string     `json:"linesman_two"`
	State       MatchState `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Bookable reports whether seats of this match can still be claimed.
// The time comparison is authoritative: a match past kickoff is not
// bookable even if the stored state has not been swept to completed yet.
func (m Match) Bookable(now time.Time) bool {
	return m.State == MatchScheduled && m.Kickoff.After(now)
}

// Started reports whether kickoff has passed.
func (m Match) Started(now time.Time) bool {
	return !m.Kickoff.After(now)
}

type Seat struct {
	ID         int64     `json:"id"`
	MatchID    int64     `json:"match_id"`
	Tier       int       `json:"tier"`
	SeatNumber int       `json:"seat_number"`
	PriceCents int       `json:"price_cents"`
	State      SeatState `json:"state"`
}

type Reservation struct {
	ID         uuid.UUID `json:"id"`
	MatchID    int64     `json:"match_id"`
	UserID     int64     `json:"user_id"`
	TotalCents int       `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchSummary is a match with its venue and seat availability counters.
type MatchSummary struct {
	Match
	Venue          Venue `json:"venue"`
	ReservedSeats  int64 `json:"reserved_seats"`
	TotalSeats     int64 `json:"total_seats"`
	AvailableSeats int64 `json:"available_seats"`
}

// MatchReport extends the summary with booking revenue, for managers.
type MatchReport struct {
	Match
	Venue         Venue `json:"venue"`
	ReservedSeats int64 `json:"reserved_seats"`
	TotalSeats    int64 `json:"total_seats"`
	RevenueCents  int64 `json:"revenue_cents"`
}

// ReservationDetails is a reservation resolved with its match, the
// match's venue and the currently held seats.
type ReservationDetails struct {
	Reservation
	Match Match  `json:"match"`
	Venue Venue  `json:"venue"`
	Seats []Seat `json:"seats"`
}
