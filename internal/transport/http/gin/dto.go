package httpgin

import "time"

type BookRequest struct {
	MatchID int64   `json:"match_id" binding:"required"`
	SeatIDs []int64 `json:"seat_ids" binding:"required,min=1,dive,required"`
}

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required"`
	TierRows    int    `json:"tier_rows" binding:"required,gte=1"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,gte=1"`
}

type UpdateVenueRequest struct {
	Name        string `json:"name" binding:"required"`
	TierRows    int    `json:"tier_rows" binding:"required,gte=1"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,gte=1"`
}

type CreateMatchRequest struct {
	VenueID  int64    `json:"venue_id" binding:"required"`
	HomeTeam int      `json:"home_team" binding:"required,gte=1,lte=18"`
	AwayTeam int      `json:"away_team" binding:"required,gte=1,lte=18"`
	Kickoff  string   `json:"kickoff" binding:"required"`
	Referee  string   `json:"referee" binding:"required"`
	Linesmen []string `json:"linesmen" binding:"required,len=2,dive,required"`
}

type UpdateMatchRequest struct {
	VenueID  *int64   `json:"venue_id"`
	HomeTeam *int     `json:"home_team"`
	AwayTeam *int     `json:"away_team"`
	Kickoff  *string  `json:"kickoff"`
	Referee  *string  `json:"referee"`
	Linesmen []string `json:"linesmen"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
