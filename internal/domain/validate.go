package domain

import "errors"

var (
	ErrClubOutOfRange       = errors.New("club id out of range")
	ErrSameClubs            = errors.New("home team and away team must be different")
	ErrOfficialsNotDistinct = errors.New("linesmen must be distinct from each other and the referee")
	ErrOfficialsMissing     = errors.New("referee and two linesmen are required")
	ErrKickoffMissing       = errors.New("kickoff time is required")
	ErrLayoutInvalid        = errors.New("tier rows and seats per row must be at least 1")
)

// Validate checks the structural invariants of a match: both clubs in
// the league range and distinct, kickoff set, one referee plus two
// mutually distinct linesmen.
func (m Match) Validate() error {
	if m.HomeTeam < MinClubID || m.HomeTeam > MaxClubID ||
		m.AwayTeam < MinClubID || m.AwayTeam > MaxClubID {
		return ErrClubOutOfRange
	}

	if m.HomeTeam == m.AwayTeam {
		return ErrSameClubs
	}

	if m.Kickoff.IsZero() {
		return ErrKickoffMissing
	}

	if m.Referee == "" || m.LinesmanOne == "" || m.LinesmanTwo == "" {
		return ErrOfficialsMissing
	}

	if m.LinesmanOne == m.LinesmanTwo ||
		m.LinesmanOne == m.Referee ||
		m.LinesmanTwo == m.Referee {
		return ErrOfficialsNotDistinct
	}

	return nil
}

// Validate checks the venue layout invariants.
func (v Venue) Validate() error {
	if v.TierRows < 1 || v.SeatsPerRow < 1 {
		return ErrLayoutInvalid
	}
	return nil
}
