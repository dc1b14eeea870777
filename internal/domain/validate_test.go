package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validMatch() Match {
	return Match{
		VenueID:     1,
		HomeTeam:    1,
		AwayTeam:    2,
		Kickoff:     time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
		Referee:     "Ref",
		LinesmanOne: "L1",
		LinesmanTwo: "L2",
		State:       MatchScheduled,
	}
}

func TestMatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Match)
		wantErr error
	}{
		{"valid", func(m *Match) {}, nil},
		{"home team below range", func(m *Match) { m.HomeTeam = 0 }, ErrClubOutOfRange},
		{"away team above range", func(m *Match) { m.AwayTeam = 19 }, ErrClubOutOfRange},
		{"same clubs", func(m *Match) { m.AwayTeam = m.HomeTeam }, ErrSameClubs},
		{"zero kickoff", func(m *Match) { m.Kickoff = time.Time{} }, ErrKickoffMissing},
		{"missing referee", func(m *Match) { m.Referee = "" }, ErrOfficialsMissing},
		{"missing linesman", func(m *Match) { m.LinesmanTwo = "" }, ErrOfficialsMissing},
		{"duplicate linesmen", func(m *Match) { m.LinesmanTwo = m.LinesmanOne }, ErrOfficialsNotDistinct},
		{"linesman doubles as referee", func(m *Match) { m.LinesmanOne = m.Referee }, ErrOfficialsNotDistinct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMatch()
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestVenueValidate(t *testing.T) {
	assert.NoError(t, Venue{Name: "Cairo", TierRows: 1, SeatsPerRow: 1}.Validate())
	assert.ErrorIs(t, Venue{TierRows: 0, SeatsPerRow: 5}.Validate(), ErrLayoutInvalid)
	assert.ErrorIs(t, Venue{TierRows: 5, SeatsPerRow: 0}.Validate(), ErrLayoutInvalid)
}

func TestMatchBookable(t *testing.T) {
	now := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	m := validMatch()
	m.Kickoff = now.Add(time.Hour)
	assert.True(t, m.Bookable(now))
	assert.False(t, m.Started(now))

	// kickoff passed: not bookable even while the stored state is stale
	m.Kickoff = now.Add(-time.Minute)
	assert.False(t, m.Bookable(now))
	assert.True(t, m.Started(now))

	// exactly at kickoff counts as started
	m.Kickoff = now
	assert.False(t, m.Bookable(now))
	assert.True(t, m.Started(now))

	m.Kickoff = now.Add(time.Hour)
	m.State = MatchCompleted
	assert.False(t, m.Bookable(now))
}

func TestVenueCapacity(t *testing.T) {
	assert.Equal(t, 30, Venue{TierRows: 3, SeatsPerRow: 10}.Capacity())
}
