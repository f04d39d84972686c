package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSport(t *testing.T) {
	tests := []struct {
		input    string
		expected Sport
	}{
		{"mlb", SportMLB},
		{"MLB", SportMLB},
		{"baseball", SportMLB},
		{" nfl ", SportNFL},
		{"football", SportNFL},
		{"ufc", SportUFC},
		{"MMA", SportUFC},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sport, err := ParseSport(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sport)
		})
	}
}

func TestParseSportUnknown(t *testing.T) {
	_, err := ParseSport("cricket")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSport))
}

func TestSportKeys(t *testing.T) {
	assert.Equal(t, "MLB:Boston Red Sox", SportMLB.CompetitorKey("Boston Red Sox"))
	assert.Equal(t, "baseball_mlb", SportMLB.ScheduleKey())
	assert.Equal(t, "americanfootball_nfl", SportNFL.ScheduleKey())
	assert.Equal(t, "mma_mixed_martial_arts", SportUFC.ScheduleKey())
	assert.Equal(t, "", Sport("NHL").ScheduleKey())
	assert.False(t, Sport("NHL").Valid())
}

func TestNoEventsText(t *testing.T) {
	assert.Equal(t, "No MLB games today.", SportMLB.NoEventsText())
	assert.Equal(t, "No NFL games today.", SportNFL.NoEventsText())
	assert.Equal(t, "No UFC fights today.", SportUFC.NoEventsText())
}

func TestResultValidate(t *testing.T) {
	valid := Result{Sport: SportMLB, ItemKey: "g1", A: "Home", B: "Away", ScoreA: 3, ScoreB: 1}
	require.NoError(t, valid.Validate())

	noItem := valid
	noItem.ItemKey = ""
	assert.ErrorIs(t, noItem.Validate(), ErrInvalidResult)

	same := valid
	same.B = same.A
	assert.ErrorIs(t, same.Validate(), ErrInvalidResult)

	missing := valid
	missing.A = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingCompetitor)

	badSport := valid
	badSport.Sport = "NHL"
	assert.ErrorIs(t, badSport.Validate(), ErrUnknownSport)
}

func TestResultValidateRejectsNonFinite(t *testing.T) {
	valid := Result{Sport: SportNFL, ItemKey: "g2", A: "Home", B: "Away", ScoreA: 24, ScoreB: 17}

	tests := []struct {
		name   string
		mutate func(r *Result)
	}{
		{"NaN home score", func(r *Result) { r.ScoreA = math.NaN() }},
		{"infinite away score", func(r *Result) { r.ScoreB = math.Inf(1) }},
		{"NaN k-factor", func(r *Result) { r.K = math.NaN() }},
		{"infinite k-factor", func(r *Result) { r.K = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidResult)
		})
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1500))
	assert.True(t, IsFinite(-3.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}
