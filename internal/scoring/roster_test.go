package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderRosters(t *testing.T) {
	batting := PlaceholderBattingRoster("Panthers")
	require.Len(t, batting, 11)
	assert.Equal(t, "Panthers Batsman 1", batting[0])
	assert.Equal(t, "Panthers Batsman 11", batting[10])

	fielding := PlaceholderFieldingRoster("Rhinos")
	require.Len(t, fielding, 11)
	assert.Equal(t, "Rhinos Bowler 1", fielding[0])
}

func TestStaticRosterFallsBackToPlaceholders(t *testing.T) {
	roster := &StaticRoster{
		Batting: map[string][]string{"Panthers": {"A", "B", "C"}},
	}

	names, err := roster.BattingRoster(context.Background(), 1, "Panthers")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names)

	// No data for the fielding side: synthetic eleven.
	names, err = roster.FieldingRoster(context.Background(), 2, "Rhinos")
	require.NoError(t, err)
	require.Len(t, names, 11)
	assert.Equal(t, "Rhinos Bowler 1", names[0])
}

func TestPlaceholderSquadIsScoreable(t *testing.T) {
	cfg := MatchConfig{
		MatchID:    7,
		Team1:      "Panthers",
		Team2:      "Rhinos",
		Team1Squad: PlaceholderBattingRoster("Panthers"),
		Team2Squad: PlaceholderFieldingRoster("Rhinos"),
		TotalOvers: 2,
	}
	cfg.Striker = cfg.Team1Squad[0]
	cfg.NonStriker = cfg.Team1Squad[1]
	cfg.Bowler = cfg.Team2Squad[0]

	eng, err := NewEngine(cfg, nil, nil)
	require.NoError(t, err)
	_, err = eng.RecordRuns(4)
	require.NoError(t, err)
	assert.Equal(t, 4, eng.State().Scores[1].Runs)
}
