package scoring

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(totalOvers int) MatchConfig {
	return MatchConfig{
		MatchID:    1,
		Team1:      "Panthers",
		Team2:      "Rhinos",
		Team1Squad: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"},
		Team2Squad: []string{"P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z"},
		TotalOvers: totalOvers,
		Striker:    "A",
		NonStriker: "B",
		Bowler:     "P",
	}
}

func newTestEngine(t *testing.T, totalOvers int) *Engine {
	t.Helper()
	eng, err := NewEngine(testConfig(totalOvers), nil, nil)
	require.NoError(t, err)
	return eng
}

func mustRuns(t *testing.T, eng *Engine, runs int) *ScoreUpdatePayload {
	t.Helper()
	p, err := eng.RecordRuns(runs)
	require.NoError(t, err)
	return p
}

func TestNewEngineValidatesConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MatchConfig)
	}{
		{"same teams", func(c *MatchConfig) { c.Team2 = c.Team1 }},
		{"zero overs", func(c *MatchConfig) { c.TotalOvers = 0 }},
		{"missing striker", func(c *MatchConfig) { c.Striker = "" }},
		{"identical openers", func(c *MatchConfig) { c.NonStriker = c.Striker }},
		{"striker off squad", func(c *MatchConfig) { c.Striker = "Nobody" }},
		{"bowler off squad", func(c *MatchConfig) { c.Bowler = "A" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(2)
			tc.mutate(&cfg)
			_, err := NewEngine(cfg, nil, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidEvent(err))
		})
	}
}

func TestRunsAccounting(t *testing.T) {
	eng := newTestEngine(t, 2)

	mustRuns(t, eng, 1) // A takes a single, B on strike
	mustRuns(t, eng, 4)
	mustRuns(t, eng, 0)
	_, err := eng.RecordExtra(ExtraWide, 1)
	require.NoError(t, err)
	_, err = eng.RecordExtra(ExtraNoBall, 5) // 4 to the batter off the bat
	require.NoError(t, err)
	_, err = eng.RecordExtra(ExtraBye, 2)
	require.NoError(t, err)
	mustRuns(t, eng, 6)

	st := eng.State()
	sc := st.Scores[1]
	assert.Equal(t, 19, sc.Runs)
	assert.Equal(t, 5, sc.LegalBalls)
	assert.Equal(t, 0, sc.Wickets)

	stats := st.Stats[1]
	a := stats.Batting["A"]
	b := stats.Batting["B"]
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, 1, a.Runs)
	assert.Equal(t, 1, a.Balls)
	assert.Equal(t, 14, b.Runs) // 4 off the bat, 4 off the no-ball, 6
	assert.Equal(t, 4, b.Balls) // no-ball and wide are not balls faced
	assert.Equal(t, 2, b.Fours) // the no-ball boundary counts as a four
	assert.Equal(t, 1, b.Sixes)

	// Batter runs plus extras equal the team total.
	extras := 1 + 1 + 2 // wide, no-ball penalty, byes
	assert.Equal(t, sc.Runs, a.Runs+b.Runs+extras)

	p := stats.Bowling["P"]
	require.NotNil(t, p)
	assert.Equal(t, 17, p.RunsConceded) // byes are not charged to the bowler
	assert.Equal(t, 5, p.LegalBalls)
	assert.Equal(t, 7, p.TotalBalls)
}

func TestInvalidRunValuesRejected(t *testing.T) {
	eng := newTestEngine(t, 2)
	for _, runs := range []int{5, 7, -1} {
		_, err := eng.RecordRuns(runs)
		require.Error(t, err)
		assert.True(t, IsInvalidEvent(err))
	}
}

func TestOverCompletionOnlyOnLegalBalls(t *testing.T) {
	eng := newTestEngine(t, 2)

	for i := 0; i < 5; i++ {
		mustRuns(t, eng, 0)
		_, err := eng.RecordExtra(ExtraWide, 1)
		require.NoError(t, err)
	}
	st := eng.State()
	assert.Equal(t, 0, st.Over)
	assert.Equal(t, 5, st.BallInOver)
	assert.Equal(t, PendingNone, st.Pending)

	mustRuns(t, eng, 0)
	st = eng.State()
	assert.Equal(t, 1, st.Over)
	assert.Equal(t, 0, st.BallInOver)
	assert.Equal(t, "", st.Bowler)
	assert.Equal(t, PendingNextBowler, st.Pending)
	assert.Equal(t, "P", st.LastOverBowler[1])
}

func TestSeventhBallRejected(t *testing.T) {
	// Scoring is gated by the pending bowler selection after the 6th ball.
	eng := newTestEngine(t, 2)
	for i := 0; i < 6; i++ {
		mustRuns(t, eng, 0)
	}
	_, err := eng.RecordRuns(1)
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))

	// The counter check itself is a hard rejection.
	st := NewMatchState(testConfig(2))
	st.BallInOver = 6
	err = st.apply(BallEvent{Kind: EventRuns, Runs: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "over already complete")
}

func TestConsecutiveOverRestriction(t *testing.T) {
	eng := newTestEngine(t, 3)
	for i := 0; i < 6; i++ {
		mustRuns(t, eng, 0)
	}

	_, err := eng.SelectNextBowler("P")
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))

	_, err = eng.SelectNextBowler("NotOnSquad")
	require.Error(t, err)

	_, err = eng.SelectNextBowler("Q")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		mustRuns(t, eng, 0)
	}
	_, err = eng.SelectNextBowler("Q")
	require.Error(t, err)
	_, err = eng.SelectNextBowler("P")
	require.NoError(t, err)
}

func TestStrikeRotation(t *testing.T) {
	eng := newTestEngine(t, 2)

	mustRuns(t, eng, 1)
	st := eng.State()
	assert.Equal(t, "B", st.Striker)
	assert.Equal(t, "A", st.NonStriker)

	mustRuns(t, eng, 2)
	st = eng.State()
	assert.Equal(t, "B", st.Striker)

	mustRuns(t, eng, 3)
	st = eng.State()
	assert.Equal(t, "A", st.Striker)

	// Even final ball swaps strike at the end of the over.
	mustRuns(t, eng, 0)
	mustRuns(t, eng, 0)
	mustRuns(t, eng, 2)
	st = eng.State()
	assert.Equal(t, 1, st.Over)
	assert.Equal(t, "B", st.Striker)
	assert.Equal(t, "A", st.NonStriker)
}

func TestOddFinalBallKeepsSwapFromRun(t *testing.T) {
	eng := newTestEngine(t, 2)
	for i := 0; i < 5; i++ {
		mustRuns(t, eng, 0)
	}
	mustRuns(t, eng, 1)
	st := eng.State()
	assert.Equal(t, 1, st.Over)
	// The single already rotated strike; no second swap at the over end.
	assert.Equal(t, "B", st.Striker)
}

func TestAllOutCompletesInnings(t *testing.T) {
	eng := newTestEngine(t, 5)

	replacements := []string{"C", "D", "E", "F", "G", "H", "I", "J", "K"}
	for i := 0; i < 9; i++ {
		_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: replacements[i]})
		require.NoError(t, err)
		if (i+1)%6 == 0 {
			_, err = eng.SelectNextBowler("Q")
			require.NoError(t, err)
		}
	}
	_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled})
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 2, st.Inning)
	assert.Equal(t, 1, st.Target) // all out for 0
	assert.Equal(t, PendingSecondInnings, st.Pending)
	assert.Equal(t, 10, st.Scores[1].Wickets)
	assert.Equal(t, 6, st.Stats[1].Bowling["P"].Wickets)
	assert.Equal(t, 4, st.Stats[1].Bowling["Q"].Wickets)

	// An 11th wicket is rejected.
	_, err = eng.RecordWicket(WicketParams{Kind: WicketBowled})
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))
}

func TestRunOutOfNonStriker(t *testing.T) {
	eng := newTestEngine(t, 2)

	_, err := eng.RecordWicket(WicketParams{
		Kind:          WicketRunOut,
		Fielder:       "Jones",
		NextBatter:    "C",
		DismissedSide: DismissedNonStriker,
	})
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, "A", st.Striker)
	assert.Equal(t, "C", st.NonStriker)
	assert.True(t, st.Dismissed["B"])

	stats := st.Stats[1]
	assert.Equal(t, 1, stats.Batting["A"].Balls) // striker is charged the faced ball
	assert.True(t, stats.Batting["B"].IsDismissed)
	assert.Equal(t, "run out (Jones)", stats.Batting["B"].DismissalType)
	assert.Equal(t, 0, stats.Bowling["P"].Wickets) // no bowler credit for run outs
	assert.Equal(t, 1, st.Scores[1].LegalBalls)
}

func TestWicketReplacementValidation(t *testing.T) {
	eng := newTestEngine(t, 2)

	_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: "B"})
	require.Error(t, err) // already at the crease

	_, err = eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: "Nobody"})
	require.Error(t, err) // not on the squad

	_, err = eng.RecordWicket(WicketParams{Kind: WicketCaught, Fielder: "R", NextBatter: "C"})
	require.NoError(t, err)

	// A dismissed batter can never come back.
	_, err = eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: "A"})
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))
}

func TestWicketWithoutReplacementGatesScoring(t *testing.T) {
	eng := newTestEngine(t, 2)

	_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled})
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, PendingNextBatter, st.Pending)
	assert.Equal(t, "", st.Striker)

	_, err = eng.RecordRuns(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selection pending")

	_, err = eng.SelectNextBatter("C")
	require.NoError(t, err)
	st = eng.State()
	assert.Equal(t, PendingNone, st.Pending)
	assert.Equal(t, "C", st.Striker)

	_, err = eng.RecordRuns(1)
	require.NoError(t, err)
}

func TestWicketOnLastBallChainsSelections(t *testing.T) {
	eng := newTestEngine(t, 2)
	for i := 0; i < 5; i++ {
		mustRuns(t, eng, 0)
	}
	_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled})
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 1, st.Over)
	assert.Equal(t, PendingNextBatter, st.Pending)
	assert.Equal(t, "", st.Bowler)

	_, err = eng.SelectNextBatter("C")
	require.NoError(t, err)
	st = eng.State()
	assert.Equal(t, PendingNextBowler, st.Pending)

	_, err = eng.SelectNextBowler("Q")
	require.NoError(t, err)
	st = eng.State()
	assert.Equal(t, PendingNone, st.Pending)
}

func TestNoBallForFive(t *testing.T) {
	eng := newTestEngine(t, 2)

	_, err := eng.RecordExtra(ExtraNoBall, 5)
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 5, st.Scores[1].Runs)
	assert.Equal(t, 0, st.Scores[1].LegalBalls)
	assert.Equal(t, 0, st.BallInOver)

	a := st.Stats[1].Batting["A"]
	require.NotNil(t, a)
	assert.Equal(t, 4, a.Runs)
	assert.Equal(t, 0, a.Balls)
	assert.Equal(t, 5, st.Stats[1].Bowling["P"].RunsConceded)
}

func TestWideIsClampedToOne(t *testing.T) {
	eng := newTestEngine(t, 2)

	_, err := eng.RecordExtra(ExtraWide, 0)
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 1, st.Scores[1].Runs)
	assert.Equal(t, 0, st.Scores[1].LegalBalls)
}

func TestWideRunsRotateStrike(t *testing.T) {
	eng := newTestEngine(t, 2)

	// One run beyond the penalty: the batters crossed once.
	_, err := eng.RecordExtra(ExtraWide, 2)
	require.NoError(t, err)
	st := eng.State()
	assert.Equal(t, "B", st.Striker)
	assert.Equal(t, "A", st.NonStriker)

	// Two beyond the penalty: crossed twice, back where they started.
	_, err = eng.RecordExtra(ExtraWide, 3)
	require.NoError(t, err)
	st = eng.State()
	assert.Equal(t, "B", st.Striker)
	assert.Equal(t, "A", st.NonStriker)
}

func TestComboWicketExtras(t *testing.T) {
	eng := newTestEngine(t, 2)

	// Stumped off a wide: no legal ball, minimum one run, bowler credited.
	_, err := eng.RecordWicket(WicketParams{Kind: WicketWide, NextBatter: "C"})
	require.NoError(t, err)
	st := eng.State()
	assert.Equal(t, 1, st.Scores[1].Runs)
	assert.Equal(t, 0, st.Scores[1].LegalBalls)
	assert.Equal(t, 1, st.Scores[1].Wickets)
	assert.Equal(t, 1, st.Stats[1].Bowling["P"].Wickets)

	// Run out going for a bye: legal ball, runs to the team only.
	_, err = eng.RecordWicket(WicketParams{Kind: WicketBye, ExtraRuns: 1, NextBatter: "D"})
	require.NoError(t, err)
	st = eng.State()
	assert.Equal(t, 2, st.Scores[1].Runs)
	assert.Equal(t, 1, st.Scores[1].LegalBalls)
	assert.Equal(t, 1, st.Stats[1].Bowling["P"].Wickets) // no credit for bye wicket
	assert.Equal(t, 1, st.Stats[1].Bowling["P"].RunsConceded)
}

func TestNegativeWicketExtrasRejected(t *testing.T) {
	eng := newTestEngine(t, 2)
	mustRuns(t, eng, 4)

	_, err := eng.RecordWicket(WicketParams{Kind: WicketBye, ExtraRuns: -3, NextBatter: "C"})
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))
	assert.Contains(t, err.Error(), "extra runs cannot be negative")

	// The rejected event left nothing behind.
	st := eng.State()
	assert.Equal(t, 4, st.Scores[1].Runs)
	assert.Equal(t, 0, st.Scores[1].Wickets)
	assert.Equal(t, "A", st.Striker)
	assert.Len(t, st.BallLog, 1)

	_, err = eng.RecordWicket(WicketParams{Kind: WicketWide, ExtraRuns: -1, NextBatter: "C"})
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))
}

func TestByeWicketOnLastBallKeepsRunParity(t *testing.T) {
	eng := newTestEngine(t, 2)
	for i := 0; i < 5; i++ {
		mustRuns(t, eng, 0)
	}

	// Run out going for a single bye on the sixth ball: the odd run means no
	// swap at the over end, so the replacement opens the new over on strike.
	_, err := eng.RecordWicket(WicketParams{Kind: WicketBye, ExtraRuns: 1, NextBatter: "C"})
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 1, st.Over)
	assert.Equal(t, PendingNextBowler, st.Pending)
	assert.Equal(t, "C", st.Striker)
	assert.Equal(t, "B", st.NonStriker)
}

func playFullInnings(t *testing.T, eng *Engine, runsPerBall int, overs int, secondBowlers []string) {
	t.Helper()
	bowler := 0
	for o := 0; o < overs; o++ {
		for b := 0; b < 6; b++ {
			mustRuns(t, eng, runsPerBall)
		}
		if o < overs-1 {
			_, err := eng.SelectNextBowler(secondBowlers[bowler%len(secondBowlers)])
			require.NoError(t, err)
			bowler++
		}
	}
}

func TestChaseEndsMatchMidOver(t *testing.T) {
	eng := newTestEngine(t, 2)

	// Panthers bat first: 2 and 1 runs alternating keeps the sums simple.
	playFullInnings(t, eng, 2, 2, []string{"Q"})
	st := eng.State()
	require.Equal(t, 2, st.Inning)
	require.Equal(t, 25, st.Target) // 24 all up, chase 25

	_, err := eng.SetupSecondInnings("P", "Q", "A")
	require.NoError(t, err)

	// One wicket falls, then the chase is finished with sixes.
	_, err = eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: "R"})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		mustRuns(t, eng, 6)
	}
	_, err = eng.RecordRuns(6)
	require.NoError(t, err)

	st = eng.State()
	assert.True(t, st.Ended)
	assert.Equal(t, "Rhinos won by 9 wickets", st.Result)
	assert.GreaterOrEqual(t, st.Scores[2].Runs, st.Target)
	// The over in play is abandoned where it stood.
	assert.Equal(t, 0, st.Over)
	assert.Equal(t, PendingNone, st.Pending)

	// No further scoring once the match is over.
	_, err = eng.RecordRuns(1)
	require.Error(t, err)
	assert.True(t, IsInvalidEvent(err))
}

func TestDefendingSideWinsOnRuns(t *testing.T) {
	eng := newTestEngine(t, 1)

	playFullInnings(t, eng, 1, 1, nil)
	_, err := eng.SetupSecondInnings("P", "Q", "A")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		mustRuns(t, eng, 0)
	}
	st := eng.State()
	assert.True(t, st.Ended)
	assert.Equal(t, "Panthers won by 6 runs", st.Result)
}

func TestTiedMatch(t *testing.T) {
	eng := newTestEngine(t, 1)

	playFullInnings(t, eng, 1, 1, nil)
	_, err := eng.SetupSecondInnings("P", "Q", "A")
	require.NoError(t, err)

	playFullInnings(t, eng, 1, 1, nil)
	st := eng.State()
	assert.True(t, st.Ended)
	assert.Equal(t, "Match tied", st.Result)
}

func TestResultProcessedOnce(t *testing.T) {
	st := NewMatchState(testConfig(1))
	st.finishMatch("Panthers won by 5 runs")
	st.finishMatch("a different result")
	assert.Equal(t, "Panthers won by 5 runs", st.Result)
	assert.True(t, st.ResultProcessed)
}

func TestReplayIdempotence(t *testing.T) {
	eng := newTestEngine(t, 2)

	mustRuns(t, eng, 1)
	mustRuns(t, eng, 4)
	_, err := eng.RecordExtra(ExtraWide, 1)
	require.NoError(t, err)
	_, err = eng.RecordExtra(ExtraNoBall, 2)
	require.NoError(t, err)
	_, err = eng.RecordWicket(WicketParams{Kind: WicketCaught, Fielder: "R", NextBatter: "C"})
	require.NoError(t, err)
	mustRuns(t, eng, 2)
	mustRuns(t, eng, 0)
	_, err = eng.RecordExtra(ExtraLegBye, 3) // sixth legal ball, over completes
	require.NoError(t, err)
	st1 := eng.State()
	require.Equal(t, PendingNextBowler, st1.Pending)

	st2, err := Replay(testConfig(2), st1.Events)
	require.NoError(t, err)

	b1, err := json.Marshal(st1)
	require.NoError(t, err)
	b2, err := json.Marshal(st2)
	require.NoError(t, err)
	assert.JSONEq(t, string(b1), string(b2))
}

func TestReplayRejectsTamperedLog(t *testing.T) {
	eng := newTestEngine(t, 2)
	mustRuns(t, eng, 1)
	st := eng.State()

	tampered := append([]BallEvent{}, st.Events...)
	tampered = append(tampered, BallEvent{Kind: EventRuns, Runs: 5})
	_, err := Replay(testConfig(2), tampered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay event 1")
}

func TestSecondInningsSetupValidation(t *testing.T) {
	eng := newTestEngine(t, 1)
	playFullInnings(t, eng, 1, 1, nil)

	_, err := eng.SetupSecondInnings("P", "P", "A")
	require.Error(t, err)

	_, err = eng.SetupSecondInnings("A", "Q", "A")
	require.Error(t, err) // striker must come from the chasing squad

	_, err = eng.SetupSecondInnings("P", "Q", "P")
	require.Error(t, err) // bowler must come from the fielding squad

	_, err = eng.SetupSecondInnings("P", "Q", "A")
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, PendingNone, st.Pending)
	assert.Equal(t, "P", st.Striker)
	// Commentary resets at the innings break; only the target line remains.
	require.Len(t, st.BallLog, 1)
	assert.Contains(t, st.BallLog[0].Text, "need 7 to win")
	assert.Empty(t, st.Dismissed)
}

func TestOversString(t *testing.T) {
	assert.Equal(t, "0.0", OversString(0))
	assert.Equal(t, "0.5", OversString(5))
	assert.Equal(t, "1.0", OversString(6))
	assert.Equal(t, "18.4", OversString(112))
}

func TestPayloadCommentaryWindow(t *testing.T) {
	eng := newTestEngine(t, 3)

	for o := 0; o < 2; o++ {
		for b := 0; b < 6; b++ {
			mustRuns(t, eng, 0)
		}
		_, err := eng.SelectNextBowler([]string{"Q", "R"}[o])
		require.NoError(t, err)
	}
	p := eng.Payload()
	assert.Len(t, p.MatchData.BallByBall, commentaryWindow)
	assert.Equal(t, p.MatchData.BallByBall[commentaryWindow-1], p.MatchData.LastBall)
	assert.Equal(t, "2.0", p.Team1Score.Overs)
}

func TestBuildScorecardOrdering(t *testing.T) {
	eng := newTestEngine(t, 2)
	mustRuns(t, eng, 1)
	mustRuns(t, eng, 4)
	_, err := eng.RecordWicket(WicketParams{Kind: WicketBowled, NextBatter: "C"})
	require.NoError(t, err)
	mustRuns(t, eng, 2)

	card := eng.Scorecard()
	require.Len(t, card.Innings, 1)
	ic := card.Innings[0]
	assert.Equal(t, "Panthers", ic.BattingTeam)
	require.Len(t, ic.Batting, 3)
	assert.Equal(t, "A", ic.Batting[0].Name)
	assert.Equal(t, "B", ic.Batting[1].Name)
	assert.Equal(t, "C", ic.Batting[2].Name)
	require.Len(t, ic.Bowling, 1)
	assert.Equal(t, "P", ic.Bowling[0].Name)
	assert.NotEmpty(t, card.Commentary)
}

func TestBowlingFigures(t *testing.T) {
	b := &BowlingStats{Name: "P", LegalBalls: 8, TotalBalls: 9, RunsConceded: 12, Wickets: 2}
	assert.InDelta(t, 1.2, b.Overs(), 1e-9)
	assert.InDelta(t, 9.0, b.EconomyRate(), 1e-9)
	assert.InDelta(t, 6.0, b.BowlingAverage(), 1e-9)

	fresh := &BowlingStats{Name: "Q"}
	assert.Zero(t, fresh.EconomyRate())
	assert.Zero(t, fresh.BowlingAverage())
}

func TestInvalidEventErrorMessage(t *testing.T) {
	err := invalidEventf("no bowler selected")
	assert.True(t, IsInvalidEvent(err))
	assert.Equal(t, fmt.Sprintf("invalid event: %s", "no bowler selected"), err.Error())
}
