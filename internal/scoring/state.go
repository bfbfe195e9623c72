package scoring

import (
	"fmt"
)

// PendingSelection blocks scoring until the scorer supplies the named choice.
type PendingSelection string

const (
	PendingNone          PendingSelection = ""
	PendingNextBowler    PendingSelection = "next_bowler"
	PendingNextBatter    PendingSelection = "next_batter"
	PendingSecondInnings PendingSelection = "second_innings_setup"
)

// MatchConfig fixes the parameters of a match before the first ball. Team1
// is the side batting first; the openers and opening bowler are supplied at
// construction so the engine is scoreable immediately.
type MatchConfig struct {
	MatchID    uint     `json:"match_id"`
	Team1      string   `json:"team1"`
	Team2      string   `json:"team2"`
	Team1Squad []string `json:"team1_squad"`
	Team2Squad []string `json:"team2_squad"`
	TotalOvers int      `json:"total_overs"`
	Striker    string   `json:"striker"`
	NonStriker string   `json:"non_striker"`
	Bowler     string   `json:"bowler"`
}

// BattingStats is one batter's line in an innings scorecard.
type BattingStats struct {
	Name          string `json:"name"`
	Runs          int    `json:"runs"`
	Balls         int    `json:"balls"`
	Dots          int    `json:"dots"`
	Fours         int    `json:"fours"`
	Sixes         int    `json:"sixes"`
	IsDismissed   bool   `json:"is_dismissed"`
	DismissalType string `json:"dismissal_type,omitempty"`
}

// StrikeRate is runs per 100 balls faced, 0 before the first ball.
func (b *BattingStats) StrikeRate() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// BowlingStats is one bowler's line in an innings scorecard. LegalBalls
// excludes wides and no-balls; TotalBalls counts every delivery.
type BowlingStats struct {
	Name         string `json:"name"`
	LegalBalls   int    `json:"legal_balls"`
	TotalBalls   int    `json:"total_balls"`
	RunsConceded int    `json:"runs_conceded"`
	Wickets      int    `json:"wickets"`
}

// Overs renders the bowler's legal-ball count as the conventional figure
// (completed overs plus tenths for the remainder).
func (b *BowlingStats) Overs() float64 {
	return float64(b.LegalBalls/6) + 0.1*float64(b.LegalBalls%6)
}

// EconomyRate is runs conceded per full over bowled, 0 before the first
// legal ball.
func (b *BowlingStats) EconomyRate() float64 {
	if b.LegalBalls == 0 {
		return 0
	}
	return float64(b.RunsConceded) / (float64(b.LegalBalls) / 6)
}

// BowlingAverage is runs conceded per wicket, 0 while wicketless.
func (b *BowlingStats) BowlingAverage() float64 {
	if b.Wickets == 0 {
		return 0
	}
	return float64(b.RunsConceded) / float64(b.Wickets)
}

// InningsScore is the headline total for one innings.
type InningsScore struct {
	Runs       int `json:"runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"legal_balls"`
}

// BallRecord is one commentary line of the current innings. Label is the
// "over.ball" position of the most recent legal delivery at the time the
// event was applied.
type BallRecord struct {
	Label   string    `json:"label"`
	Batter  string    `json:"batter,omitempty"`
	Bowler  string    `json:"bowler,omitempty"`
	Text    string    `json:"text"`
	Event   BallEvent `json:"event"`
	Inning  int       `json:"inning"`
	IsLegal bool      `json:"is_legal"`
}

// InningsStats holds the per-innings scorecard tables. Order slices preserve
// appearance order for rendering.
type InningsStats struct {
	Batting      map[string]*BattingStats `json:"batting"`
	BattingOrder []string                 `json:"batting_order"`
	Bowling      map[string]*BowlingStats `json:"bowling"`
	BowlingOrder []string                 `json:"bowling_order"`
}

func newInningsStats() *InningsStats {
	return &InningsStats{
		Batting: make(map[string]*BattingStats),
		Bowling: make(map[string]*BowlingStats),
	}
}

func (s *InningsStats) batter(name string) *BattingStats {
	b, ok := s.Batting[name]
	if !ok {
		b = &BattingStats{Name: name}
		s.Batting[name] = b
		s.BattingOrder = append(s.BattingOrder, name)
	}
	return b
}

func (s *InningsStats) bowler(name string) *BowlingStats {
	b, ok := s.Bowling[name]
	if !ok {
		b = &BowlingStats{Name: name}
		s.Bowling[name] = b
		s.BowlingOrder = append(s.BowlingOrder, name)
	}
	return b
}

// MatchState is the complete live state of a match. It is derivable from
// (MatchConfig, Events) by replay; everything else is a cache of that fold.
type MatchState struct {
	Config MatchConfig `json:"config"`

	Inning int    `json:"inning"` // 1 or 2
	Target int    `json:"target"` // second innings only; first-innings runs + 1
	Ended  bool   `json:"ended"`
	Result string `json:"result,omitempty"`

	// ResultProcessed guards completion side effects against replays.
	ResultProcessed bool `json:"result_processed"`

	Scores map[int]*InningsScore `json:"scores"`
	Stats  map[int]*InningsStats `json:"stats"`

	Over       int    `json:"over"`         // completed overs this innings
	BallInOver int    `json:"ball_in_over"` // legal balls of the over in play
	Striker    string `json:"striker"`
	NonStriker string `json:"non_striker"`
	Bowler     string `json:"bowler"`

	// LastOverBowler per innings enforces the no-consecutive-overs rule.
	LastOverBowler map[int]string `json:"last_over_bowler"`

	Dismissed map[string]bool  `json:"dismissed"` // batters out this innings
	Pending   PendingSelection `json:"pending"`

	BallLog []BallRecord `json:"ball_log"` // current innings commentary
	Events  []BallEvent  `json:"events"`   // full match event log
}

// NewMatchState builds the pre-first-ball state for a configured match.
func NewMatchState(cfg MatchConfig) *MatchState {
	st := &MatchState{
		Config:         cfg,
		Inning:         1,
		Scores:         map[int]*InningsScore{1: {}, 2: {}},
		Stats:          map[int]*InningsStats{1: newInningsStats(), 2: newInningsStats()},
		LastOverBowler: make(map[int]string),
		Dismissed:      make(map[string]bool),
		Striker:        cfg.Striker,
		NonStriker:     cfg.NonStriker,
		Bowler:         cfg.Bowler,
	}
	return st
}

// BattingTeam returns the name of the side batting in the current innings.
func (st *MatchState) BattingTeam() string {
	if st.Inning == 1 {
		return st.Config.Team1
	}
	return st.Config.Team2
}

// BowlingTeam returns the name of the side bowling in the current innings.
func (st *MatchState) BowlingTeam() string {
	if st.Inning == 1 {
		return st.Config.Team2
	}
	return st.Config.Team1
}

func (st *MatchState) battingSquad() []string {
	if st.Inning == 1 {
		return st.Config.Team1Squad
	}
	return st.Config.Team2Squad
}

func (st *MatchState) bowlingSquad() []string {
	if st.Inning == 1 {
		return st.Config.Team2Squad
	}
	return st.Config.Team1Squad
}

func (st *MatchState) score() *InningsScore { return st.Scores[st.Inning] }
func (st *MatchState) stats() *InningsStats { return st.Stats[st.Inning] }

// ballLabel is the "over.ball" position of the delivery just applied. Called
// after the legal-ball increment and before any end-of-over reset.
func (st *MatchState) ballLabel() string {
	return fmt.Sprintf("%d.%d", st.Over, st.BallInOver)
}

// OversString renders legal balls as the conventional "O.B" figure.
func OversString(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/6, legalBalls%6)
}

func squadContains(squad []string, name string) bool {
	for _, p := range squad {
		if p == name {
			return true
		}
	}
	return false
}
