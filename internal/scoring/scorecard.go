package scoring

// commentaryWindow is the number of recent balls shown in live updates.
const commentaryWindow = 12

// TeamScore is the headline figure for one side.
type TeamScore struct {
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   string `json:"overs"`
}

// MatchData carries the live-commentary slice of an update.
type MatchData struct {
	CurrentInning int      `json:"current_inning"`
	BallByBall    []string `json:"ball_by_ball"`
	LastBall      string   `json:"last_ball,omitempty"`
}

// ScoreUpdatePayload is emitted after every applied event; the presentation
// layer renders it directly.
type ScoreUpdatePayload struct {
	MatchID    uint      `json:"match_id"`
	Team1      string    `json:"team1"`
	Team2      string    `json:"team2"`
	Team1Score TeamScore `json:"team1_score"`
	Team2Score TeamScore `json:"team2_score"`
	MatchData  MatchData `json:"match_data"`
	Target     int       `json:"target,omitempty"`
	Pending    string    `json:"pending_selection,omitempty"`
	Completed  bool      `json:"completed"`
	Result     string    `json:"result,omitempty"`
}

func teamScore(sc *InningsScore) TeamScore {
	return TeamScore{Runs: sc.Runs, Wickets: sc.Wickets, Overs: OversString(sc.LegalBalls)}
}

func buildPayload(st *MatchState) ScoreUpdatePayload {
	balls := make([]string, 0, commentaryWindow)
	start := len(st.BallLog) - commentaryWindow
	if start < 0 {
		start = 0
	}
	for _, rec := range st.BallLog[start:] {
		balls = append(balls, rec.Label+" "+rec.Text)
	}
	var last string
	if len(balls) > 0 {
		last = balls[len(balls)-1]
	}
	return ScoreUpdatePayload{
		MatchID:    st.Config.MatchID,
		Team1:      st.Config.Team1,
		Team2:      st.Config.Team2,
		Team1Score: teamScore(st.Scores[1]),
		Team2Score: teamScore(st.Scores[2]),
		MatchData: MatchData{
			CurrentInning: st.Inning,
			BallByBall:    balls,
			LastBall:      last,
		},
		Target:    st.Target,
		Pending:   string(st.Pending),
		Completed: st.Ended,
		Result:    st.Result,
	}
}

// BattingLine is one rendered row of a batting table.
type BattingLine struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Dots       int     `json:"dots"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	IsOut      bool    `json:"is_out"`
	Dismissal  string  `json:"dismissal,omitempty"`
}

// BowlingLine is one rendered row of a bowling table.
type BowlingLine struct {
	Name         string  `json:"name"`
	Overs        float64 `json:"overs"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	EconomyRate  float64 `json:"economy_rate"`
}

// InningsCard is both tables plus the headline score for one innings.
type InningsCard struct {
	BattingTeam string        `json:"batting_team"`
	Score       TeamScore     `json:"score"`
	Batting     []BattingLine `json:"batting"`
	Bowling     []BowlingLine `json:"bowling"`
}

// Scorecard is the full read-only projection of a match.
type Scorecard struct {
	MatchID    uint          `json:"match_id"`
	TotalOvers int           `json:"total_overs"`
	Inning     int           `json:"current_inning"`
	Target     int           `json:"target,omitempty"`
	Striker    string        `json:"striker,omitempty"`
	NonStriker string        `json:"non_striker,omitempty"`
	Bowler     string        `json:"bowler,omitempty"`
	Pending    string        `json:"pending_selection,omitempty"`
	Completed  bool          `json:"completed"`
	Result     string        `json:"result,omitempty"`
	Innings    []InningsCard `json:"innings"`
	Commentary []string      `json:"commentary"`
}

// BuildScorecard renders the state into display tables, preserving batting
// and bowling appearance order.
func BuildScorecard(st *MatchState) Scorecard {
	card := Scorecard{
		MatchID:    st.Config.MatchID,
		TotalOvers: st.Config.TotalOvers,
		Inning:     st.Inning,
		Target:     st.Target,
		Striker:    st.Striker,
		NonStriker: st.NonStriker,
		Bowler:     st.Bowler,
		Pending:    string(st.Pending),
		Completed:  st.Ended,
		Result:     st.Result,
	}
	for inning := 1; inning <= st.Inning; inning++ {
		stats := st.Stats[inning]
		ic := InningsCard{
			BattingTeam: st.Config.Team1,
			Score:       teamScore(st.Scores[inning]),
		}
		if inning == 2 {
			ic.BattingTeam = st.Config.Team2
		}
		for _, name := range stats.BattingOrder {
			b := stats.Batting[name]
			ic.Batting = append(ic.Batting, BattingLine{
				Name:       b.Name,
				Runs:       b.Runs,
				Balls:      b.Balls,
				Dots:       b.Dots,
				Fours:      b.Fours,
				Sixes:      b.Sixes,
				StrikeRate: b.StrikeRate(),
				IsOut:      b.IsDismissed,
				Dismissal:  b.DismissalType,
			})
		}
		for _, name := range stats.BowlingOrder {
			bw := stats.Bowling[name]
			ic.Bowling = append(ic.Bowling, BowlingLine{
				Name:         bw.Name,
				Overs:        bw.Overs(),
				RunsConceded: bw.RunsConceded,
				Wickets:      bw.Wickets,
				EconomyRate:  bw.EconomyRate(),
			})
		}
		card.Innings = append(card.Innings, ic)
	}
	for _, rec := range st.BallLog {
		card.Commentary = append(card.Commentary, rec.Label+" "+rec.Text)
	}
	return card
}

// Scorecard returns the current display projection.
func (e *Engine) Scorecard() Scorecard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildScorecard(e.st)
}
