package match

import (
	"time"

	"github.com/ArjunMehta-11/stumps/internal/team"
	"github.com/ArjunMehta-11/stumps/internal/user"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusMatchUpcoming  MatchStatus = "upcoming"
	StatusMatchPreToss   MatchStatus = "pre_toss"  // Teams decided, waiting for toss
	StatusMatchTossDone  MatchStatus = "toss_done" // Toss done, waiting for play to start
	StatusMatchLive      MatchStatus = "live"
	StatusMatchCompleted MatchStatus = "completed"
	StatusMatchAbandoned MatchStatus = "abandoned"
)

// Match represents a limited-overs cricket game between two teams.
type Match struct {
	gorm.Model
	Title           string    `json:"title" gorm:"not null"`
	CreatedByUserID uint      `json:"created_by_user_id" gorm:"index"`
	CreatedByUser   user.User `json:"-" gorm:"foreignKey:CreatedByUserID"`

	HomeTeamID uint      `json:"home_team_id" gorm:"index;not null"`
	HomeTeam   team.Team `json:"home_team,omitempty" gorm:"foreignKey:HomeTeamID"`
	AwayTeamID uint      `json:"away_team_id" gorm:"index;not null"`
	AwayTeam   team.Team `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID"`

	OversPerInnings int    `json:"overs_per_innings" gorm:"not null;default:20"`
	VenueName       string `json:"venue_name,omitempty"`

	ScheduledAt time.Time  `json:"scheduled_at" gorm:"index"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Status MatchStatus `json:"status" gorm:"index;default:'upcoming'"`

	// Toss Information
	TossWinnerTeamID *uint  `json:"toss_winner_team_id,omitempty" gorm:"index"`
	TossDecision     string `json:"toss_decision,omitempty"` // "bat" or "bowl"

	// Match Result
	ResultSummary string `json:"result_summary,omitempty" gorm:"type:text"` // e.g., "Panthers won by 5 wickets"
}

// BattingFirstTeamID resolves which side bats first from the toss.
// Returns 0 when the toss has not been recorded yet.
func (m *Match) BattingFirstTeamID() uint {
	if m.TossWinnerTeamID == nil {
		return 0
	}
	if m.TossDecision == "bat" {
		return *m.TossWinnerTeamID
	}
	if *m.TossWinnerTeamID == m.HomeTeamID {
		return m.AwayTeamID
	}
	return m.HomeTeamID
}
