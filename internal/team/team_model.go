package team

import (
	"gorm.io/gorm"
)

// Team represents a cricket team.
type Team struct {
	gorm.Model
	Name        string   `json:"name" gorm:"uniqueIndex;not null"`
	Description string   `json:"description"`
	Logo        string   `json:"logo"`
	CreatedByID uint     `json:"created_by_id" gorm:"index"`
	Players     []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// Player is a named member of a team's playing squad. BattingOrder and
// BowlingOrder drive the roster ordering used by the scoring engine.
type Player struct {
	gorm.Model
	TeamID         uint   `json:"team_id" gorm:"index;not null"`
	Name           string `json:"name" gorm:"not null"`
	BattingOrder   int    `json:"batting_order" gorm:"default:0"`
	BowlingOrder   int    `json:"bowling_order" gorm:"default:0"`
	IsWicketKeeper bool   `json:"is_wicket_keeper" gorm:"default:false"`
	IsCaptain      bool   `json:"is_captain" gorm:"default:false"`
}
