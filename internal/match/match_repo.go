package match

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MatchRepository defines methods to interact with match data.
type MatchRepository interface {
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	UpdateMatch(match *Match) error
	GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error)
	UpdateMatchStatus(matchID uint, status MatchStatus) error
	SetToss(matchID uint, tossWinnerTeamID uint, decision string) error
	MarkLive(matchID uint) error
	CompleteMatch(matchID uint, resultSummary string) error
}

// GormMatchRepository implements MatchRepository using GORM.
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository.
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// CreateMatch creates a new match.
func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

// GetMatchByID retrieves a match by ID with both teams and their squads.
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var match Match
	result := r.db.
		Preload("HomeTeam").
		Preload("HomeTeam.Players").
		Preload("AwayTeam").
		Preload("AwayTeam.Players").
		First(&match, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &match, nil
}

// UpdateMatch updates an existing match.
func (r *GormMatchRepository) UpdateMatch(match *Match) error {
	return r.db.Save(match).Error
}

// GetMatches retrieves matches based on filters with pagination.
func (r *GormMatchRepository) GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})

	for key, value := range filters {
		query = query.Where(key, value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := query.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Order("scheduled_at desc").
		Offset(offset).Limit(pageSize).
		Find(&matches)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return matches, total, nil
}

// UpdateMatchStatus updates the status of a match.
func (r *GormMatchRepository) UpdateMatchStatus(matchID uint, status MatchStatus) error {
	return r.db.Model(&Match{}).Where("id = ?", matchID).Update("status", status).Error
}

// SetToss records the toss outcome and moves the match to toss_done.
func (r *GormMatchRepository) SetToss(matchID uint, tossWinnerTeamID uint, decision string) error {
	return r.db.Model(&Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"toss_winner_team_id": tossWinnerTeamID,
			"toss_decision":       decision,
			"status":              StatusMatchTossDone,
		}).Error
}

// MarkLive transitions the match to live and stamps the start time.
func (r *GormMatchRepository) MarkLive(matchID uint) error {
	now := time.Now()
	return r.db.Model(&Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"status":     StatusMatchLive,
			"started_at": &now,
		}).Error
}

// CompleteMatch records the final result and stamps the completion time.
func (r *GormMatchRepository) CompleteMatch(matchID uint, resultSummary string) error {
	now := time.Now()
	return r.db.Model(&Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"status":         StatusMatchCompleted,
			"result_summary": resultSummary,
			"completed_at":   &now,
		}).Error
}
