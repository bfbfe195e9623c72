package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines methods to interact with team and player data.
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeams(page, pageSize int) ([]Team, int64, error)
	IsUserTeamCreator(teamID, userID uint) (bool, error)

	AddPlayer(player *Player) error
	RemovePlayer(playerID uint) error
	GetTeamPlayers(teamID uint) ([]Player, error)
}

// GormTeamRepository implements TeamRepository using GORM.
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository.
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateTeam creates a new team.
func (r *GormTeamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

// GetTeamByID retrieves a team by ID with its players.
func (r *GormTeamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	result := r.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("batting_order asc, id asc")
	}).First(&team, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &team, nil
}

// GetTeams retrieves teams with pagination.
func (r *GormTeamRepository) GetTeams(page, pageSize int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := query.Preload("Players").
		Order("created_at desc").
		Offset(offset).Limit(pageSize).
		Find(&teams)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return teams, total, nil
}

// IsUserTeamCreator reports whether the user created the team.
func (r *GormTeamRepository) IsUserTeamCreator(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Team{}).
		Where("id = ? AND created_by_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddPlayer adds a player to a team's squad.
func (r *GormTeamRepository) AddPlayer(player *Player) error {
	return r.db.Create(player).Error
}

// RemovePlayer soft-deletes a player.
func (r *GormTeamRepository) RemovePlayer(playerID uint) error {
	return r.db.Delete(&Player{}, playerID).Error
}

// GetTeamPlayers retrieves a team's squad ordered by batting order.
func (r *GormTeamRepository) GetTeamPlayers(teamID uint) ([]Player, error) {
	var players []Player
	err := r.db.Where("team_id = ?", teamID).
		Order("batting_order asc, id asc").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
