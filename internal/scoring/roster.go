package scoring

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const placeholderSquadSize = 11

// RosterProvider supplies the eligible player names for each side of a
// match. Implementations fall back to synthetic placeholder names when no
// roster data exists, so a match is always scoreable.
type RosterProvider interface {
	BattingRoster(ctx context.Context, teamID uint, teamName string) ([]string, error)
	FieldingRoster(ctx context.Context, teamID uint, teamName string) ([]string, error)
}

// PlaceholderBattingRoster is the synthetic eleven used when a team has no
// registered players.
func PlaceholderBattingRoster(teamName string) []string {
	names := make([]string, 0, placeholderSquadSize)
	for i := 1; i <= placeholderSquadSize; i++ {
		names = append(names, fmt.Sprintf("%s Batsman %d", teamName, i))
	}
	return names
}

// PlaceholderFieldingRoster is the synthetic bowling eleven.
func PlaceholderFieldingRoster(teamName string) []string {
	names := make([]string, 0, placeholderSquadSize)
	for i := 1; i <= placeholderSquadSize; i++ {
		names = append(names, fmt.Sprintf("%s Bowler %d", teamName, i))
	}
	return names
}

// gormRosterProvider reads squads from the players table, ordered by the
// relevant order column.
type gormRosterProvider struct {
	db *gorm.DB
}

func NewGormRosterProvider(db *gorm.DB) RosterProvider {
	return &gormRosterProvider{db: db}
}

func (r *gormRosterProvider) BattingRoster(ctx context.Context, teamID uint, teamName string) ([]string, error) {
	return r.roster(ctx, teamID, teamName, "batting_order", PlaceholderBattingRoster)
}

func (r *gormRosterProvider) FieldingRoster(ctx context.Context, teamID uint, teamName string) ([]string, error) {
	return r.roster(ctx, teamID, teamName, "bowling_order", PlaceholderFieldingRoster)
}

func (r *gormRosterProvider) roster(ctx context.Context, teamID uint, teamName, orderCol string, fallback func(string) []string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("players").
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Order(orderCol+" ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if len(names) == 0 {
		return fallback(teamName), nil
	}
	return names, nil
}

// StaticRoster serves fixed squads, used for demo matches and tests.
type StaticRoster struct {
	Batting  map[string][]string
	Fielding map[string][]string
}

func (r *StaticRoster) BattingRoster(_ context.Context, _ uint, teamName string) ([]string, error) {
	if names, ok := r.Batting[teamName]; ok && len(names) > 0 {
		return names, nil
	}
	return PlaceholderBattingRoster(teamName), nil
}

func (r *StaticRoster) FieldingRoster(_ context.Context, _ uint, teamName string) ([]string, error) {
	if names, ok := r.Fielding[teamName]; ok && len(names) > 0 {
		return names, nil
	}
	return PlaceholderFieldingRoster(teamName), nil
}
