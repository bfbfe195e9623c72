package scoring

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchStore persists match-state snapshots keyed by match id. The engine
// treats it as an opaque key-value store.
type MatchStore interface {
	Load(ctx context.Context, matchID uint) (*MatchState, error)
	Save(ctx context.Context, matchID uint, st *MatchState) error
}

// UpdateSink receives a payload after every applied event, for fan-out to
// live viewers.
type UpdateSink interface {
	Publish(matchID uint, payload ScoreUpdatePayload)
}

// ErrSnapshotNotFound is returned by Load when no snapshot exists yet.
var ErrSnapshotNotFound = errors.New("scoring: no snapshot for match")

// StateDocument is the JSONB column holding a full MatchState snapshot.
type StateDocument MatchState

func (d StateDocument) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan unmarshals JSONB bytes into the snapshot.
func (d *StateDocument) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("StateDocument: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, d)
}

// LiveScorecard is the snapshot row for a live match, one per match id.
type LiveScorecard struct {
	gorm.Model
	MatchID uint          `gorm:"uniqueIndex;not null" json:"match_id"`
	Inning  int           `json:"inning"`
	Ended   bool          `json:"ended"`
	State   StateDocument `gorm:"type:jsonb" json:"state"`
}

// GormMatchStore keeps snapshots in the live_scorecards table, upserting on
// match id.
type GormMatchStore struct {
	db *gorm.DB
}

func NewGormMatchStore(db *gorm.DB) *GormMatchStore {
	return &GormMatchStore{db: db}
}

func (s *GormMatchStore) Load(ctx context.Context, matchID uint) (*MatchState, error) {
	var row LiveScorecard
	err := s.db.WithContext(ctx).Where("match_id = ?", matchID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	st := MatchState(row.State)
	return &st, nil
}

func (s *GormMatchStore) Save(ctx context.Context, matchID uint, st *MatchState) error {
	row := LiveScorecard{
		MatchID: matchID,
		Inning:  st.Inning,
		Ended:   st.Ended,
		State:   StateDocument(*st),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"inning", "ended", "state", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
