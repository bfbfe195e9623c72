package scoring

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory MatchStore for tests.
type memStore struct {
	mu    sync.Mutex
	snaps map[uint]*MatchState
}

func newMemStore() *memStore {
	return &memStore{snaps: make(map[uint]*MatchState)}
}

func (s *memStore) Load(_ context.Context, matchID uint) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.snaps[matchID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return cloneState(st), nil
}

func (s *memStore) Save(_ context.Context, matchID uint, st *MatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[matchID] = cloneState(st)
	return nil
}

func TestRegistryStartAndGet(t *testing.T) {
	reg := NewRegistry(nil, nil)

	eng, err := reg.Start(testConfig(2))
	require.NoError(t, err)
	require.NotNil(t, eng)

	_, err = reg.Start(testConfig(2))
	assert.ErrorIs(t, err, ErrMatchAlreadyLive)

	got, err := reg.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, eng, got)

	_, err = reg.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMatchNotLive)
}

func TestRegistryRestoresFromSnapshot(t *testing.T) {
	store := newMemStore()

	// A previous process scored two balls and persisted the snapshot.
	eng, err := NewEngine(testConfig(2), nil, nil)
	require.NoError(t, err)
	_, err = eng.RecordRuns(4)
	require.NoError(t, err)
	_, err = eng.RecordRuns(1)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), 1, eng.State()))

	reg := NewRegistry(store, nil)
	restored, err := reg.Get(context.Background(), 1)
	require.NoError(t, err)

	st := restored.State()
	assert.Equal(t, 5, st.Scores[1].Runs)
	assert.Equal(t, 2, st.Scores[1].LegalBalls)
	assert.Equal(t, "A", st.NonStriker) // the single rotated strike

	// The restored engine keeps scoring where the log left off.
	_, err = restored.RecordRuns(6)
	require.NoError(t, err)
	assert.Equal(t, 11, restored.State().Scores[1].Runs)
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Start(testConfig(2))
	require.NoError(t, err)

	reg.Remove(1)
	_, err = reg.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMatchNotLive)
}

// recordingSink captures published payloads.
type recordingSink struct {
	mu       sync.Mutex
	payloads []ScoreUpdatePayload
}

func (s *recordingSink) Publish(_ uint, payload ScoreUpdatePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
}

func TestEnginePublishesAfterEveryEvent(t *testing.T) {
	sink := &recordingSink{}
	eng, err := NewEngine(testConfig(2), nil, sink)
	require.NoError(t, err)

	_, err = eng.RecordRuns(4)
	require.NoError(t, err)
	_, err = eng.RecordExtra(ExtraWide, 1)
	require.NoError(t, err)

	require.Len(t, sink.payloads, 2)
	assert.Equal(t, 4, sink.payloads[0].Team1Score.Runs)
	assert.Equal(t, 5, sink.payloads[1].Team1Score.Runs)
	assert.Equal(t, "0.1", sink.payloads[1].Team1Score.Overs)
}
