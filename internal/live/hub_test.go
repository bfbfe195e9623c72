package live

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArjunMehta-11/stumps/internal/scoring"
)

func TestClientMatchFilter(t *testing.T) {
	c := &Client{}
	assert.True(t, c.wantsMatch(1)) // no filter receives everything

	c.handleMessage([]byte(`{"type":"subscribe","match_ids":[2,3]}`))
	assert.False(t, c.wantsMatch(1))
	assert.True(t, c.wantsMatch(2))
	assert.True(t, c.wantsMatch(3))

	c.handleMessage([]byte(`{"type":"unsubscribe"}`))
	assert.True(t, c.wantsMatch(1))
}

func TestMarshalUpdate(t *testing.T) {
	update := &Update{
		Type:    "score_update",
		MatchID: 4,
		Score: scoring.ScoreUpdatePayload{
			MatchID: 4,
			Team1:   "Panthers",
			Team2:   "Rhinos",
		},
	}

	data := marshalUpdate(update)
	var decoded Update
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "score_update", decoded.Type)
	assert.Equal(t, uint(4), decoded.MatchID)
	assert.Equal(t, "Panthers", decoded.Score.Team1)
}

func TestHubBroadcastRespectsFilter(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	all := &Client{hub: hub, send: make(chan []byte, 4)}
	only2 := &Client{hub: hub, send: make(chan []byte, 4), matchIDs: map[uint]bool{2: true}}
	hub.register <- all
	hub.register <- only2

	hub.Publish(1, scoring.ScoreUpdatePayload{MatchID: 1})

	msg := <-all.send
	var decoded Update
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, uint(1), decoded.MatchID)
	assert.Empty(t, only2.send)

	hub.Publish(2, scoring.ScoreUpdatePayload{MatchID: 2})
	msg = <-only2.send
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, uint(2), decoded.MatchID)
}
