package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachable lists every state visited from Work(1).
func reachable() []State {
	var out []State
	s := Initial()
	for range 8 {
		out = append(out, s)
		s = s.Next()
	}
	return out
}

func TestNextCycle(t *testing.T) {
	want := []State{
		{Work, 1}, {Break, 1},
		{Work, 2}, {Break, 2},
		{Work, 3}, {Break, 3},
		{Work, 4}, {Lunch, 4},
	}
	assert.Equal(t, want, reachable())

	s := Initial()
	for range 8 {
		s = s.Next()
	}
	assert.Equal(t, Initial(), s, "eight steps return to WORK_1")
}

func TestPrevIsInverse(t *testing.T) {
	for _, s := range reachable() {
		t.Run(s.String(), func(t *testing.T) {
			assert.Equal(t, s, s.Next().Prev())
			assert.Equal(t, s, s.Prev().Next())
		})
	}
}

func TestPrevTransitions(t *testing.T) {
	tests := []struct {
		from, want State
	}{
		{State{Work, 1}, State{Lunch, 4}},
		{State{Work, 3}, State{Break, 2}},
		{State{Lunch, 4}, State{Work, 4}},
		{State{Break, 2}, State{Work, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.Prev(), "Prev(%s)", tt.from)
	}
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 25*time.Minute, State{Work, 2}.Limit(UnitProduction))
	assert.Equal(t, 5*time.Minute, State{Break, 2}.Limit(UnitProduction))
	assert.Equal(t, 30*time.Minute, State{Lunch, 4}.Limit(UnitProduction))
	assert.Equal(t, 25*time.Second, State{Work, 1}.Limit(UnitFast))
}

func TestName(t *testing.T) {
	assert.Equal(t, "WORK_2", State{Work, 2}.Name())
	assert.Equal(t, "BREAK", State{Break, 2}.Name())
	assert.Equal(t, "LUNCH", State{Lunch, 4}.Name())
}

func TestJSONRoundTripsTaggedForm(t *testing.T) {
	data, err := json.Marshal(State{Break, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"BREAK":3}`, string(data))

	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"LUNCH":4}`), &s))
	assert.Equal(t, State{Lunch, 4}, s)

	assert.Error(t, json.Unmarshal([]byte(`{"NAP":1}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &s))
}

func TestEncodeDecode(t *testing.T) {
	for _, s := range reachable() {
		got, err := Decode(s.Encode())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := Decode("WORK")
	assert.Error(t, err)
	_, err = Decode("WORK:x")
	assert.Error(t, err)
}

func TestDealing(t *testing.T) {
	assert.False(t, Dealing{}.Active())
	d := NewDealing("abc", time.Now(), Initial())
	assert.True(t, d.Active())
	assert.Equal(t, "abc", *d.TaskID)
}
