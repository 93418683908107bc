package phase

import (
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Table(t *testing.T) {
	tests := []struct {
		from    Phase
		trigger Trigger
		to      Phase
		mode    court.Mode
		hl      Highlight
		path    Path
		derived bool
	}{
		{Setup, StartServe, Serve, court.ModeService, HighlightClear, PathClear, false},
		{Setup, StartReceive, Receive, court.ModeReceive, HighlightClear, PathClear, false},
		{Serve, ServeExecuted, Defense, court.ModeBase, HighlightClear, PathCapture, false},
		{Receive, ReceptionSuccessful, SetReady, court.ModeReceive, HighlightFrontRow, PathCapture, true},
		{SetReady, AttackExecuted, Defense, court.ModeBase, HighlightClear, PathCapture, false},
		{SetReady, PointLost, Receive, court.ModeReceive, HighlightClear, PathCapture, false},
		{Defense, DigSuccessful, SetReady, court.ModeReceive, HighlightFrontRow, PathCapture, true},
		{Defense, DigFailed, Receive, court.ModeReceive, HighlightClear, PathCapture, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.trigger), func(t *testing.T) {
			tr, ok := Next(tt.from, tt.trigger)
			require.True(t, ok)
			assert.Equal(t, tt.to, tr.To)
			assert.Equal(t, tt.mode, tr.Effect.Mode)
			assert.Equal(t, tt.hl, tr.Effect.Highlight)
			assert.Equal(t, tt.path, tr.Effect.Path)
			assert.Equal(t, tt.derived, tr.Effect.Derived)
		})
	}
}

func TestNext_UnlistedPairsAreRejected(t *testing.T) {
	listed := map[Phase]map[Trigger]bool{}
	for _, tr := range Table() {
		if listed[tr.From] == nil {
			listed[tr.From] = map[Trigger]bool{}
		}
		listed[tr.From][tr.Trigger] = true
	}

	for _, p := range Phases {
		for _, trg := range Triggers {
			_, ok := Next(p, trg)
			assert.Equal(t, listed[p][trg], ok, "%s/%s", p, trg)
		}
	}
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []Trigger{StartServe, StartReceive}, Available(Setup))
	assert.Equal(t, []Trigger{ServeExecuted}, Available(Serve))
	assert.Equal(t, []Trigger{ReceptionSuccessful}, Available(Receive))
	assert.Equal(t, []Trigger{AttackExecuted, PointLost}, Available(SetReady))
	assert.Equal(t, []Trigger{DigSuccessful, DigFailed}, Available(Defense))
}

func TestEveryPhaseHasAnExit(t *testing.T) {
	for _, p := range Phases {
		assert.NotEmpty(t, Available(p), "phase %s is terminal", p)
	}
}

func TestSetupIsOnlyReachableByReset(t *testing.T) {
	for _, tr := range Table() {
		assert.NotEqual(t, Setup, tr.To)
	}
	p, m := Reset()
	assert.Equal(t, Setup, p)
	assert.Equal(t, court.ModeActual, m)
}

func TestParseTrigger(t *testing.T) {
	trg, err := ParseTrigger("dig_failed")
	require.NoError(t, err)
	assert.Equal(t, DigFailed, trg)

	_, err = ParseTrigger("timeout")
	assert.ErrorIs(t, err, ErrUnknownTrigger)
}

func TestTable_ReturnsCopy(t *testing.T) {
	tbl := Table()
	tbl[0].To = Defense

	tr, ok := Next(Setup, StartServe)
	require.True(t, ok)
	assert.Equal(t, Serve, tr.To)
}
