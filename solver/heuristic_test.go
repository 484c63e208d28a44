package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunasat/lunasat/config"
)

func testSolver(t *testing.T, h config.Heuristic) *Solver {
	t.Helper()
	cfg := config.Default()
	cfg.Heuristic = h
	cfg.Progress = config.ProgressOff
	cfg.Inprocessing = false
	// Enough vars to play with; clauses keep all of them alive.
	return NewWithConfig(ParseSlice([][]int{{1, 2, 3, 4}, {-1, -2, -3, -4}}), cfg)
}

func TestFirstUnassignedOrder(t *testing.T) {
	s := testSolver(t, config.HeuristicFirstUnassigned)
	lit := s.heur.pick()
	require.Equal(t, Var(0), lit.Var())
	assert.False(t, lit.IsPositive(), "default phase is false")
	s.assign(lit, nil, 2)
	assert.Equal(t, Var(1), s.heur.pick().Var())
}

func TestFirstUnassignedSkipsEliminated(t *testing.T) {
	s := testSolver(t, config.HeuristicFirstUnassigned)
	s.eliminated[0] = true
	assert.Equal(t, Var(1), s.heur.pick().Var())
}

func TestDecayDrainsRecentlyUnassigned(t *testing.T) {
	s := testSolver(t, config.HeuristicDecay)
	s.heur.onUnassign(Var(2))
	assert.Equal(t, Var(2), s.heur.pick().Var())
	// FIFO empty again: fall back to scan order.
	assert.Equal(t, Var(0), s.heur.pick().Var())
}

func TestVMTFMovesConflictVarsToFront(t *testing.T) {
	s := testSolver(t, config.HeuristicVMTF)
	assert.Equal(t, Var(0), s.heur.pick().Var())
	s.heur.onConflict([]Var{2, 3})
	assert.Equal(t, Var(3), s.heur.pick().Var(), "last moved var sits at the head")
	s.assign(IntToLit(-4), nil, 2)
	assert.Equal(t, Var(2), s.heur.pick().Var())
}

func TestVSIDSPicksMostActive(t *testing.T) {
	s := testSolver(t, config.HeuristicVSIDS)
	s.heur.onConflict([]Var{2})
	assert.Equal(t, Var(2), s.heur.pick().Var())
}

func TestVSIDSSkipsAssigned(t *testing.T) {
	s := testSolver(t, config.HeuristicVSIDS)
	s.heur.onConflict([]Var{1})
	s.assign(IntToLit(-2), nil, 2)
	assert.NotEqual(t, Var(1), s.heur.pick().Var())
}

func TestVSIDSReinsertsOnUnassign(t *testing.T) {
	s := testSolver(t, config.HeuristicVSIDS)
	s.heur.onConflict([]Var{3})
	lit := s.heur.pick()
	require.Equal(t, Var(3), lit.Var())
	s.assign(lit, nil, 2)
	s.cleanupBindings(baseLevel) // Saves phase and notifies the brancher
	got := s.heur.pick()
	assert.Equal(t, Var(3), got.Var())
	assert.Equal(t, lit, got, "saved phase must be replayed")
}

func TestPhaseSaving(t *testing.T) {
	s := testSolver(t, config.HeuristicFirstUnassigned)
	s.assign(IntToLit(1), nil, 2) // Positive, against the default phase
	s.cleanupBindings(baseLevel)
	lit := s.heur.pick()
	require.Equal(t, Var(0), lit.Var())
	assert.True(t, lit.IsPositive(), "saved phase overrides the default")
}
