package solver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunasat/lunasat/config"
)

// A test associates a CNF with its expected status.
type satTest struct {
	name     string
	cnf      [][]int
	expected Status
}

var satTests = []satTest{
	{"empty formula", nil, Sat},
	{"single unit", [][]int{{1}}, Sat},
	{"trivial unsat", [][]int{{1}, {-1}}, Unsat},
	{"unit chain", [][]int{{1}, {-1, 2}, {-2, 3}, {-3, 4}}, Sat},
	{"all units unsat", [][]int{{1, 2, 3}, {-1}, {-2}, {-3}}, Unsat},
	{"implications sat", [][]int{{1, 2}, {2, 3}, {-1, -4, 5}, {-1, 4, 6}, {-1, -5, 6}, {-1, 4, -6}, {-1, -5, -6}}, Sat},
	{"sat with chains", [][]int{{1}, {-2, 3}, {-2, 4}, {-5, 3}, {-5, 6}, {-7, 3}, {-7, 8}, {-9, 10}, {-9, 4}, {-1, 10}, {-1, 6}, {3, 10}, {-3, -10}, {4, 6, 8}}, Sat},
	{"pigeonhole 3 2", pigeonhole(3, 2), Unsat},
	{"pigeonhole 4 3", pigeonhole(4, 3), Unsat},
}

// pigeonhole returns the CNF stating that each of nbPigeons pigeons sits in a
// hole while no two share one; unsatisfiable whenever nbPigeons > nbHoles.
func pigeonhole(nbPigeons, nbHoles int) [][]int {
	slot := func(pigeon, hole int) int { return (pigeon-1)*nbHoles + hole }
	var cnf [][]int
	for p := 1; p <= nbPigeons; p++ {
		var clause []int
		for h := 1; h <= nbHoles; h++ {
			clause = append(clause, slot(p, h))
		}
		cnf = append(cnf, clause)
	}
	for h := 1; h <= nbHoles; h++ {
		for p1 := 1; p1 <= nbPigeons; p1++ {
			for p2 := p1 + 1; p2 <= nbPigeons; p2++ {
				cnf = append(cnf, []int{-slot(p1, h), -slot(p2, h)})
			}
		}
	}
	return cnf
}

// plantedInstance returns a pseudo-random 3-SAT instance built around a
// planted model, so it is satisfiable by construction. The generator is a
// plain LCG: tests must be deterministic.
func plantedInstance(nbVars, nbClauses int, seed uint64) [][]int {
	rnd := func() uint64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return seed >> 33
	}
	model := make([]bool, nbVars+1)
	for v := 1; v <= nbVars; v++ {
		model[v] = rnd()%2 == 0
	}
	cnf := make([][]int, 0, nbClauses)
	for len(cnf) < nbClauses {
		vars := [3]int{}
		for i := 0; i < 3; i++ {
			vars[i] = int(rnd()%uint64(nbVars)) + 1
		}
		if vars[0] == vars[1] || vars[0] == vars[2] || vars[1] == vars[2] {
			continue
		}
		clause := make([]int, 3)
		satisfied := false
		for i, v := range vars {
			if rnd()%2 == 0 {
				clause[i] = v
			} else {
				clause[i] = -v
			}
			if (clause[i] > 0) == model[v] {
				satisfied = true
			}
		}
		if !satisfied { // Flip one literal towards the planted model
			i := int(rnd() % 3)
			if model[vars[i]] {
				clause[i] = vars[i]
			} else {
				clause[i] = -vars[i]
			}
		}
		cnf = append(cnf, clause)
	}
	return cnf
}

// checkModel verifies that the model satisfies every clause of the CNF.
func checkModel(t *testing.T, cnf [][]int, model []bool) {
	t.Helper()
	for _, clause := range cnf {
		sat := false
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if (lit > 0) == model[v-1] {
				sat = true
				break
			}
		}
		require.True(t, sat, "clause %v not satisfied", clause)
	}
}

// newQuiet makes a default-configured solver with progress reporting off, so
// tests do not write tables on stdout.
func newQuiet(cnf [][]int) *Solver {
	cfg := config.Default()
	cfg.Progress = config.ProgressOff
	return NewWithConfig(ParseSlice(cnf), cfg)
}

func TestSolve(t *testing.T) {
	for _, test := range satTests {
		t.Run(test.name, func(t *testing.T) {
			s := newQuiet(test.cnf)
			status := s.Solve(context.Background())
			require.Equal(t, test.expected, status)
			if status == Sat {
				checkModel(t, test.cnf, s.Model())
			}
		})
	}
}

func TestSolveUnitChainModel(t *testing.T) {
	cnf := [][]int{{1}, {-1, 2}, {-2, 3}, {-3, 4}}
	s := newQuiet(cnf)
	require.Equal(t, Sat, s.Solve(context.Background()))
	assert.Equal(t, []bool{true, true, true, true}, s.Model())
}

func TestSolveEmptyFormula(t *testing.T) {
	s := newQuiet(nil)
	assert.Equal(t, Sat, s.Solve(context.Background()))
	assert.Empty(t, s.Model())
}

// Every heuristic and restart policy must agree on the verdict.
func TestSolveVerdictIndependence(t *testing.T) {
	heuristics := []config.Heuristic{
		config.HeuristicFirstUnassigned, config.HeuristicDecay,
		config.HeuristicVMTF, config.HeuristicVSIDS,
	}
	policies := []config.RestartPolicy{
		config.RestartNone, config.RestartFixed, config.RestartGeometric,
		config.RestartLuby, config.RestartGlucoseEma,
	}
	for _, test := range satTests {
		for _, h := range heuristics {
			for _, p := range policies {
				for _, inproc := range []bool{false, true} {
					name := fmt.Sprintf("%s/%s/%s/inproc=%v", test.name, h, p, inproc)
					t.Run(name, func(t *testing.T) {
						cfg := config.Default()
						cfg.Heuristic = h
						cfg.RestartPolicy = p
						cfg.Inprocessing = inproc
						cfg.Progress = config.ProgressOff
						s := NewWithConfig(ParseSlice(test.cnf), cfg)
						require.Equal(t, test.expected, s.Solve(context.Background()))
						if test.expected == Sat {
							checkModel(t, test.cnf, s.Model())
						}
					})
				}
			}
		}
	}
}

func TestSolvePlanted(t *testing.T) {
	cnf := plantedInstance(60, 240, 42)
	cfg := config.Default()
	cfg.Progress = config.ProgressOff
	s := NewWithConfig(ParseSlice(cnf), cfg)
	require.Equal(t, Sat, s.Solve(context.Background()))
	checkModel(t, cnf, s.Model())
	assert.Less(t, s.Stats.NbConflicts, 10000, "conflict budget blown")
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.Default()
	cfg.Progress = config.ProgressOff
	s := NewWithConfig(ParseSlice(pigeonhole(7, 6)), cfg)
	assert.Equal(t, Indet, s.Solve(ctx))
}

func TestSolveStats(t *testing.T) {
	cfg := config.Default()
	cfg.Progress = config.ProgressOff
	s := NewWithConfig(ParseSlice(pigeonhole(4, 3)), cfg)
	require.Equal(t, Unsat, s.Solve(context.Background()))
	assert.Greater(t, s.Stats.NbConflicts, 0)
	assert.Greater(t, s.Stats.NbPropagations, 0)
	assert.GreaterOrEqual(t, s.Stats.NbLearned, s.Stats.NbDeleted)
}
