package solver

import (
	"fmt"
	"time"
)

// Stats are statistics about the resolution of the problem.
// They are provided for information purpose only.
type Stats struct {
	NbRestarts      int
	NbConflicts     int
	NbDecisions     int
	NbPropagations  int
	NbUnitLearned   int // How many unit clauses were learned
	NbBinaryLearned int // How many binary clauses were learned
	NbLearned       int // How many non-unit clauses were learned
	NbDeleted       int // How many learned clauses were deleted
	NbReduces       int // How many reduction passes ran
	NbEliminated    int // How many variables BVE eliminated
	NbResolvents    int // How many resolvent clauses BVE added
	Duration        time.Duration
	BveDuration     time.Duration
}

// OutputStats writes the statistics as DIMACS comment lines on stdout.
func (s *Solver) OutputStats() {
	st := s.Stats
	fmt.Printf("c restarts:     %d\n", st.NbRestarts)
	fmt.Printf("c conflicts:    %d\n", st.NbConflicts)
	fmt.Printf("c decisions:    %d\n", st.NbDecisions)
	fmt.Printf("c propagations: %d\n", st.NbPropagations)
	fmt.Printf("c learned:      %d (%d units, %d binary)\n", st.NbLearned+st.NbUnitLearned, st.NbUnitLearned, st.NbBinaryLearned)
	fmt.Printf("c deleted:      %d in %d reductions\n", st.NbDeleted, st.NbReduces)
	if s.inprocessing {
		fmt.Printf("c eliminated:   %d vars, %d resolvents (%.3fs)\n", st.NbEliminated, st.NbResolvents, st.BveDuration.Seconds())
	}
	fmt.Printf("c time:         %.3fs\n", st.Duration.Seconds())
}
