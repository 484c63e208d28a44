package solver

import "sort"

// A watcher associates a clause with a blocking literal: another literal of
// the clause that, when true, proves the clause satisfied without loading its
// body.
type watcher struct {
	clause  *Clause
	blocker Lit
}

// A watcherList stores all clauses and the per-literal watch lists used to
// propagate unit literals efficiently. Watch lists are indexed by the literal
// whose becoming true falsifies the watched position, i.e wlist[l] holds the
// clauses where l.Negation() is one of the two watched literals.
type watcherList struct {
	wlistBin [][]watcher // For each literal, the binary clauses to inspect
	wlist    [][]watcher // For each literal, the longer clauses to inspect
	clauses  []*Clause   // Problem clauses, including BVE resolvents
	learned  []*Clause
}

// initWatcherList makes a new watcherList for the solver.
func (s *Solver) initWatcherList(clauses []*Clause) {
	newClauses := make([]*Clause, len(clauses), len(clauses)*2)
	copy(newClauses, clauses)
	s.wl = watcherList{
		wlistBin: make([][]watcher, s.nbVars*2),
		wlist:    make([][]watcher, s.nbVars*2),
		clauses:  newClauses,
	}
	for _, c := range clauses {
		s.watchClause(c)
	}
}

// watchClause installs watches on the first two literals of c.
func (s *Solver) watchClause(c *Clause) {
	first := c.First()
	second := c.Second()
	neg0 := first.Negation()
	neg1 := second.Negation()
	if c.Len() == 2 {
		s.wl.wlistBin[neg0] = append(s.wl.wlistBin[neg0], watcher{clause: c, blocker: second})
		s.wl.wlistBin[neg1] = append(s.wl.wlistBin[neg1], watcher{clause: c, blocker: first})
	} else {
		s.wl.wlist[neg0] = append(s.wl.wlist[neg0], watcher{clause: c, blocker: second})
		s.wl.wlist[neg1] = append(s.wl.wlist[neg1], watcher{clause: c, blocker: first})
	}
}

// Removes the watcher entry for c from lst.
// The entry *must* be present in lst.
func removeWatcher(lst []watcher, c *Clause) []watcher {
	i := 0
	for lst[i].clause != c {
		i++
	}
	last := len(lst) - 1
	lst[i] = lst[last]
	return lst[:last]
}

// unwatchClause removes both watch entries of c.
func (s *Solver) unwatchClause(c *Clause) {
	lists := s.wl.wlist
	if c.Len() == 2 {
		lists = s.wl.wlistBin
	}
	for i := 0; i < 2; i++ {
		neg := c.Get(i).Negation()
		lists[neg] = removeWatcher(lists[neg], c)
	}
}

// appendClause adds a problem clause of length >= 2 and watches it.
func (s *Solver) appendClause(c *Clause) {
	s.wl.clauses = append(s.wl.clauses, c)
	s.watchClause(c)
}

// addLearned adds a learned clause of length >= 2 and watches it.
func (s *Solver) addLearned(c *Clause) {
	s.wl.learned = append(s.wl.learned, c)
	s.watchClause(c)
	s.clauseBumpActivity(c)
}

// Decays each clause's activity.
func (s *Solver) clauseDecayActivity() {
	s.clauseInc *= 1 / clauseDecay
}

// Bumps the given clause's activity.
func (s *Solver) clauseBumpActivity(c *Clause) {
	if !c.Learned() {
		return
	}
	c.activity += s.clauseInc
	if c.activity > 1e30 { // Rescale to avoid overflow
		for _, c2 := range s.wl.learned {
			c2.activity *= 1e-30
		}
		s.clauseInc *= 1e-30
	}
}

// reduceLearned deletes roughly half of the learned clauses, keeping those
// most likely to be useful: low LBD, high activity, binary clauses and
// clauses currently acting as a reason.
func (s *Solver) reduceLearned() {
	learned := s.wl.learned
	sort.Slice(learned, func(i, j int) bool {
		if learned[i].lbd() != learned[j].lbd() {
			return learned[i].lbd() < learned[j].lbd()
		}
		return learned[i].activity > learned[j].activity
	})
	kept := learned[:0]
	limit := len(learned) / 2
	for i, c := range learned {
		if i < limit || c.lbd() <= 2 || c.Len() == 2 || c.isLocked() {
			kept = append(kept, c)
			continue
		}
		s.unwatchClause(c)
		s.cert.deleteClause(c.lits)
		s.Stats.NbDeleted++
	}
	for i := len(kept); i < len(learned); i++ {
		learned[i] = nil
	}
	s.wl.learned = kept
}
