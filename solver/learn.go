package solver

import "sort"

// First-UIP conflict analysis over the implication graph.

// maxMinimizeDepth bounds the recursion of the self-subsumption check.
const maxMinimizeDepth = 64

// addConflictLits deals with the lits of the conflicting clause itself.
// It marks them in met/metLvl and returns how many of them belong to the
// current decision level.
func (s *Solver) addConflictLits(confl *Clause, lvl decLevel, met, metLvl []bool, lits *[]Lit) int {
	nbLvl := 0
	for i := 0; i < confl.Len(); i++ {
		l := confl.Get(i)
		v := l.Var()
		met[v] = true
		s.bumpBuf = append(s.bumpBuf, v)
		if abs(s.model[v]) == lvl {
			metLvl[v] = true
			nbLvl++
		} else if abs(s.model[v]) != baseLevel {
			*lits = append(*lits, l)
		}
	}
	return nbLvl
}

// learnClause resolves the conflicting clause against reason clauses, walking
// the trail backward, until a single literal of the current level remains:
// the First-UIP. It returns either the learned clause (len >= 2) together
// with its backjump level, or a nil clause and a unit literal when the
// learned clause has length 1.
func (s *Solver) learnClause(confl *Clause, lvl decLevel) (learned *Clause, btLevel decLevel, unit Lit) {
	s.clauseBumpActivity(confl)
	s.bumpBuf = s.bumpBuf[:0]
	lits := s.bufLits[:1] // Position 0 is reserved for the asserting literal
	buf := s.seenBuf
	for i := range buf {
		buf[i] = false
	}
	met := buf[:s.nbVars]    // Vars already met during resolution
	metLvl := buf[s.nbVars:] // Met vars belonging to the current level
	nbLvl := s.addConflictLits(confl, lvl, met, metLvl, &lits)
	ptr := len(s.trail) - 1
	for nbLvl > 1 { // Stop once a single lit of the current level remains
		for !metLvl[s.trail[ptr].Var()] {
			ptr--
		}
		v := s.trail[ptr].Var()
		ptr--
		nbLvl--
		metLvl[v] = false
		reason := s.reason[v]
		if reason == nil {
			continue // Decision var: nothing to resolve with
		}
		s.clauseBumpActivity(reason)
		s.bumpDownLBD(reason)
		for i := 0; i < reason.Len(); i++ {
			l := reason.Get(i)
			v2 := l.Var()
			if v2 == v || met[v2] {
				continue
			}
			met[v2] = true
			s.bumpBuf = append(s.bumpBuf, v2)
			if abs(s.model[v2]) == lvl {
				metLvl[v2] = true
				nbLvl++
			} else if abs(s.model[v2]) != baseLevel {
				lits = append(lits, l)
			}
		}
	}
	// The last met var of the current level is the First-UIP.
	for !metLvl[s.trail[ptr].Var()] {
		ptr--
	}
	lits[0] = s.trail[ptr].Negation()
	s.clauseDecayActivity()
	sortLiterals(lits, s.model)
	sz := s.minimizeLearned(met, lits)
	s.heur.onConflict(s.bumpBuf)
	if sz == 1 {
		return nil, 0, lits[0]
	}
	learned = NewLearnedClause(s.arena.newLits(lits[:sz]...))
	learned.setLbd(s.computeLBD(learned.lits))
	s.heur.onNewClause(learned.lits)
	return learned, abs(s.model[learned.Second().Var()]), -1
}

// minimizeLearned removes the learned lits whose negation is implied by the
// rest of the clause (self-subsuming resolution), and returns the new size.
// The asserting literal at position 0 is never removed.
func (s *Solver) minimizeLearned(met []bool, learned []Lit) int {
	sz := 1
	for i := 1; i < len(learned); i++ {
		v := learned[i].Var()
		if s.reason[v] == nil || !s.litRedundant(v, met, 0) {
			learned[sz] = learned[i]
			sz++
		}
	}
	return sz
}

// litRedundant reports whether the assignment of v is implied by literals
// already met during analysis, following reason clauses up to a bounded
// depth. Proven vars are marked met, memoizing the result for the rest of
// the minimization pass.
func (s *Solver) litRedundant(v Var, met []bool, depth int) bool {
	reason := s.reason[v]
	if reason == nil || depth > maxMinimizeDepth {
		return false
	}
	for i := 0; i < reason.Len(); i++ {
		l := reason.Get(i)
		v2 := l.Var()
		if v2 == v || met[v2] || abs(s.model[v2]) == baseLevel {
			continue
		}
		if !s.litRedundant(v2, met, depth+1) {
			return false
		}
	}
	met[v] = true
	return true
}

// clauseSorter sorts the lits of a learned clause by decreasing decision
// level, so that the asserting literal stays first and the backjump target
// ends up second: those are exactly the two positions that get watched.
type clauseSorter struct {
	lits  []Lit
	model Model
}

func (cs *clauseSorter) Len() int { return len(cs.lits) }
func (cs *clauseSorter) Less(i, j int) bool {
	return abs(cs.model[cs.lits[i].Var()]) > abs(cs.model[cs.lits[j].Var()])
}
func (cs *clauseSorter) Swap(i, j int) { cs.lits[i], cs.lits[j] = cs.lits[j], cs.lits[i] }

func sortLiterals(lits []Lit, model []decLevel) {
	sort.Sort(&clauseSorter{lits, model})
}
