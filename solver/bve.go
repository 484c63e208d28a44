package solver

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Bounded variable elimination, run between search epochs at the root level.
// Eliminating a variable v replaces the clauses mentioning v by the
// non-tautological resolvents of its positive and negative occurrences,
// whenever that does not grow the database. The replaced clauses are saved on
// an elimination trace so the model can be extended back over v after SAT.

// bveBudgetShare caps the total wall-clock share spent inprocessing.
const bveBudgetShare = 0.1

// bveTimeCheckEvery is how many candidates are tried between budget checks.
const bveTimeCheckEvery = 16

// An elimEntry saves the clauses removed when v was eliminated.
type elimEntry struct {
	v       Var
	clauses [][]Lit
}

// inprocess runs one budgeted BVE pass. It must be called at the root level,
// right after a restart. It returns Unsat when elimination derives the empty
// clause, Indet otherwise (including when interrupted).
func (s *Solver) inprocess(ctx context.Context) Status {
	elapsed := time.Since(s.startTime)
	if s.Stats.BveDuration > time.Duration(bveBudgetShare*float64(elapsed)) {
		return Indet
	}
	start := time.Now()
	defer func() {
		s.Stats.BveDuration += time.Since(start)
	}()
	budget := time.Duration(bveBudgetShare*float64(elapsed+time.Second)) - s.Stats.BveDuration

	// Occurrence lists over the problem clauses. Learned clauses are not
	// resolved on; variables mentioned by one are frozen for this pass.
	occ := make([][]*Clause, s.nbVars*2)
	for _, c := range s.wl.clauses {
		for _, l := range c.lits {
			occ[l] = append(occ[l], c)
		}
	}
	frozen := make([]bool, s.nbVars)
	for _, c := range s.wl.learned {
		for _, l := range c.lits {
			frozen[l.Var()] = true
		}
	}
	type candidate struct {
		v       Var
		product int
	}
	cands := make([]candidate, 0, s.nbVars)
	for i := 0; i < s.nbVars; i++ {
		v := Var(i)
		if s.model[v] != 0 || s.eliminated[v] || frozen[v] {
			continue
		}
		product := len(occ[v.Lit()]) * len(occ[v.Lit().Negation()])
		if product > s.bveOccCap {
			continue
		}
		cands = append(cands, candidate{v: v, product: product})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].product < cands[j].product })

	eliminated, resolvents := 0, 0
	for i, cand := range cands {
		if i%bveTimeCheckEvery == 0 {
			if ctx.Err() != nil || time.Since(start) > budget {
				break
			}
		}
		if s.model[cand.v] != 0 { // Bound by a unit propagated meanwhile
			continue
		}
		nb, st := s.tryEliminate(cand.v, occ)
		if st == Unsat {
			return Unsat
		}
		if nb >= 0 {
			eliminated++
			resolvents += nb
		}
	}
	s.Stats.NbEliminated += eliminated
	s.Stats.NbResolvents += resolvents
	if eliminated > 0 {
		s.compactClauses()
		s.heur.rebuild()
		logrus.WithFields(logrus.Fields{
			"eliminated": eliminated,
			"resolvents": resolvents,
			"clauses":    len(s.wl.clauses),
		}).Debug("bve pass done")
	}
	return Indet
}

// tryEliminate attempts to eliminate v. It returns the number of resolvents
// added and Indet, or (-1, Indet) when v was not eliminated, or Unsat when an
// empty resolvent was derived.
func (s *Solver) tryEliminate(v Var, occ [][]*Clause) (int, Status) {
	pos := liveClauses(occ[v.Lit()])
	neg := liveClauses(occ[v.Lit().Negation()])
	for _, c := range pos {
		if c.lbdValue&lockedMask != 0 {
			return -1, Indet // Reason of a root assignment: leave it alone
		}
	}
	for _, c := range neg {
		if c.lbdValue&lockedMask != 0 {
			return -1, Indet
		}
	}
	limit := len(pos) + len(neg) + s.bveSlack
	resolvents := make([][]Lit, 0, limit)
	for _, p := range pos {
		for _, n := range neg {
			lits, ok := s.resolve(p, n, v)
			if !ok {
				continue
			}
			if len(lits) > s.bveMaxLen {
				return -1, Indet
			}
			resolvents = append(resolvents, lits)
			if len(resolvents) > limit {
				return -1, Indet // Elimination would grow the database
			}
		}
	}

	// Commit: add the resolvents, save and drop the occurrences of v.
	entry := elimEntry{v: v}
	for _, c := range append(pos, neg...) {
		saved := make([]Lit, c.Len())
		copy(saved, c.lits)
		entry.clauses = append(entry.clauses, saved)
	}
	var units []Lit
	for _, lits := range resolvents {
		s.cert.addClause(lits)
		// Simplify against the root assignment before watching: watches
		// must sit on non-false literals.
		kept := lits[:0]
		sat := false
		for _, l := range lits {
			switch s.litStatus(l) {
			case Sat:
				sat = true
			case Indet:
				kept = append(kept, l)
			}
			if sat {
				break
			}
		}
		if sat {
			continue
		}
		switch len(kept) {
		case 0:
			return 0, Unsat
		case 1:
			units = append(units, kept[0])
		default:
			c := NewClause(s.arena.newLits(kept...))
			s.appendClause(c)
			for _, l := range kept {
				occ[l] = append(occ[l], c)
			}
		}
	}
	for _, c := range append(pos, neg...) {
		c.setDeleted()
		s.unwatchClause(c)
		s.cert.deleteClause(c.lits)
	}
	s.eliminated[v] = true
	s.elimTrace = append(s.elimTrace, entry)

	// New units propagate right away; a root conflict means Unsat.
	for _, unit := range units {
		switch s.litStatus(unit) {
		case Sat:
			continue
		case Unsat:
			return 0, Unsat
		}
		if conflict := s.unifyLiteral(unit, baseLevel); conflict != nil {
			return 0, Unsat
		}
	}
	return len(resolvents), Indet
}

// resolve returns the resolvent of p and n on v, deduplicated, or ok=false
// when the resolvent is a tautology.
func (s *Solver) resolve(p, n *Clause, v Var) (lits []Lit, ok bool) {
	lits = make([]Lit, 0, p.Len()+n.Len()-2)
	for _, c := range [2]*Clause{p, n} {
		for _, l := range c.lits {
			if l.Var() == v {
				continue
			}
			dup := false
			for _, l2 := range lits {
				if l2 == l {
					dup = true
					break
				}
				if l2 == l.Negation() {
					return nil, false
				}
			}
			if !dup {
				lits = append(lits, l)
			}
		}
	}
	return lits, true
}

// liveClauses filters out tombstoned clauses.
func liveClauses(clauses []*Clause) []*Clause {
	live := make([]*Clause, 0, len(clauses))
	for _, c := range clauses {
		if !c.isDeleted() {
			live = append(live, c)
		}
	}
	return live
}

// compactClauses drops tombstoned clauses from the problem clause list.
func (s *Solver) compactClauses() {
	kept := s.wl.clauses[:0]
	for _, c := range s.wl.clauses {
		if !c.isDeleted() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(s.wl.clauses); i++ {
		s.wl.clauses[i] = nil
	}
	s.wl.clauses = kept
}

// reconstructModel extends the model over eliminated variables, walking the
// elimination trace in reverse. Each variable is set so that every clause
// saved at its elimination is satisfied; soundness of the elimination
// guarantees one of the two phases works.
func (s *Solver) reconstructModel() {
	for i := len(s.elimTrace) - 1; i >= 0; i-- {
		e := s.elimTrace[i]
		negLit := e.v.Lit().Negation()
		val := decLevel(1)
		for _, lits := range e.clauses {
			if containsLit(lits, negLit) && !s.satisfiedWithout(lits, e.v) {
				val = -1
				break
			}
		}
		s.model[e.v] = val
	}
}

func containsLit(lits []Lit, lit Lit) bool {
	for _, l := range lits {
		if l == lit {
			return true
		}
	}
	return false
}

// satisfiedWithout is true iff some literal of lits not belonging to v is
// true under the current model.
func (s *Solver) satisfiedWithout(lits []Lit, v Var) bool {
	for _, l := range lits {
		if l.Var() != v && s.litStatus(l) == Sat {
			return true
		}
	}
	return false
}
