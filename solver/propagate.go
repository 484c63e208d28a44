package solver

// Boolean constraint propagation over the watch lists.

// assign binds lit at the given level with the given reason clause
// (nil for a decision or a root unit) and pushes it on the trail.
func (s *Solver) assign(lit Lit, reason *Clause, lvl decLevel) {
	v := lit.Var()
	s.model[v] = lvlToSignedLvl(lit, lvl)
	if reason != nil {
		s.reason[v] = reason
		reason.lock()
	}
	s.trail = append(s.trail, lit)
}

// litStatus returns whether the literal is made true (Sat) or false (Unsat) by
// the current bindings, or if it is unbound (Indet).
func (s *Solver) litStatus(l Lit) Status {
	assign := s.model[l.Var()]
	if assign == 0 {
		return Indet
	}
	if assign > 0 == l.IsPositive() {
		return Sat
	}
	return Unsat
}

// unifyLiteral binds the given literal and propagates to a fixed point.
// It returns the conflicting clause, or nil if no conflict arose. On conflict
// the trail still holds every assignment made, including the falsifying one.
func (s *Solver) unifyLiteral(lit Lit, lvl decLevel) *Clause {
	ptr := len(s.trail)
	s.assign(lit, nil, lvl)
	return s.propagateFrom(ptr, lvl)
}

// propagateFrom drains the propagation queue, i.e the portion of the trail
// starting at ptr, until a fixed point or a conflict is reached.
func (s *Solver) propagateFrom(ptr int, lvl decLevel) *Clause {
	for ptr < len(s.trail) {
		lit := s.trail[ptr]
		s.Stats.NbPropagations++
		if conflict := s.propagateLit(lit, lvl); conflict != nil {
			return conflict
		}
		ptr++
	}
	return nil
}

// propagateLit visits every clause watching the negation of the newly true
// lit. Each entry is either kept, moved to another watch list, or reported as
// the conflict.
func (s *Solver) propagateLit(lit Lit, lvl decLevel) *Clause {
	// Binary clauses first: the blocker is the whole clause body.
	for _, w := range s.wl.wlistBin[lit] {
		switch s.litStatus(w.blocker) {
		case Indet:
			if w.clause.First() != w.blocker {
				w.clause.swap(0, 1)
			}
			s.assign(w.blocker, w.clause, lvl)
		case Unsat:
			return w.clause
		}
	}
	ws := s.wl.wlist[lit]
	falseLit := lit.Negation()
	var conflict *Clause
	// Two-pointer in-place rewrite: i is the keep pointer, j the scan pointer.
	i, j := 0, 0
clauses:
	for j < len(ws) {
		w := ws[j]
		j++
		if s.litStatus(w.blocker) == Sat { // Clause already satisfied
			ws[i] = w
			i++
			continue
		}
		c := w.clause
		if c.First() == falseLit {
			c.swap(0, 1)
		}
		first := c.First()
		if first != w.blocker && s.litStatus(first) == Sat {
			ws[i] = watcher{clause: c, blocker: first}
			i++
			continue
		}
		for k := 2; k < c.Len(); k++ {
			if other := c.Get(k); s.litStatus(other) != Unsat {
				c.swap(1, k)
				neg := other.Negation()
				s.wl.wlist[neg] = append(s.wl.wlist[neg], watcher{clause: c, blocker: first})
				continue clauses // Entry moved: do not keep it here
			}
		}
		// No new watch: the clause is unit or conflicting under the assignment.
		ws[i] = w
		i++
		if s.litStatus(first) == Unsat {
			for ; j < len(ws); j++ { // Keep the remaining entries before bailing out
				ws[i] = ws[j]
				i++
			}
			conflict = c
			break
		}
		s.assign(first, c, lvl)
	}
	s.wl.wlist[lit] = ws[:i]
	return conflict
}
