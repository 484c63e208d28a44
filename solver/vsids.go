package solver

const (
	clauseDecay     = 0.999 // By how much clause bumping decays over time.
	defaultVarDecay = 0.8   // Initial var decay; ramps up to maxVarDecay during search.
	maxVarDecay     = 0.95
	varDecayRamp    = 5000 // Conflicts between two var-decay increments.
)

// vsidsBrancher implements EVSIDS: each variable carries a floating-point
// activity, conflicts bump participants by a growing increment, and a lazy
// max-heap orders the candidates. Instead of decaying every score on each
// conflict, the increment itself is multiplied by 1/decay; activities and
// increment are rescaled when a bumped activity exceeds 1e100.
type vsidsBrancher struct {
	s           *Solver
	activity    []float64
	varInc      float64
	varDecay    float64
	nbConflicts int
	order       queue
}

func newVSIDS(s *Solver) *vsidsBrancher {
	h := &vsidsBrancher{
		s:        s,
		activity: make([]float64, s.nbVars),
		varInc:   1.0,
		varDecay: defaultVarDecay,
	}
	h.order = newQueue(h.activity)
	return h
}

func (h *vsidsBrancher) bump(v Var) {
	h.activity[v] += h.varInc
	if h.activity[v] > 1e100 { // Rescaling is needed to avoid overflowing
		for i := range h.activity {
			h.activity[i] *= 1e-100
		}
		h.varInc *= 1e-100
	}
	if h.order.contains(int(v)) {
		h.order.decrease(int(v))
	}
}

func (h *vsidsBrancher) onConflict(vars []Var) {
	for _, v := range vars {
		h.bump(v)
	}
	h.nbConflicts++
	if h.nbConflicts%varDecayRamp == 0 && h.varDecay < maxVarDecay {
		h.varDecay += 0.01
	}
	h.varInc *= 1 / h.varDecay
}

func (h *vsidsBrancher) pick() Lit {
	for !h.order.empty() {
		if v := Var(h.order.removeMin()); h.s.pickable(v) {
			return h.s.phaseLit(v)
		}
	}
	return -1
}

func (h *vsidsBrancher) onUnassign(v Var) {
	if !h.order.contains(int(v)) {
		h.order.insert(int(v))
	}
}

func (h *vsidsBrancher) onNewClause(lits []Lit) {}

func (h *vsidsBrancher) rebuild() {
	ints := make([]int, 0, h.s.nbVars)
	for v := 0; v < h.s.nbVars; v++ {
		if h.s.pickable(Var(v)) {
			ints = append(ints, v)
		}
	}
	h.order.build(ints)
}
