package solver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lunasat/lunasat/config"
	"github.com/sirupsen/logrus"
)

const (
	reduceInterval = 2000 // Conflicts before the first learned-clause reduction
	reduceIncr     = 300  // By how much the interval grows after each reduction
)

// A Solver holds the whole state needed to decide a CNF problem. It is a
// single owning value: a host may construct several, fully independent ones.
type Solver struct {
	nbVars int
	status Status
	cfg    config.Config
	wl     watcherList
	trail  []Lit // Current assignment stack
	model  Model // 0 means unbound, other value is a binding & level
	// For each var, the clause that propagated it.
	// Nil for unbound vars and for decisions.
	reason     []*Clause
	polarity   []bool // Saved phase for each var
	eliminated []bool // Vars removed by BVE; branching must skip them
	elimTrace  []elimEntry
	lastModel  Model // Placeholder for the last model found
	heur       brancher
	rst        *restarter
	cert       *proof

	clauseInc            float32 // On each clause bump, how big the increment is
	conflictsSinceReduce int
	inprocessing         bool
	bveMaxLen            int
	bveOccCap            int
	bveSlack             int

	lbdStamps []uint32 // Per-level stamps for LBD computation
	lbdStamp  uint32
	bufLits   []Lit  // Buffer for learned clause assembly
	seenBuf   []bool // Buffer for met/metLvl during analysis
	bumpBuf   []Var  // Vars to bump after analysis
	arena     litArena

	startTime time.Time
	Stats     Stats // Statistics about the solving process.
}

// New makes a solver for the given problem, using the default configuration.
func New(pb *Problem) *Solver {
	return NewWithConfig(pb, config.Default())
}

// NewWithConfig makes a solver for the given problem and configuration.
// The configuration is expected to be valid (see config.Config.Validate).
func NewWithConfig(pb *Problem, cfg config.Config) *Solver {
	if pb.Status == Unsat {
		return &Solver{status: Unsat, cfg: cfg}
	}
	nbVars := pb.NbVars
	trailCap := nbVars
	if len(pb.Units) > trailCap {
		trailCap = len(pb.Units)
	}
	s := &Solver{
		nbVars:       nbVars,
		status:       pb.Status,
		cfg:          cfg,
		trail:        make([]Lit, len(pb.Units), trailCap),
		model:        pb.Model,
		reason:       make([]*Clause, nbVars),
		polarity:     make([]bool, nbVars),
		eliminated:   make([]bool, nbVars),
		clauseInc:    1.0,
		inprocessing: cfg.Inprocessing,
		bveMaxLen:    cfg.BveMaxResolventLen,
		bveOccCap:    cfg.BveOccurrenceCap,
		bveSlack:     cfg.BveSlack,
		lbdStamps:    make([]uint32, nbVars+2),
		bufLits:      make([]Lit, nbVars+1),
		seenBuf:      make([]bool, nbVars*2),
		bumpBuf:      make([]Var, 0, nbVars),
	}
	if cfg.PhaseTrue {
		for i := range s.polarity {
			s.polarity[i] = true
		}
	}
	s.initWatcherList(pb.Clauses)
	switch cfg.Heuristic {
	case config.HeuristicFirstUnassigned:
		s.heur = newFirstUnassigned(s)
	case config.HeuristicDecay:
		s.heur = newDecayBrancher(s)
	case config.HeuristicVMTF:
		s.heur = newVMTF(s)
	default:
		s.heur = newVSIDS(s)
	}
	switch cfg.RestartPolicy {
	case config.RestartNone:
		s.rst = newRestarter(RestartNone)
	case config.RestartFixed:
		s.rst = newRestarter(RestartFixed)
	case config.RestartGeometric:
		s.rst = newRestarter(RestartGeometric)
	case config.RestartLuby:
		s.rst = newRestarter(RestartLuby)
	default:
		s.rst = newRestarter(RestartGlucose)
	}
	for i, lit := range pb.Units {
		if lit.IsPositive() {
			s.model[lit.Var()] = 1
		} else {
			s.model[lit.Var()] = -1
		}
		s.trail[i] = lit
	}
	return s
}

// SetProofWriter directs DRUP records to w. Must be called before Solve.
func (s *Solver) SetProofWriter(w io.Writer) {
	s.cert = newProof(w)
}

// ProofError returns the first error met by the proof sink, if any.
func (s *Solver) ProofError() error {
	return s.cert.flush()
}

// propagateAndSearch assigns the given literal, propagates it and keeps
// searching until a model is found, unsatisfiability is proven, a restart is
// needed or the context is done.
func (s *Solver) propagateAndSearch(ctx context.Context, lit Lit, lvl decLevel) Status {
	shouldRestart := false
	for lit != -1 {
		if ctx.Err() != nil {
			return Indet
		}
		if conflict := s.unifyLiteral(lit, lvl); conflict == nil { // Pick a new branch, or restart
			if shouldRestart {
				s.cleanupBindings(baseLevel)
				s.rst.onRestart()
				if s.inprocessing {
					if s.inprocess(ctx) == Unsat {
						return s.setUnsat()
					}
				}
				return Indet
			}
			if s.conflictsSinceReduce >= reduceInterval+reduceIncr*s.Stats.NbReduces {
				s.conflictsSinceReduce = 0
				s.Stats.NbReduces++
				s.reduceLearned()
			}
			lvl++
			lit = s.chooseLit()
		} else { // Deal with the conflict
			s.Stats.NbConflicts++
			s.conflictsSinceReduce++
			learnt, btLevel, unit := s.learnClause(conflict, lvl)
			if learnt == nil { // A unit clause was learned: this lit is known for sure
				s.cert.addUnit(unit)
				if abs(s.model[unit.Var()]) == baseLevel && s.litStatus(unit) == Unsat {
					return s.setUnsat() // Contradicts a root assignment
				}
				s.Stats.NbUnitLearned++
				s.rst.onConflict(1, len(s.trail))
				s.cleanupBindings(baseLevel)
				s.rst.onRestart()
				if s.litStatus(unit) == Indet {
					if conflict = s.unifyLiteral(unit, baseLevel); conflict != nil {
						return s.setUnsat()
					}
				}
				s.heur.rebuild()
				shouldRestart = false
				lit = s.chooseLit()
				lvl = baseLevel + 1
			} else {
				if learnt.Len() == 2 {
					s.Stats.NbBinaryLearned++
				}
				s.Stats.NbLearned++
				s.cert.addClause(learnt.lits)
				shouldRestart = s.rst.onConflict(learnt.lbd(), len(s.trail))
				lvl = btLevel
				s.cleanupBindings(lvl)
				s.addLearned(learnt)
				lit = learnt.First()
				s.reason[lit.Var()] = learnt
				learnt.lock()
			}
		}
	}
	return Sat
}

// Sets the status to unsat and closes the proof.
func (s *Solver) setUnsat() Status {
	s.cert.addEmpty()
	if err := s.cert.flush(); err != nil {
		logrus.WithError(err).Error("proof sink failed")
	}
	s.status = Unsat
	return Unsat
}

// search runs one restart epoch.
func (s *Solver) search(ctx context.Context) Status {
	lvl := baseLevel + 1 // baseLevel holds root assignments; decisions start above it
	s.status = s.propagateAndSearch(ctx, s.chooseLit(), lvl)
	return s.status
}

// Solve solves the problem associated with the solver and returns Sat or
// Unsat, or Indet when the context was cancelled first.
func (s *Solver) Solve(ctx context.Context) Status {
	s.startTime = time.Now()
	defer func() {
		s.Stats.Duration = time.Since(s.startTime)
	}()
	if s.status == Unsat { // Trivially unsat at parse time
		s.cert.addEmpty()
		if err := s.cert.flush(); err != nil {
			logrus.WithError(err).Error("proof sink failed")
		}
		return s.status
	}
	s.status = Indet
	stop := s.startProgress()
	defer close(stop)
	if s.inprocessing { // One preprocessing-style pass before the first epoch
		if s.inprocess(ctx) == Unsat {
			return s.setUnsat()
		}
	}
	for s.status == Indet {
		if ctx.Err() != nil {
			if err := s.cert.flush(); err != nil {
				logrus.WithError(err).Error("proof sink failed")
			}
			return Indet // Cancelled: the model, if any, is not trusted
		}
		s.search(ctx)
		if s.status == Indet && ctx.Err() == nil {
			s.Stats.NbRestarts++
			s.heur.rebuild()
		}
	}
	if s.status == Sat {
		s.extendModel()
		if !s.verifyModel() {
			panic("model verification failed")
		}
		s.lastModel = make(Model, len(s.model))
		copy(s.lastModel, s.model)
	}
	if err := s.cert.flush(); err != nil {
		logrus.WithError(err).Error("proof sink failed")
	}
	return s.status
}

// extendModel turns the partial assignment left by the search into a total
// model: unbound vars get their saved phase, eliminated vars are recovered
// from the elimination trace.
func (s *Solver) extendModel() {
	for v := 0; v < s.nbVars; v++ {
		if s.model[v] == 0 && !s.eliminated[v] {
			if s.polarity[v] {
				s.model[v] = 1
			} else {
				s.model[v] = -1
			}
		}
	}
	s.reconstructModel()
}

// verifyModel checks the model against every problem clause, including the
// clauses BVE removed.
func (s *Solver) verifyModel() bool {
	for _, c := range s.wl.clauses {
		if c.isDeleted() {
			continue
		}
		sat := false
		for _, l := range c.lits {
			if s.litStatus(l) == Sat {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	for _, e := range s.elimTrace {
		for _, lits := range e.clauses {
			sat := false
			for _, l := range lits {
				if s.litStatus(l) == Sat {
					sat = true
					break
				}
			}
			if !sat {
				return false
			}
		}
	}
	return true
}

// Model returns a slice associating, to each variable, its binding.
// If s's status is not Sat, the method will panic.
func (s *Solver) Model() []bool {
	if s.lastModel == nil {
		panic("cannot call Model() on a non-Sat solver")
	}
	res := make([]bool, s.nbVars)
	for i, lvl := range s.lastModel {
		res[i] = lvl > 0
	}
	return res
}

// OutputModel writes the result on stdout in the DIMACS output format.
func (s *Solver) OutputModel() {
	switch {
	case s.status == Sat || s.lastModel != nil:
		fmt.Printf("s SATISFIABLE\n")
		model := s.model
		if s.lastModel != nil {
			model = s.lastModel
		}
		const perLine = 10
		for i := 0; i < len(model); i += perLine {
			fmt.Printf("v")
			for j := i; j < i+perLine && j < len(model); j++ {
				if model[j] < 0 {
					fmt.Printf(" %d", -j-1)
				} else {
					fmt.Printf(" %d", j+1)
				}
			}
			if i+perLine >= len(model) {
				fmt.Printf(" 0")
			}
			fmt.Printf("\n")
		}
		if len(model) == 0 {
			fmt.Printf("v 0\n")
		}
	case s.status == Unsat:
		fmt.Printf("s UNSATISFIABLE\n")
	default:
		fmt.Printf("s UNKNOWN\n")
	}
}
