// Package solver provides a conflict-driven clause learning SAT solver.
//
// A Problem is typically obtained by parsing a DIMACS CNF stream with
// ParseCNF (gzip input is handled transparently) or built programmatically
// with ParseSlice. A Solver then decides it:
//
//	pb, err := solver.ParseCNF(f)
//	if err != nil { ... }
//	s := solver.New(pb)
//	if s.Solve(context.Background()) == solver.Sat {
//		model := s.Model()
//		...
//	}
//
// The search couples trail-based unit propagation over two-watched-literal
// lists, First-UIP conflict analysis with clause minimization, LBD-guided
// deletion of learned clauses, configurable branching and restart policies,
// and bounded variable elimination between restarts. When a proof writer is
// attached with SetProofWriter, every clause the solver derives or drops is
// logged in the DRUP format, so unsatisfiability verdicts can be checked by
// an external tool (or the drup package).
package solver
