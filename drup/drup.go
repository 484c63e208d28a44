// Package drup checks DRUP certificates: every added clause must be derivable
// from the current clause set by reverse unit propagation, and `d` lines drop
// clauses from that set. This package does not use solver's representation:
// it is deliberately simple, so that it is easy to audit.
package drup

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Problem is a conjunction of clauses over ints, in the DIMACS convention.
type Problem struct {
	Clauses [][]int
	NbVars  int
	units   []int // For each var, 0 if the var is unbound, 1 if true, -1 if false
}

// parseClause parses the fields of a line representing a clause, dropping the
// final 0.
func parseClause(fields []string) ([]int, error) {
	clause := make([]int, 0, len(fields)-1)
	for _, rawLit := range fields {
		lit, err := strconv.Atoi(rawLit)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse clause %v", fields)
		}
		if lit != 0 {
			clause = append(clause, lit)
		}
	}
	return clause, nil
}

// ParseCNF parses a CNF and returns the associated problem.
func ParseCNF(r io.Reader) (*Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var pb Problem
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "c":
			continue
		case "p":
			if len(fields) != 4 {
				return nil, errors.Errorf("invalid header %v", fields)
			}
			nbVars, err := strconv.Atoi(fields[2])
			if err != nil || nbVars < 0 {
				return nil, errors.Errorf("invalid number of vars %q", fields[2])
			}
			pb.NbVars = nbVars
		default:
			clause, err := parseClause(fields)
			if err != nil {
				return nil, err
			}
			for _, lit := range clause {
				if v := abs(lit); v > pb.NbVars {
					pb.NbVars = v
				}
			}
			pb.Clauses = append(pb.Clauses, clause)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "could not parse problem")
	}
	pb.units = make([]int, pb.NbVars)
	return &pb, nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// grow extends the binding table when a certificate mentions a var the
// original problem did not.
func (pb *Problem) grow(clause []int) {
	for _, lit := range clause {
		for v := abs(lit); v > len(pb.units); {
			pb.units = append(pb.units, 0)
		}
	}
	if len(pb.units) > pb.NbVars {
		pb.NbVars = len(pb.units)
	}
}

// unsat is true iff the problem can be refuted by unit propagation alone.
// pb.units is modified during the check and restored before returning.
func (pb *Problem) unsat() bool {
	oldUnits := make([]int, len(pb.units))
	copy(oldUnits, pb.units)
	defer copy(pb.units, oldUnits)
	done := make([]bool, len(pb.Clauses))
	modified := true
	for modified {
		modified = false
		for i, clause := range pb.Clauses {
			if done[i] {
				continue
			}
			unbound := 0
			var unit int
			sat := false
			for _, lit := range clause {
				binding := pb.units[abs(lit)-1]
				if binding == 0 {
					unbound++
					if unbound == 1 {
						unit = lit
					} else {
						break
					}
				} else if binding*lit > 0 {
					sat = true
					break
				}
			}
			if sat {
				done[i] = true
				continue
			}
			if unbound == 0 {
				return true // All lits false: refuted
			}
			if unbound == 1 {
				if unit < 0 {
					pb.units[-unit-1] = -1
				} else {
					pb.units[unit-1] = 1
				}
				done[i] = true
				modified = true
			}
		}
	}
	return false
}

// rup is true iff the clause is derivable from the problem by reverse unit
// propagation: assuming the negation of each of its literals must yield a
// refutation by unit propagation.
func (pb *Problem) rup(clause []int) bool {
	oldUnits := make([]int, len(pb.units))
	copy(oldUnits, pb.units)
	defer copy(pb.units, oldUnits)
	for _, lit := range clause {
		if lit > 0 {
			pb.units[lit-1] = -1
		} else {
			pb.units[-lit-1] = 1
		}
	}
	return pb.unsat()
}

// deleteClause removes the first clause equal, as a set, to the given one.
// Unknown clauses are ignored: deleting too little never endangers soundness.
func (pb *Problem) deleteClause(clause []int) {
	key := sortedKey(clause)
	for i, c := range pb.Clauses {
		if len(c) == len(clause) && sortedKey(c) == key {
			pb.Clauses[i] = pb.Clauses[len(pb.Clauses)-1]
			pb.Clauses = pb.Clauses[:len(pb.Clauses)-1]
			return
		}
	}
}

func sortedKey(clause []int) string {
	lits := make([]int, len(clause))
	copy(lits, clause)
	sort.Ints(lits)
	var sb strings.Builder
	for _, l := range lits {
		sb.WriteString(strconv.Itoa(l))
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Check replays a DRUP certificate against the problem and reports whether it
// is a valid refutation. The problem is modified in the process.
func Check(pb *Problem, cert io.Reader) (valid bool, err error) {
	sc := bufio.NewScanner(cert)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] == "c" {
			continue
		}
		if fields[0] == "d" {
			clause, err := parseClause(fields[1:])
			if err != nil {
				return false, err
			}
			pb.deleteClause(clause)
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue // Not a clause: ignore the line
		}
		clause, err := parseClause(fields)
		if err != nil {
			return false, err
		}
		pb.grow(clause)
		if !pb.rup(clause) {
			return false, nil
		}
		if len(clause) == 0 {
			return true, nil // Empty clause derived: the refutation is complete
		}
		pb.Clauses = append(pb.Clauses, clause)
	}
	if err := sc.Err(); err != nil {
		return false, errors.Wrap(err, "could not parse certificate")
	}
	// No explicit empty clause: valid iff propagation alone now refutes.
	return pb.unsat(), nil
}
