package solver

import (
	"bufio"
	"compress/gzip"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// gzipMagic is the two-byte signature of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// ParseSlice parses a slice of slices of ints and returns the equivalent
// problem. Literals are deduplicated and tautologies are dropped.
func ParseSlice(cnf [][]int) *Problem {
	var pb Problem
	for _, line := range cnf {
		lits, tautology := cleanLits(line, &pb.NbVars)
		if tautology {
			continue
		}
		if len(lits) == 0 {
			pb.Status = Unsat
			pb.Model = make([]decLevel, pb.NbVars)
			return &pb
		}
		pb.Clauses = append(pb.Clauses, NewClause(lits))
	}
	pb.Model = make([]decLevel, pb.NbVars)
	pb.simplify()
	return &pb
}

// cleanLits converts int literals, removes duplicates and detects tautologies.
// nbVars is grown when a literal exceeds it.
func cleanLits(line []int, nbVars *int) (lits []Lit, tautology bool) {
	lits = make([]Lit, 0, len(line))
	for _, val := range line {
		if val == 0 {
			panic("null literal in clause")
		}
		lit := IntToLit(val)
		if v := int(lit.Var()); v >= *nbVars {
			*nbVars = v + 1
		}
		dup := false
		for _, lit2 := range lits {
			if lit2 == lit {
				dup = true
				break
			}
			if lit2 == lit.Negation() {
				return nil, true
			}
		}
		if !dup {
			lits = append(lits, lit)
		}
	}
	return lits, false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// readInt reads an int from r.
// 'b' is the last read byte. It can be a space, a '-' or a digit.
// All spaces before the int value are ignored.
// Can return EOF.
func readInt(b *byte, r *bufio.Reader) (res int, err error) {
	for err == nil && isSpace(*b) {
		*b, err = r.ReadByte()
	}
	if err == io.EOF {
		return res, io.EOF
	}
	if err != nil {
		return res, errors.Wrap(err, "could not read digit")
	}
	neg := 1
	if *b == '-' {
		neg = -1
		*b, err = r.ReadByte()
		if err != nil {
			return 0, errors.Wrap(err, "cannot read int")
		}
	}
	for err == nil {
		if *b < '0' || *b > '9' {
			return 0, errors.Errorf("cannot read int: %q is not a digit", *b)
		}
		res = 10*res + int(*b-'0')
		*b, err = r.ReadByte()
		if isSpace(*b) {
			break
		}
	}
	res *= neg
	return res, err
}

func parseHeader(r *bufio.Reader) (nbVars, nbClauses int, err error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, 0, errors.Wrap(err, "cannot read header")
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, errors.Errorf("invalid syntax %q in header", line)
	}
	nbVars, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errors.Errorf("nbvars not an int: %q", fields[1])
	}
	nbClauses, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, errors.Errorf("nbclauses not an int: %q", fields[2])
	}
	return nbVars, nbClauses, nil
}

// ParseCNF parses a DIMACS CNF stream and returns the corresponding Problem.
// Gzip-compressed input is decompressed transparently, based on the stream's
// magic bytes. The clause count announced in the header is used as a capacity
// hint only; a mismatch is not an error.
func ParseCNF(f io.Reader) (*Problem, error) {
	r := bufio.NewReader(f)
	if magic, err := r.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "could not decompress input")
		}
		defer gz.Close()
		r = bufio.NewReader(gz)
	}
	var (
		pb   Problem
		raw  []int
		seen bool // Was a header seen yet?
	)
	b, err := r.ReadByte()
	for err == nil {
		if b == 'c' { // Ignore comment
			b, err = r.ReadByte()
			for err == nil && b != '\n' {
				b, err = r.ReadByte()
			}
		} else if b == 'p' { // Parse header
			var nbClauses int
			pb.NbVars, nbClauses, err = parseHeader(r)
			if err != nil {
				return nil, errors.Wrap(err, "cannot parse CNF header")
			}
			pb.Clauses = make([]*Clause, 0, nbClauses)
			seen = true
		} else if !isSpace(b) {
			raw = raw[:0]
			for {
				val, errInt := readInt(&b, r)
				if errInt == io.EOF {
					err = io.EOF
					if len(raw) == 0 {
						break // Only trailing whitespace at the end of the input
					}
					if val != 0 {
						return nil, errors.New("unfinished clause while EOF found")
					}
					// The terminating 0 sat right at EOF: fall through.
				} else if errInt != nil {
					return nil, errors.Wrap(errInt, "cannot parse clause")
				}
				if val == 0 {
					lits, tautology := cleanLits(raw, &pb.NbVars)
					if !tautology {
						pb.Clauses = append(pb.Clauses, NewClause(lits))
					}
					break
				}
				raw = append(raw, val)
			}
		}
		if err == nil {
			b, err = r.ReadByte()
		}
	}
	if err != io.EOF {
		return nil, err
	}
	if !seen && pb.NbVars == 0 && len(pb.Clauses) == 0 {
		return nil, errors.New("no problem found in input")
	}
	pb.Model = make([]decLevel, pb.NbVars)
	for _, c := range pb.Clauses {
		if c.Len() == 0 {
			pb.Status = Unsat
			return &pb, nil
		}
	}
	pb.simplify()
	return &pb, nil
}
