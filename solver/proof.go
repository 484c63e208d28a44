package solver

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// The proof sink turns clause additions and deletions into DRUP records, in
// the order they become logically true. A nil *proof swallows every event, so
// callers never need to test whether logging is on.
type proof struct {
	w   *bufio.Writer
	err error // First write error met, if any; sticky
	buf []byte
}

// newProof returns a sink writing DRUP records to w.
func newProof(w io.Writer) *proof {
	return &proof{w: bufio.NewWriter(w)}
}

func (p *proof) writeLits(lits []Lit) {
	for _, l := range lits {
		p.buf = strconv.AppendInt(p.buf[:0], int64(l.Int()), 10)
		p.buf = append(p.buf, ' ')
		if _, err := p.w.Write(p.buf); err != nil && p.err == nil {
			p.err = err
		}
	}
	if _, err := p.w.WriteString("0\n"); err != nil && p.err == nil {
		p.err = err
	}
}

// addClause logs the addition of a clause.
func (p *proof) addClause(lits []Lit) {
	if p == nil {
		return
	}
	p.writeLits(lits)
}

// addUnit logs the addition of a unit clause.
func (p *proof) addUnit(lit Lit) {
	if p == nil {
		return
	}
	p.buf = strconv.AppendInt(p.buf[:0], int64(lit.Int()), 10)
	p.buf = append(p.buf, " 0\n"...)
	if _, err := p.w.Write(p.buf); err != nil && p.err == nil {
		p.err = err
	}
}

// deleteClause logs the deletion of a clause.
func (p *proof) deleteClause(lits []Lit) {
	if p == nil {
		return
	}
	if _, err := p.w.WriteString("d "); err != nil && p.err == nil {
		p.err = err
	}
	p.writeLits(lits)
}

// addEmpty logs the final empty clause closing an UNSAT proof.
func (p *proof) addEmpty() {
	if p == nil {
		return
	}
	if _, err := p.w.WriteString("0\n"); err != nil && p.err == nil {
		p.err = err
	}
}

// flush forces buffered records out and reports the first error met by the
// sink, if any.
func (p *proof) flush() error {
	if p == nil {
		return nil
	}
	if err := p.w.Flush(); err != nil && p.err == nil {
		p.err = err
	}
	return errors.Wrap(p.err, "could not write proof")
}
