package solver

import (
	"fmt"
	"strings"
)

// A Clause is a list of Lit, plus metadata for learned clauses.
// The first two positions are the watched literals of the clause; this is a
// structural invariant relied upon by the propagator, not mere convention.
type Clause struct {
	lits []Lit
	// lbdValue's bits are as follow:
	// leftmost bit: learned flag.
	// second bit: locked flag (the clause is the reason of an assignment).
	// third bit: deleted flag (tombstone).
	// last 29 bits: LBD value (if learned).
	lbdValue uint32
	activity float32
}

const (
	learnedMask uint32 = 1 << 31
	lockedMask  uint32 = 1 << 30
	deletedMask uint32 = 1 << 29
	bothMasks   uint32 = learnedMask | lockedMask
	flagMasks   uint32 = learnedMask | lockedMask | deletedMask
)

// NewClause returns a clause whose lits are given as an argument.
func NewClause(lits []Lit) *Clause {
	return &Clause{lits: lits}
}

// NewLearnedClause returns a new clause marked as learned.
func NewLearnedClause(lits []Lit) *Clause {
	return &Clause{lits: lits, lbdValue: learnedMask}
}

// Learned returns true iff c was a learned clause.
func (c *Clause) Learned() bool {
	return c.lbdValue&learnedMask == learnedMask
}

func (c *Clause) lock() {
	c.lbdValue |= lockedMask
}

func (c *Clause) unlock() {
	c.lbdValue &= ^lockedMask
}

// isLocked is true iff c is learned and currently the reason of an assignment.
func (c *Clause) isLocked() bool {
	return c.lbdValue&bothMasks == bothMasks
}

// setDeleted tombstones c until its owner list is compacted.
func (c *Clause) setDeleted() {
	c.lbdValue |= deletedMask
}

func (c *Clause) isDeleted() bool {
	return c.lbdValue&deletedMask == deletedMask
}

func (c *Clause) lbd() int {
	return int(c.lbdValue & ^flagMasks)
}

func (c *Clause) setLbd(lbd int) {
	c.lbdValue = (c.lbdValue & flagMasks) | uint32(lbd)
}

// Len returns the nb of lits in the clause.
func (c *Clause) Len() int {
	return len(c.lits)
}

// First returns the first lit from the clause.
func (c *Clause) First() Lit {
	return c.lits[0]
}

// Second returns the second lit from the clause.
func (c *Clause) Second() Lit {
	return c.lits[1]
}

// Get returns the ith literal from the clause.
func (c *Clause) Get(i int) Lit {
	return c.lits[i]
}

// Set sets the ith literal of the clause.
func (c *Clause) Set(i int, l Lit) {
	c.lits[i] = l
}

// swap swaps the ith and jth lits from the clause.
func (c *Clause) swap(i, j int) {
	c.lits[i], c.lits[j] = c.lits[j], c.lits[i]
}

// Shrink reduces the length of the clause, by removing all lits
// starting from position newLen.
func (c *Clause) Shrink(newLen int) {
	c.lits = c.lits[:newLen]
}

// CNF returns a DIMACS CNF representation of the clause.
func (c *Clause) CNF() string {
	var sb strings.Builder
	for _, lit := range c.lits {
		fmt.Fprintf(&sb, "%d ", lit.Int())
	}
	sb.WriteString("0")
	return sb.String()
}
