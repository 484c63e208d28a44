package solver

// An efficient allocator for clause bodies. Lots of short learned clauses are
// created then (sometimes) destroyed; slicing them out of a preallocated block
// relaxes the GC's work. The arena is owned by a single solver.

const litsPerBlock = 1 << 20 // How many literals each block holds.

type litArena struct {
	lits    []Lit // Current block, sliced to make []Lit values.
	ptrFree int   // Index of the first free item in lits.
}

// newLits returns a slice of lits containing the given literals,
// taken from the current block if it fits, or from a fresh block.
func (a *litArena) newLits(lits ...Lit) []Lit {
	if a.ptrFree+len(lits) > len(a.lits) {
		a.lits = make([]Lit, litsPerBlock)
		copy(a.lits, lits)
		a.ptrFree = len(lits)
		return a.lits[:len(lits):len(lits)]
	}
	copy(a.lits[a.ptrFree:], lits)
	a.ptrFree += len(lits)
	return a.lits[a.ptrFree-len(lits) : a.ptrFree : a.ptrFree]
}
