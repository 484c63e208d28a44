package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLitEncoding(t *testing.T) {
	assert.Equal(t, Lit(0), IntToLit(1))
	assert.Equal(t, Lit(1), IntToLit(-1))
	assert.Equal(t, Lit(4), IntToLit(3))
	assert.Equal(t, Lit(5), IntToLit(-3))
}

func TestLitRoundTrip(t *testing.T) {
	for _, i := range []int{1, -1, 3, -3, 7, -12, 100} {
		l := IntToLit(i)
		assert.Equal(t, i, l.Int(), "round trip for %d", i)
		assert.Equal(t, i > 0, l.IsPositive())
		assert.Equal(t, l, l.Negation().Negation(), "double negation for %d", i)
		assert.NotEqual(t, l, l.Negation())
		assert.Equal(t, l.Var(), l.Negation().Var())
	}
}

func TestVarLit(t *testing.T) {
	v := IntToVar(3)
	assert.Equal(t, Var(2), v)
	assert.Equal(t, Lit(4), v.Lit())
	assert.Equal(t, Lit(4), v.SignedLit(false))
	assert.Equal(t, Lit(5), v.SignedLit(true))
	assert.Equal(t, v, v.Lit().Var())
}

func TestSignedLevels(t *testing.T) {
	lit := IntToLit(2)
	assert.Equal(t, decLevel(3), lvlToSignedLvl(lit, 3))
	assert.Equal(t, decLevel(-3), lvlToSignedLvl(lit.Negation(), 3))
	assert.Equal(t, decLevel(3), abs(-3))
}
