package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuby(t *testing.T) {
	expected := []uint{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, 1}
	for i, exp := range expected {
		assert.Equal(t, exp, luby(uint(i+1)), "luby(%d)", i+1)
	}
}
