package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestartNone(t *testing.T) {
	r := newRestarter(RestartNone)
	for i := 0; i < 5000; i++ {
		assert.False(t, r.onConflict(3, 10))
	}
}

func TestRestartFixed(t *testing.T) {
	r := newRestarter(RestartFixed)
	for i := 0; i < fixedInterval-1; i++ {
		require.False(t, r.onConflict(3, 10), "restart after %d conflicts", i+1)
	}
	assert.True(t, r.onConflict(3, 10))
	r.onRestart()
	assert.False(t, r.onConflict(3, 10))
}

func TestRestartGeometric(t *testing.T) {
	r := newRestarter(RestartGeometric)
	intervals := []int{100, 150, 225}
	for _, interval := range intervals {
		for i := 0; i < interval-1; i++ {
			require.False(t, r.onConflict(3, 10))
		}
		require.True(t, r.onConflict(3, 10))
		r.onRestart()
	}
}

func TestRestartLuby(t *testing.T) {
	r := newRestarter(RestartLuby)
	// The scaled Luby sequence starts 32, 32, 64.
	intervals := []int{32, 32, 64}
	for _, interval := range intervals {
		for i := 0; i < interval-1; i++ {
			require.False(t, r.onConflict(3, 10))
		}
		require.True(t, r.onConflict(3, 10))
		r.onRestart()
	}
}

func TestRestartGlucoseSteadyLbdNeverRestarts(t *testing.T) {
	r := newRestarter(RestartGlucose)
	for i := 0; i < 2000; i++ {
		require.False(t, r.onConflict(2, 10), "restarted on steady LBDs after %d conflicts", i+1)
	}
}

func TestRestartGlucoseFiresOnRisingLbd(t *testing.T) {
	r := newRestarter(RestartGlucose)
	for i := 0; i < 1000; i++ {
		require.False(t, r.onConflict(2, 10))
	}
	fired := false
	for i := 0; i < 500; i++ {
		if r.onConflict(50, 10) {
			fired = true
			break
		}
	}
	assert.True(t, fired, "rising LBDs must force a restart")
}

func TestRestartGlucoseBlockedByGrowingTrail(t *testing.T) {
	r := newRestarter(RestartGlucose)
	for i := 0; i < 1000; i++ {
		require.False(t, r.onConflict(2, 10))
	}
	// LBDs explode but so does the trail: the solver looks close to a
	// model, so restarts stay blocked.
	for i := 0; i < 200; i++ {
		assert.False(t, r.onConflict(50, 100000))
	}
}

func TestRestartGlucoseHonorsMinimumGap(t *testing.T) {
	r := newRestarter(RestartGlucose)
	for i := 0; i < 1000; i++ {
		r.onConflict(2, 10)
	}
	for r.conflictsSince < 10000 {
		if r.onConflict(50, 10) {
			break
		}
	}
	r.onRestart()
	for i := 0; i < emaMinConflicts-1; i++ {
		require.False(t, r.onConflict(50, 10), "restarted before the minimum conflict gap")
	}
}

func TestEmaWarmup(t *testing.T) {
	e := newEma(2e-6)
	for i := 0; i < 100; i++ {
		e.update(7.0)
	}
	// During warm-up the effective alpha is still large: the average must
	// already sit close to the stream value, not to the initial 1.0.
	assert.InDelta(t, 7.0, e.value, 1.0)
}
