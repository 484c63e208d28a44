package solver

import (
	"fmt"
	"time"

	"github.com/lunasat/lunasat/config"
)

// Progress reporting: periodic DIMACS comment lines on stdout, in the spirit
// of competition solvers. The granularity is driven by the configuration.

func progressInterval(level config.ProgressLevel) time.Duration {
	switch level {
	case config.ProgressShort:
		return 10 * time.Second
	case config.ProgressMedium:
		return 3 * time.Second
	case config.ProgressLong:
		return time.Second
	default:
		return 0
	}
}

// startProgress launches the progress reporter, returning the channel closing
// it. Reads of the statistics race with the search in theory; the reporter
// only ever reads and the values are display-only.
func (s *Solver) startProgress() chan struct{} {
	stop := make(chan struct{})
	interval := progressInterval(s.cfg.Progress)
	if interval == 0 {
		return stop
	}
	go func() {
		fmt.Printf("c =========================================================================\n")
		fmt.Printf("c | Restarts |  Conflicts  |  Learned  |  Deleted  | Reduce |  Eliminated |\n")
		fmt.Printf("c =========================================================================\n")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-stop:
				fmt.Printf("c =========================================================================\n")
				return
			}
			if s.status == Indet {
				fmt.Printf("c | %8d | %11d | %9d | %9d | %6d | %11d |\n",
					s.Stats.NbRestarts, s.Stats.NbConflicts, len(s.wl.learned),
					s.Stats.NbDeleted, s.Stats.NbReduces, s.Stats.NbEliminated)
			}
		}
	}()
	return stop
}
