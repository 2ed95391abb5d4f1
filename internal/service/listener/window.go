package listener

import (
	"time"

	"github.com/sandevgo/slackwatch/internal/core"
)

// firstRunLookback is how far back the very first cycle looks, so activity
// right before start-up is not missed.
const firstRunLookback = 3 * time.Second

type phase string

const (
	phaseFirstRun    phase = "first_run"
	phaseSteadyState phase = "steady_state"
)

func windowPhase(w core.DataCollectionWindow) phase {
	if w.LastRun.IsZero() {
		return phaseFirstRun
	}
	return phaseSteadyState
}

// lowerBound returns the "since" value, in unix seconds, for the next cycle.
// In steady state it starts at the previous cycle's completion time, so
// consecutive windows overlap and the dedup cache absorbs the repeats.
func lowerBound(w core.DataCollectionWindow, now time.Time) int64 {
	if windowPhase(w) == phaseFirstRun {
		return now.Add(-firstRunLookback).Unix()
	}
	return w.LastRun.Unix()
}
