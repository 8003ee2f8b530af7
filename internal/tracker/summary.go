package tracker

import (
	"fmt"
	"time"

	"neurofocus/internal/snapshot"
)

// MaxRecentActivities bounds the "what was I doing" list in a summary.
const MaxRecentActivities = 5

// Activity is one line of recent history shown on recovery.
type Activity struct {
	Description string
	Timestamp   time.Time
}

// RecoverySummary is the one-shot artifact handed to the presenter when the
// user returns from a qualifying distraction. It is built once per episode
// and not retained by the tracker.
type RecoverySummary struct {
	// What the user was doing before the distraction.
	LastProductive    snapshot.Snapshot
	HasLastProductive bool

	// The distraction episode.
	DistractionStart    time.Time
	DistractionEnd      time.Time
	DistractionDuration time.Duration
	DistractionApp      string

	// Up to MaxRecentActivities recent meaningful contexts, newest first.
	RecentActivities []Activity

	// Focus accumulated before the distraction began.
	FocusDurationBefore time.Duration
}

// BuildSummary is a pure function of the history and episode timing. The
// focus-duration-before figure comes from the history's productive entries,
// falling back to the focus-session timer when the history has none.
func BuildSummary(h *snapshot.History, start, end time.Time, distractionApp string, focusStart time.Time) RecoverySummary {
	summary := RecoverySummary{
		DistractionStart:    start,
		DistractionEnd:      end,
		DistractionDuration: end.Sub(start),
		DistractionApp:      distractionApp,
	}

	summary.LastProductive, summary.HasLastProductive = h.FindLastProductive()

	for i := 0; i < h.Len() && len(summary.RecentActivities) < MaxRecentActivities; i++ {
		s, _ := h.At(i)
		if !s.Meaningful() {
			continue
		}
		summary.RecentActivities = append(summary.RecentActivities, Activity{
			Description: fmt.Sprintf("Working in %s", s.Brief()),
			Timestamp:   s.Timestamp,
		})
	}

	if focus := h.TotalFocus(); focus > 0 {
		summary.FocusDurationBefore = focus
	} else if start.After(focusStart) {
		summary.FocusDurationBefore = start.Sub(focusStart)
	}

	return summary
}
