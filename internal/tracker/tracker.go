// Package tracker implements the focus state machine: it consumes
// classified window changes and activity events, maintains the in-progress
// context snapshot and its bounded history, and builds a recovery summary
// once per qualifying distraction episode.
//
// States and transitions:
//
//	FOCUSED    --switch to distracting app--> DISTRACTED
//	DISTRACTED --return to productive app--> FOCUSED (short distraction)
//	DISTRACTED --return after threshold----> RECOVERING (summary emitted)
//	RECOVERING --summary dismissed---------> FOCUSED
package tracker

import (
	"strings"
	"sync"
	"time"

	"neurofocus/internal/config"
	"neurofocus/internal/snapshot"
)

// State is the distraction state of the user.
type State uint8

const (
	StateFocused State = iota
	StateDistracted
	StateRecovering
)

func (s State) String() string {
	switch s {
	case StateFocused:
		return "focused"
	case StateDistracted:
		return "distracted"
	case StateRecovering:
		return "recovering"
	default:
		return "invalid"
	}
}

// Presenter renders a recovery summary. On user acknowledgment it must call
// the tracker's OnRecoveryDismissed exactly once; the tracker stays in
// StateRecovering until then. Present is called with the tracker lock held
// and must not block.
type Presenter interface {
	Present(RecoverySummary)
}

// Tracker is the focus state machine. All fields are guarded by mu; every
// public method takes the lock for its whole duration and does no blocking
// work while holding it. Timing is evaluated lazily at each incoming event
// or tick, there is no asynchronous timer.
type Tracker struct {
	mu sync.Mutex

	cfg       config.TrackerConfig
	presenter Presenter

	state   State
	idle    bool
	current snapshot.Snapshot
	history *snapshot.History

	focusStart       time.Time
	distractionStart time.Time
	lastSnapshot     time.Time
	lastActivity     time.Time
	distractionApp   string

	now func() time.Time // injectable for tests
}

// New creates a tracker. presenter may be nil, in which case qualifying
// distractions still transition to StateRecovering but nothing is rendered.
func New(cfg config.TrackerConfig, presenter Presenter) *Tracker {
	return &Tracker{
		cfg:       cfg,
		presenter: presenter,
		history:   snapshot.NewHistory(cfg.HistoryCapacity),
		now:       time.Now,
	}
}

// Start initializes state and timers. Must be called before events arrive.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.state = StateFocused
	t.focusStart = now
	t.lastSnapshot = now
	t.lastActivity = now
	t.current = snapshot.Snapshot{Timestamp: now}
}

// Stop clears history and the in-progress snapshot.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history.Clear()
	t.current = snapshot.Snapshot{}
}

// productive resolves the effective productive/distracting verdict for a
// snapshot: the configured app lists override the classifier's category.
func (t *Tracker) productive(s *snapshot.Snapshot) bool {
	name := strings.ToLower(s.AppName)
	for _, app := range t.cfg.DistractingApps {
		if app != "" && strings.Contains(name, strings.ToLower(app)) {
			return false
		}
	}
	for _, app := range t.cfg.ProductiveApps {
		if app != "" && strings.Contains(name, strings.ToLower(app)) {
			return true
		}
	}
	return s.Category.Productive()
}

// finalize stamps derived metrics on the in-progress snapshot before it is
// pushed to history.
func (t *Tracker) finalize(s *snapshot.Snapshot, now time.Time) {
	if !s.Timestamp.IsZero() {
		s.DurationInContext = now.Sub(s.Timestamp)
	}
	if mins := s.DurationInContext.Minutes(); mins > 0 {
		s.TypingSpeedCPM = float64(s.Keystrokes) / mins
	}
	s.FocusScore = focusScore(s)
}

// focusScore is a cheap engagement heuristic in [0,100]: steady typing with
// few context switches scores high, idle mousing scores low.
func focusScore(s *snapshot.Snapshot) float64 {
	score := s.TypingSpeedCPM/2 + float64(s.MouseClicks)
	score -= float64(s.ContextSwitches) * 5
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// OnWindowChange applies a classified snapshot for the newly focused
// window. It closes out the in-progress snapshot (pushing it to history if
// meaningful) and drives the state machine. The classified snapshot becomes
// the new in-progress snapshot in all cases.
func (t *Tracker) OnWindowChange(snap snapshot.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if snap.Timestamp.IsZero() {
		snap.Timestamp = now
	}

	// Close out the previous context.
	t.finalize(&t.current, now)
	t.current.IsProductive = t.state == StateFocused && t.productive(&t.current)
	if t.current.Meaningful() {
		t.history.Push(t.current)
	}

	nowProductive := t.productive(&snap)

	switch t.state {
	case StateFocused:
		if !nowProductive {
			t.state = StateDistracted
			t.distractionStart = now
			t.distractionApp = snap.AppName
		}

	case StateDistracted:
		if nowProductive {
			elapsed := now.Sub(t.distractionStart)
			if elapsed >= t.cfg.MinDistraction() || t.cfg.ShowShortDistractions {
				t.state = StateRecovering
				t.present(now)
			} else {
				t.state = StateFocused
				t.focusStart = now
			}
		}

	case StateRecovering:
		// Held until the summary is dismissed.
	}

	t.current = snap
	if nowProductive && t.state == StateFocused {
		t.current.FocusStreak = now.Sub(t.focusStart)
	}
}

// OnKeystroke counts a key press on the in-progress snapshot.
func (t *Tracker) OnKeystroke() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current.Keystrokes++
	t.lastActivity = t.now()
}

// OnMouseClick counts a mouse click.
func (t *Tracker) OnMouseClick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current.MouseClicks++
	t.lastActivity = t.now()
}

// OnMouseMove accumulates pointer travel as Manhattan distance.
func (t *Tracker) OnMouseMove(dx, dy int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	t.current.MouseDistancePx += uint32(dx + dy)
	t.lastActivity = t.now()
}

// OnTick is the periodic heartbeat, expected roughly every second. While
// focused it takes a periodic checkpoint of the in-progress snapshot every
// snapshot interval.
func (t *Tracker) OnTick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	// Crossing the idle timeout only flags idleness. The user is AFK, not
	// distracted; whether to pause tracking here is an open product
	// decision, so no transition happens.
	t.idle = !t.lastActivity.IsZero() && now.Sub(t.lastActivity) > t.cfg.IdleTimeout()

	if t.state != StateFocused {
		return
	}
	if now.Sub(t.lastSnapshot) < t.cfg.SnapshotInterval() {
		return
	}

	cp := t.current
	t.finalize(&cp, now)
	cp.IsProductive = true
	if cp.Meaningful() {
		t.history.Push(cp)
	}
	t.lastSnapshot = now

	// Fresh in-progress snapshot: same identity, counters reset.
	t.current.Timestamp = now
	t.current.DurationInContext = 0
	t.current.Keystrokes = 0
	t.current.MouseClicks = 0
	t.current.MouseDistancePx = 0
	t.current.FocusStreak = now.Sub(t.focusStart)
}

// OnRecoveryDismissed acknowledges the recovery summary. Valid only from
// StateRecovering; a no-op otherwise.
func (t *Tracker) OnRecoveryDismissed() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRecovering {
		return
	}
	now := t.now()
	t.state = StateFocused
	t.focusStart = now
	t.current.Keystrokes = 0
	t.current.MouseClicks = 0
	t.current.MouseDistancePx = 0
}

// present builds the summary for the episode ending now and hands it to the
// presenter. The summary is not retained.
func (t *Tracker) present(now time.Time) {
	summary := BuildSummary(t.history, t.distractionStart, now, t.distractionApp, t.focusStart)
	if t.presenter != nil {
		t.presenter.Present(summary)
	}
}

// State returns the current distraction state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Idle reports whether the last tick found no input activity for longer
// than the idle timeout.
func (t *Tracker) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idle
}

// Current returns a copy of the in-progress snapshot.
func (t *Tracker) Current() snapshot.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// FocusDuration returns the length of the current focus session, zero when
// not focused.
func (t *Tracker) FocusDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateFocused {
		return 0
	}
	return t.now().Sub(t.focusStart)
}

// Recent returns up to max history snapshots, newest first.
func (t *Tracker) Recent(max int) []snapshot.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Recent(max)
}
