package tracker

import (
	"fmt"
	"testing"
	"time"

	"neurofocus/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productiveEntry(file string, ts time.Time, d time.Duration) snapshot.Snapshot {
	return snapshot.Snapshot{
		AppName:           "Code",
		FilePath:          file,
		Category:          snapshot.CategoryIDE,
		Timestamp:         ts,
		DurationInContext: d,
		Keystrokes:        40,
		IsProductive:      true,
	}
}

func TestBuildSummary(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	h := snapshot.NewHistory(10)
	h.Push(productiveEntry("parser.go", base, 30*time.Second))
	h.Push(productiveEntry("lexer.go:88", base.Add(time.Minute), 45*time.Second))

	start := base.Add(2 * time.Minute)
	end := start.Add(40 * time.Second)
	summary := BuildSummary(h, start, end, "chrome", base)

	assert.Equal(t, start, summary.DistractionStart)
	assert.Equal(t, end, summary.DistractionEnd)
	assert.Equal(t, 40*time.Second, summary.DistractionDuration)
	assert.Equal(t, "chrome", summary.DistractionApp)

	require.True(t, summary.HasLastProductive)
	assert.Equal(t, "lexer.go:88", summary.LastProductive.FilePath)

	require.Len(t, summary.RecentActivities, 2)
	assert.Equal(t, "Working in lexer.go:88", summary.RecentActivities[0].Description)
	assert.Equal(t, "Working in parser.go", summary.RecentActivities[1].Description)
	assert.True(t, summary.RecentActivities[0].Timestamp.After(summary.RecentActivities[1].Timestamp))

	// Focus before the distraction comes from the history's productive time.
	assert.Equal(t, 75*time.Second, summary.FocusDurationBefore)
}

func TestBuildSummaryActivityCap(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	h := snapshot.NewHistory(10)
	for i := 0; i < 8; i++ {
		h.Push(productiveEntry(fmt.Sprintf("file%d.go", i), base.Add(time.Duration(i)*time.Minute), 30*time.Second))
	}

	summary := BuildSummary(h, base.Add(time.Hour), base.Add(time.Hour), "chrome", base)
	require.Len(t, summary.RecentActivities, MaxRecentActivities)
	assert.Equal(t, "Working in file7.go", summary.RecentActivities[0].Description)
}

func TestBuildSummarySkipsThinEntries(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	h := snapshot.NewHistory(10)
	h.Push(productiveEntry("real.go", base, 30*time.Second))
	h.Push(snapshot.Snapshot{AppName: "Code", Timestamp: base, DurationInContext: time.Second})

	summary := BuildSummary(h, base.Add(time.Minute), base.Add(2*time.Minute), "chrome", base)
	require.Len(t, summary.RecentActivities, 1)
	assert.Equal(t, "Working in real.go", summary.RecentActivities[0].Description)
}

func TestBuildSummaryTimerFallback(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	h := snapshot.NewHistory(10)

	// Empty history: fall back to the focus-session timer.
	focusStart := base
	start := base.Add(10 * time.Minute)
	summary := BuildSummary(h, start, start.Add(time.Minute), "chrome", focusStart)

	assert.False(t, summary.HasLastProductive)
	assert.Empty(t, summary.RecentActivities)
	assert.Equal(t, 10*time.Minute, summary.FocusDurationBefore)

	// Timer fallback never goes negative.
	summary = BuildSummary(h, base, base.Add(time.Minute), "chrome", base.Add(time.Hour))
	assert.Equal(t, time.Duration(0), summary.FocusDurationBefore)
}
