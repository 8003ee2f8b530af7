package event

import (
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIsOneCacheLine(t *testing.T) {
	assert.Equal(t, uintptr(RecordSize), unsafe.Sizeof(Record{}),
		"Record must stay exactly one cache line")
}

func TestAppNameRoundTrip(t *testing.T) {
	now := time.Now()

	r := NewKeyPress(now, 1234, 42, "chrome", false, KeyInfo{VirtualKey: 65})
	assert.Equal(t, "chrome", r.AppName())
	assert.Equal(t, uint32(1234), r.PID)
	assert.Equal(t, now.UnixMicro(), r.Time().UnixMicro())

	// Over-long names are truncated but stay NUL-terminated.
	long := strings.Repeat("x", 100)
	r = NewKeyPress(now, 1, 1, long, false, KeyInfo{})
	assert.Len(t, r.AppName(), appNameLen-1)
	assert.True(t, r.Valid())
}

func TestPayloadTagging(t *testing.T) {
	now := time.Now()

	key := NewKeyPress(now, 1, 1, "code", false, KeyInfo{VirtualKey: 65, ScanCode: 30, Flags: 2})
	info, ok := key.Key()
	require.True(t, ok)
	assert.Equal(t, uint32(65), info.VirtualKey)
	assert.Equal(t, uint32(30), info.ScanCode)
	assert.Equal(t, uint32(2), info.Flags)

	// The wrong case is not reachable.
	_, ok = key.Motion()
	assert.False(t, ok)
	_, ok = key.Click()
	assert.False(t, ok)
	_, ok = key.FocusSwitch()
	assert.False(t, ok)
	_, ok = key.Idle()
	assert.False(t, ok)

	move := NewPointerMotion(now, 1, 1, "code", PointerMotion{X: -10, Y: 20, SpeedPPS: 300})
	m, ok := move.Motion()
	require.True(t, ok)
	assert.Equal(t, int32(-10), m.X)
	assert.Equal(t, int32(20), m.Y)
	assert.Equal(t, uint32(300), m.SpeedPPS)
	_, ok = move.Key()
	assert.False(t, ok)

	click := NewClick(now, 1, 1, "code", Click{X: 5, Y: 6, Button: 2})
	c, ok := click.Click()
	require.True(t, ok)
	assert.Equal(t, uint32(2), c.Button)

	wheel := NewWheel(now, 1, 1, "code", Wheel{Delta: -120, Orientation: 0})
	w, ok := wheel.Wheel()
	require.True(t, ok)
	assert.Equal(t, int32(-120), w.Delta)

	fs := NewFocusSwitch(now, 1, 7, "chrome", false, FocusSwitch{OldWindow: 3, NewWindow: 7})
	sw, ok := fs.FocusSwitch()
	require.True(t, ok)
	assert.Equal(t, uint32(3), sw.OldWindow)
	assert.Equal(t, uint32(7), sw.NewWindow)
	assert.Equal(t, KindWindowFocusChange, fs.Kind)

	titleChange := NewFocusSwitch(now, 1, 7, "chrome", true, FocusSwitch{})
	assert.Equal(t, KindWindowTitleChange, titleChange.Kind)
	_, ok = titleChange.FocusSwitch()
	assert.True(t, ok, "title changes share the focus-switch payload")

	idle := NewIdle(now, 1, 1, "code", false, IdleSpan{DurationMS: 5000})
	span, ok := idle.Idle()
	require.True(t, ok)
	assert.Equal(t, uint32(5000), span.DurationMS)
}

func TestReleaseVariants(t *testing.T) {
	now := time.Now()
	assert.Equal(t, KindKeyRelease, NewKeyPress(now, 1, 1, "a", true, KeyInfo{}).Kind)
	assert.Equal(t, KindIdleEnd, NewIdle(now, 1, 1, "a", true, IdleSpan{}).Kind)
}

func TestValid(t *testing.T) {
	now := time.Now()

	r := NewKeyPress(now, 1, 1, "code", false, KeyInfo{})
	assert.True(t, r.Valid())

	// Timestamps outside the plausible operating range are rejected.
	tooOld := r
	tooOld.TimestampUS = 1 // 1970
	assert.False(t, tooOld.Valid())

	tooNew := r
	tooNew.TimestampUS = maxTimestampUS + 1
	assert.False(t, tooNew.Valid())

	boundary := r
	boundary.TimestampUS = minTimestampUS
	assert.True(t, boundary.Valid())

	// Unknown and out-of-range kinds are rejected.
	unknown := r
	unknown.Kind = KindUnknown
	assert.False(t, unknown.Valid())

	garbage := r
	garbage.Kind = Kind(999)
	assert.False(t, garbage.Valid())

	// A name field with no terminator is rejected.
	unterminated := r
	for i := range unterminated.appName {
		unterminated.appName[i] = 'x'
	}
	assert.False(t, unterminated.Valid())
}
