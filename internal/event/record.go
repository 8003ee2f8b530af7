package event

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Kind classifies a sensor event. Stored as uint32 so the record layout is
// identical on every platform.
type Kind uint32

const (
	KindUnknown Kind = iota

	// Keyboard
	KindKeyPress
	KindKeyRelease

	// Mouse
	KindMouseMove
	KindMouseClick
	KindMouseWheel

	// Window
	KindWindowFocusChange
	KindWindowTitleChange
	KindWindowMinimize
	KindWindowMaximize

	// Idle detection
	KindIdleStart
	KindIdleEnd

	// System
	KindScreenLock
	KindScreenUnlock

	kindEnd // sentinel, keep last
)

func (k Kind) String() string {
	switch k {
	case KindKeyPress:
		return "key_press"
	case KindKeyRelease:
		return "key_release"
	case KindMouseMove:
		return "mouse_move"
	case KindMouseClick:
		return "mouse_click"
	case KindMouseWheel:
		return "mouse_wheel"
	case KindWindowFocusChange:
		return "window_focus_change"
	case KindWindowTitleChange:
		return "window_title_change"
	case KindWindowMinimize:
		return "window_minimize"
	case KindWindowMaximize:
		return "window_maximize"
	case KindIdleStart:
		return "idle_start"
	case KindIdleEnd:
		return "idle_end"
	case KindScreenLock:
		return "screen_lock"
	case KindScreenUnlock:
		return "screen_unlock"
	default:
		return "unknown"
	}
}

const (
	// RecordSize is the exact size of a Record in bytes: one x86-64 cache
	// line, so queue storage is a contiguous, false-sharing-free array.
	RecordSize = 64

	appNameLen = 24
	payloadLen = 16

	// Plausible timestamp range: [2020-01-01, 2050-01-01) in microseconds.
	minTimestampUS = 1577836800000000
	maxTimestampUS = 2524608000000000
)

// Record is one sensor event in a fixed 64-byte layout.
//
// The payload is a tagged variant selected by Kind; it is only reachable
// through the typed accessors below, which refuse to decode the wrong case.
// Records are created through the per-kind constructors so the payload tag
// can never disagree with Kind.
type Record struct {
	TimestampUS uint64 // microseconds since Unix epoch
	Kind        Kind
	PID         uint32
	appName     [appNameLen]byte // NUL-terminated
	WindowID    uint32
	payload     [payloadLen]byte
	Reserved    uint32
}

// KeyInfo is the payload for KindKeyPress and KindKeyRelease.
type KeyInfo struct {
	VirtualKey uint32
	ScanCode   uint32
	Flags      uint32
}

// PointerMotion is the payload for KindMouseMove.
type PointerMotion struct {
	X, Y     int32
	SpeedPPS uint32 // pixels per second
}

// Click is the payload for KindMouseClick.
type Click struct {
	X, Y   int32
	Button uint32 // 1=left 2=right 3=middle 4=X1 5=X2
}

// Wheel is the payload for KindMouseWheel.
type Wheel struct {
	Delta       int32
	Orientation uint32 // 0=vertical 1=horizontal
}

// FocusSwitch is the payload for KindWindowFocusChange and
// KindWindowTitleChange.
type FocusSwitch struct {
	OldWindow    uint32
	NewWindow    uint32
	CategoryHint uint32
}

// IdleSpan is the payload for KindIdleStart and KindIdleEnd.
type IdleSpan struct {
	DurationMS uint32
}

func newRecord(ts time.Time, kind Kind, pid, windowID uint32, appName string) Record {
	r := Record{
		TimestampUS: uint64(ts.UnixMicro()),
		Kind:        kind,
		PID:         pid,
		WindowID:    windowID,
	}
	// Truncate to fit, always leaving room for the terminating NUL.
	n := copy(r.appName[:appNameLen-1], appName)
	r.appName[n] = 0
	return r
}

func (r *Record) putU32(i int, v uint32) {
	binary.LittleEndian.PutUint32(r.payload[i*4:], v)
}

func (r *Record) u32(i int) uint32 {
	return binary.LittleEndian.Uint32(r.payload[i*4:])
}

// NewKeyPress builds a key press or release record.
func NewKeyPress(ts time.Time, pid, windowID uint32, appName string, release bool, info KeyInfo) Record {
	kind := KindKeyPress
	if release {
		kind = KindKeyRelease
	}
	r := newRecord(ts, kind, pid, windowID, appName)
	r.putU32(0, info.VirtualKey)
	r.putU32(1, info.ScanCode)
	r.putU32(2, info.Flags)
	return r
}

// NewPointerMotion builds a mouse move record.
func NewPointerMotion(ts time.Time, pid, windowID uint32, appName string, m PointerMotion) Record {
	r := newRecord(ts, KindMouseMove, pid, windowID, appName)
	r.putU32(0, uint32(m.X))
	r.putU32(1, uint32(m.Y))
	r.putU32(2, m.SpeedPPS)
	return r
}

// NewClick builds a mouse click record.
func NewClick(ts time.Time, pid, windowID uint32, appName string, c Click) Record {
	r := newRecord(ts, KindMouseClick, pid, windowID, appName)
	r.putU32(0, uint32(c.X))
	r.putU32(1, uint32(c.Y))
	r.putU32(2, c.Button)
	return r
}

// NewWheel builds a mouse wheel record.
func NewWheel(ts time.Time, pid, windowID uint32, appName string, w Wheel) Record {
	r := newRecord(ts, KindMouseWheel, pid, windowID, appName)
	r.putU32(0, uint32(w.Delta))
	r.putU32(1, w.Orientation)
	return r
}

// NewFocusSwitch builds a window focus change record. titleOnly marks a
// title change within the same window.
func NewFocusSwitch(ts time.Time, pid, windowID uint32, appName string, titleOnly bool, fs FocusSwitch) Record {
	kind := KindWindowFocusChange
	if titleOnly {
		kind = KindWindowTitleChange
	}
	r := newRecord(ts, kind, pid, windowID, appName)
	r.putU32(0, fs.OldWindow)
	r.putU32(1, fs.NewWindow)
	r.putU32(2, fs.CategoryHint)
	return r
}

// NewIdle builds an idle start/end record.
func NewIdle(ts time.Time, pid, windowID uint32, appName string, end bool, span IdleSpan) Record {
	kind := KindIdleStart
	if end {
		kind = KindIdleEnd
	}
	r := newRecord(ts, kind, pid, windowID, appName)
	r.putU32(0, span.DurationMS)
	return r
}

// NewSystem builds a screen lock/unlock record (no payload).
func NewSystem(ts time.Time, kind Kind) Record {
	return newRecord(ts, kind, 0, 0, "")
}

// AppName returns the process name, stripped of NUL padding.
func (r *Record) AppName() string {
	i := bytes.IndexByte(r.appName[:], 0)
	if i < 0 {
		i = appNameLen
	}
	return string(r.appName[:i])
}

// Time converts the record timestamp back to wall-clock time.
func (r *Record) Time() time.Time {
	return time.UnixMicro(int64(r.TimestampUS))
}

// Key returns the keyboard payload; ok is false unless the record is a key
// press or release.
func (r *Record) Key() (info KeyInfo, ok bool) {
	if r.Kind != KindKeyPress && r.Kind != KindKeyRelease {
		return KeyInfo{}, false
	}
	return KeyInfo{VirtualKey: r.u32(0), ScanCode: r.u32(1), Flags: r.u32(2)}, true
}

// Motion returns the mouse move payload.
func (r *Record) Motion() (m PointerMotion, ok bool) {
	if r.Kind != KindMouseMove {
		return PointerMotion{}, false
	}
	return PointerMotion{X: int32(r.u32(0)), Y: int32(r.u32(1)), SpeedPPS: r.u32(2)}, true
}

// Click returns the mouse click payload.
func (r *Record) Click() (c Click, ok bool) {
	if r.Kind != KindMouseClick {
		return Click{}, false
	}
	return Click{X: int32(r.u32(0)), Y: int32(r.u32(1)), Button: r.u32(2)}, true
}

// Wheel returns the mouse wheel payload.
func (r *Record) Wheel() (w Wheel, ok bool) {
	if r.Kind != KindMouseWheel {
		return Wheel{}, false
	}
	return Wheel{Delta: int32(r.u32(0)), Orientation: r.u32(1)}, true
}

// FocusSwitch returns the window switch payload.
func (r *Record) FocusSwitch() (fs FocusSwitch, ok bool) {
	if r.Kind != KindWindowFocusChange && r.Kind != KindWindowTitleChange {
		return FocusSwitch{}, false
	}
	return FocusSwitch{OldWindow: r.u32(0), NewWindow: r.u32(1), CategoryHint: r.u32(2)}, true
}

// Idle returns the idle span payload.
func (r *Record) Idle() (span IdleSpan, ok bool) {
	if r.Kind != KindIdleStart && r.Kind != KindIdleEnd {
		return IdleSpan{}, false
	}
	return IdleSpan{DurationMS: r.u32(0)}, true
}

// Valid reports whether the record is safe to enqueue. Producers must drop
// invalid records at the boundary; nothing downstream re-checks.
func (r *Record) Valid() bool {
	if r.TimestampUS < minTimestampUS || r.TimestampUS > maxTimestampUS {
		return false
	}
	if r.Kind == KindUnknown || r.Kind >= kindEnd {
		return false
	}
	return bytes.IndexByte(r.appName[:], 0) >= 0
}
