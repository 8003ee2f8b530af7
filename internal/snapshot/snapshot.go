// Package snapshot holds the work-context data model: what the user is
// doing right now, and a bounded history of what they were doing recently.
package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an application for the productive/distracting split.
type Category uint8

const (
	CategoryUnknown Category = iota

	// Productive
	CategoryIDE
	CategoryTerminal
	CategoryDocumentation
	CategoryProductivity

	// Depends on content
	CategoryBrowser

	// Distracting
	CategorySocialMedia
	CategoryCommunication
	CategoryEntertainment
	CategoryShopping
)

func (c Category) String() string {
	switch c {
	case CategoryIDE:
		return "ide"
	case CategoryTerminal:
		return "terminal"
	case CategoryDocumentation:
		return "documentation"
	case CategoryProductivity:
		return "productivity"
	case CategoryBrowser:
		return "browser"
	case CategorySocialMedia:
		return "social_media"
	case CategoryCommunication:
		return "communication"
	case CategoryEntertainment:
		return "entertainment"
	case CategoryShopping:
		return "shopping"
	default:
		return "unknown"
	}
}

// productive is an explicit per-category table rather than an ordinal
// comparison, so reordering the enum cannot silently flip a category.
var productive = map[Category]bool{
	CategoryUnknown:       true, // unclassified apps do not count as distractions
	CategoryIDE:           true,
	CategoryTerminal:      true,
	CategoryDocumentation: true,
	CategoryProductivity:  true,
	CategoryBrowser:       true,
	CategorySocialMedia:   false,
	CategoryCommunication: false,
	CategoryEntertainment: false,
	CategoryShopping:      false,
}

// Productive reports whether time in this category counts as focused work.
func (c Category) Productive() bool {
	return productive[c]
}

// MinMeaningfulDuration is the shortest stay in a context that is worth
// remembering.
const MinMeaningfulDuration = 5 * time.Second

// Snapshot is a point-in-time capture of the user's work context. Produced
// by the classifier, enriched by the tracker with timing and activity
// counters, and retained in History.
type Snapshot struct {
	// Timing
	Timestamp         time.Time
	DurationInContext time.Duration
	FocusStreak       time.Duration

	// Application identity
	AppName     string
	WindowTitle string
	PID         uint32
	WindowID    uint32
	Category    Category

	// Parsed IDE context
	FilePath     string
	LineNumber   int
	FunctionName string
	ProjectName  string

	// Parsed browser context
	BrowserDomain   string
	LastSearchQuery string

	// Activity counters
	Keystrokes      uint32
	MouseClicks     uint32
	MouseDistancePx uint32
	ContextSwitches uint32
	TypingSpeedCPM  float64
	FocusScore      float64

	// Flags
	HasUnsavedChanges bool
	IsDebugging       bool
	IsBuilding        bool
	IsProductive      bool
}

// Meaningful reports whether the snapshot is worth keeping: a named app,
// a non-trivial stay, and at least some input activity. Snapshots failing
// this never enter History.
func (s *Snapshot) Meaningful() bool {
	if s.AppName == "" {
		return false
	}
	if s.DurationInContext < MinMeaningfulDuration {
		return false
	}
	return s.Keystrokes > 0 || s.MouseClicks > 0
}

// Brief returns a one-line description: "main.go:234", "stackoverflow.com",
// or the bare app name.
func (s *Snapshot) Brief() string {
	if s.FilePath != "" {
		name := s.FilePath
		if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
			name = name[i+1:]
		}
		if s.LineNumber > 0 {
			return fmt.Sprintf("%s:%d", name, s.LineNumber)
		}
		return name
	}
	if s.BrowserDomain != "" {
		return s.BrowserDomain
	}
	return s.AppName
}
