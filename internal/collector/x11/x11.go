package x11

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"neurofocus/internal/collector"
	"neurofocus/internal/event"
	"neurofocus/internal/spsc"
)

type focusInfo struct {
	window  uint32
	pid     uint32
	appName string
	title   string
}

// Collector polls the active X11 window and produces window focus/title
// change records into the event queue. It is the queue's single producer.
//
// Window titles do not fit the fixed 64-byte record, so the collector keeps
// a small window-id -> title table that the consumer reads back when it
// routes a record.
type Collector struct {
	X     *xgbutil.XUtil
	queue *spsc.Queue[event.Record]
	stats *collector.Stats

	lastFocus focusInfo
	stopChan  chan struct{}

	mu     sync.RWMutex
	titles map[uint32]focusInfo
}

func New(queue *spsc.Queue[event.Record], stats *collector.Stats) (*Collector, error) {
	X, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	// EWMH is needed for _NET_ACTIVE_WINDOW and _NET_WM_NAME.
	if _, err := ewmh.CurrentDesktopGet(X); err != nil {
		log.Printf("Warning: EWMH potentially not supported by Window Manager: %v", err)
	}

	return &Collector{
		X:        X,
		queue:    queue,
		stats:    stats,
		stopChan: make(chan struct{}),
		titles:   make(map[uint32]focusInfo),
	}, nil
}

func (c *Collector) activeWindowInfo() (focusInfo, error) {
	active, err := ewmh.ActiveWindowGet(c.X)
	if err != nil {
		return focusInfo{}, fmt.Errorf("could not get active window ID: %w", err)
	}
	if active == 0 {
		return focusInfo{appName: "None", title: "No Active Window"}, nil
	}

	// _NET_WM_NAME preferred, WM_NAME (ICCCM) as fallback.
	title, err := ewmh.WmNameGet(c.X, active)
	if err != nil || title == "" {
		title, err = icccm.WmNameGet(c.X, active)
		if err != nil || title == "" {
			title = "Unknown Title"
		}
	}

	appName := "Unknown App"
	if hints, err := icccm.WmClassGet(c.X, active); err == nil && hints != nil {
		appName = hints.Class
	}

	var pid uint32
	if p, err := ewmh.WmPidGet(c.X, active); err == nil {
		pid = uint32(p)
	}

	return focusInfo{window: uint32(active), pid: pid, appName: appName, title: title}, nil
}

// Start polls the active window every interval and pushes a validated
// record on each focus or title change. Runs until ctx is cancelled or
// Stop is called.
func (c *Collector) Start(ctx context.Context, interval time.Duration) error {
	log.Printf("Starting X11 collector (interval: %s)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Establish a baseline; the WM sometimes misreports right after start.
	for i := 0; i < 3; i++ {
		info, err := c.activeWindowInfo()
		if err == nil {
			c.lastFocus = info
			c.remember(info)
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("X11 collector stopping due to context cancellation.")
			return ctx.Err()
		case <-c.stopChan:
			log.Println("X11 collector stopping.")
			return nil
		case <-ticker.C:
			info, err := c.activeWindowInfo()
			if err != nil {
				continue
			}

			switch {
			case info.window != c.lastFocus.window || info.appName != c.lastFocus.appName:
				c.produce(info, false)
			case info.title != c.lastFocus.title:
				c.produce(info, true)
			}
		}
	}
}

// produce validates and enqueues one focus-switch record, updating the
// title table and drop counters.
func (c *Collector) produce(info focusInfo, titleOnly bool) {
	c.remember(info)

	rec := event.NewFocusSwitch(time.Now(), info.pid, info.window, info.appName, titleOnly, event.FocusSwitch{
		OldWindow: c.lastFocus.window,
		NewWindow: info.window,
	})
	c.lastFocus = info

	// Invalid records are dropped here, before the queue.
	if !rec.Valid() {
		c.stats.DroppedInvalid.Add(1)
		return
	}
	if !c.queue.TryPush(rec) {
		c.stats.DroppedFull.Add(1)
		return
	}
	c.stats.Produced.Add(1)
}

func (c *Collector) remember(info focusInfo) {
	c.mu.Lock()
	c.titles[info.window] = info
	// Keep the table from growing without bound on long sessions.
	if len(c.titles) > 256 {
		for k := range c.titles {
			if k == info.window {
				continue
			}
			delete(c.titles, k)
			if len(c.titles) <= 128 {
				break
			}
		}
	}
	c.mu.Unlock()
}

// TitleOf returns the last seen app name and title for a window id. Used by
// the consumer to recover the full title a record could not carry.
func (c *Collector) TitleOf(windowID uint32) (appName, title string, ok bool) {
	c.mu.RLock()
	info, ok := c.titles[windowID]
	c.mu.RUnlock()
	return info.appName, info.title, ok
}

func (c *Collector) Stop() error {
	log.Println("Sending stop signal to X11 collector.")
	close(c.stopChan)
	return nil
}
