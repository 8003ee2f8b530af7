package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"neurofocus/internal/classify"
	"neurofocus/internal/collector"
	"neurofocus/internal/collector/x11"
	"neurofocus/internal/config"
	"neurofocus/internal/event"
	"neurofocus/internal/ipc"
	"neurofocus/internal/spsc"
	"neurofocus/internal/tracker"
)

type App struct {
	cfg *config.Config

	queue   *spsc.Queue[event.Record]
	stats   collector.Stats
	x11Col  *x11.Collector
	tracker *tracker.Tracker

	socketPath string
	listener   *net.UnixListener

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		cfg:        cfg,
		socketPath: cfg.SocketPath,
		ctx:        ctx,
		cancel:     cancel,
	}
	if a.socketPath == "" {
		a.socketPath = ipc.DefaultSocketPath
	}

	queue, err := spsc.New[event.Record](cfg.QueueCapacity)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create event queue: %w", err)
	}
	a.queue = queue

	// The presenter is bound to the tracker after construction; summaries
	// are logged and auto-dismissed after the configured delay.
	presenter := &logPresenter{autoDismiss: cfg.Tracker.AutoDismiss()}
	a.tracker = tracker.New(cfg.Tracker, presenter)
	presenter.tracker = a.tracker

	var x11Err error
	a.x11Col, x11Err = x11.New(a.queue, &a.stats)
	if x11Err != nil {
		log.Printf("Warning: Failed to initialize X11 collector: %v. Focus tracking disabled.", x11Err)
		a.x11Col = nil
	}

	return a, nil
}

// logPresenter renders recovery summaries to the log and dismisses them
// after a fixed delay, standing in for an on-screen overlay. Dismissal via
// the control socket still works before the timer fires; OnRecoveryDismissed
// tolerates the second call.
type logPresenter struct {
	tracker     *tracker.Tracker
	autoDismiss time.Duration
}

func (p *logPresenter) Present(s tracker.RecoverySummary) {
	log.Printf("Welcome back! Distracted for %s in %s.", s.DistractionDuration.Round(time.Second), s.DistractionApp)
	if s.HasLastProductive {
		log.Printf("You were: %s", s.LastProductive.Brief())
		if s.LastProductive.ProjectName != "" {
			log.Printf("Project: %s", s.LastProductive.ProjectName)
		}
	}
	log.Printf("Focused for %s before the distraction.", s.FocusDurationBefore.Round(time.Second))
	for _, act := range s.RecentActivities {
		log.Printf("  - %s", act.Description)
	}

	if p.autoDismiss > 0 {
		time.AfterFunc(p.autoDismiss, p.tracker.OnRecoveryDismissed)
	}
}

// setupSocket checks for an existing socket and creates the listener.
func (a *App) setupSocket() error {
	if _, err := os.Stat(a.socketPath); err == nil {
		conn, err := net.DialTimeout("unix", a.socketPath, 1*time.Second)
		if err == nil {
			conn.Close()
			return fmt.Errorf("socket %s already active, another instance might be running", a.socketPath)
		}
		log.Printf("Stale socket file found at %s, removing.", a.socketPath)
		if err := os.Remove(a.socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket file %s: %w", a.socketPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking socket file %s: %w", a.socketPath, err)
	}

	addr, err := net.ResolveUnixAddr("unix", a.socketPath)
	if err != nil {
		return fmt.Errorf("failed to resolve unix addr %s: %w", a.socketPath, err)
	}

	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", a.socketPath, err)
	}

	a.listener = listener
	log.Printf("Listening for commands on %s", a.socketPath)
	return nil
}

func (a *App) listenForCommands() {
	defer a.wg.Done()
	defer log.Println("Socket command listener stopped.")

	for {
		conn, err := a.listener.AcceptUnix()
		if err != nil {
			select {
			case <-a.ctx.Done():
				return
			default:
				log.Printf("Failed to accept connection: %v", err)
				if ne, ok := err.(net.Error); ok && !ne.Temporary() {
					return
				}
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}
		a.wg.Add(1)
		go a.handleConnection(conn)
	}
}

func (a *App) handleConnection(conn *net.UnixConn) {
	defer conn.Close()
	defer a.wg.Done()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var cmd ipc.Command
	if err := decoder.Decode(&cmd); err != nil {
		if err != io.EOF {
			log.Printf("Failed to decode command: %v", err)
		}
		_ = encoder.Encode(ipc.Response{Success: false, Message: "Failed to decode command: " + err.Error()})
		return
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	if err := encoder.Encode(a.processCommand(cmd)); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (a *App) processCommand(cmd ipc.Command) ipc.Response {
	switch cmd.Name {
	case ipc.CmdPing:
		return ipc.Response{Success: true, Message: "pong"}

	case ipc.CmdStatus:
		status := ipc.StatusData{
			State:            a.tracker.State().String(),
			FocusSeconds:     a.tracker.FocusDuration().Seconds(),
			Idle:             a.tracker.Idle(),
			QueueDepth:       a.queue.Len(),
			QueueCapacity:    a.queue.Cap(),
			QueueUtilization: a.queue.Utilization(),
			DroppedFull:      a.stats.DroppedFull.Load(),
			DroppedInvalid:   a.stats.DroppedInvalid.Load(),
		}
		return ipc.Response{Success: true, Data: status}

	case ipc.CmdHistory:
		var args ipc.HistoryArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		if args.Count <= 0 {
			args.Count = 10
		}
		var data ipc.HistoryData
		for _, s := range a.tracker.Recent(args.Count) {
			data.Entries = append(data.Entries, ipc.HistoryEntry{
				Timestamp:  s.Timestamp,
				Brief:      s.Brief(),
				AppName:    s.AppName,
				Category:   s.Category.String(),
				Seconds:    s.DurationInContext.Seconds(),
				Keystrokes: s.Keystrokes,
				Productive: s.IsProductive,
			})
		}
		return ipc.Response{Success: true, Data: data}

	case ipc.CmdDismiss:
		if a.tracker.State() != tracker.StateRecovering {
			return ipc.Response{Success: false, Message: "No recovery summary pending"}
		}
		a.tracker.OnRecoveryDismissed()
		return ipc.Response{Success: true, Message: "Recovery summary dismissed"}

	default:
		return ipc.Response{Success: false, Message: fmt.Sprintf("Unknown command: %s", cmd.Name)}
	}
}

// mapToStruct converts the generic JSON args map into a typed struct.
func mapToStruct(input interface{}, output interface{}) error {
	if input == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal args map: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, output); err != nil {
		return fmt.Errorf("failed to unmarshal args into struct: %w", err)
	}
	return nil
}

func (a *App) Run() error {
	defer a.cleanup()

	log.Println("Starting NeuroFocus daemon...")
	if a.x11Col == nil {
		log.Println("X11 focus monitoring: DISABLED")
	} else {
		log.Println("X11 focus monitoring: ENABLED")
	}

	if err := a.setupSocket(); err != nil {
		return fmt.Errorf("failed to set up socket: %w", err)
	}

	a.handleSignals()
	a.tracker.Start()

	// Consumer side of the queue.
	a.wg.Add(1)
	go a.consumeEvents()

	// Heartbeat driving periodic snapshots and idle detection.
	a.wg.Add(1)
	go a.tickLoop()

	if a.x11Col != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			interval := time.Duration(a.cfg.CollectionIntervalSeconds) * time.Second
			err := a.x11Col.Start(a.ctx, interval)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("X11 collector error: %v", err)
			}
		}()
	}

	a.wg.Add(1)
	go a.listenForCommands()

	log.Println("NeuroFocus daemon running. Send commands via neurofocus-cli or socket.")
	<-a.ctx.Done()

	log.Println("Shutdown signal received, waiting for components...")

	// Close the listener before waiting so Accept returns.
	if a.listener != nil {
		if err := a.listener.Close(); err != nil {
			log.Printf("Error closing socket listener: %v", err)
		}
	}

	waitChan := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(waitChan)
	}()

	select {
	case <-waitChan:
		log.Println("All application goroutines finished.")
	case <-time.After(5 * time.Second):
		log.Println("Warning: Timeout waiting for application goroutines to stop.")
	}

	log.Println("NeuroFocus daemon finished.")
	return nil
}

// consumeEvents is the single consumer of the SPSC queue. It drains
// records, resolves window titles, classifies them, and feeds the tracker.
func (a *App) consumeEvents() {
	defer a.wg.Done()
	defer log.Println("Event consumer stopped.")

	var lastX, lastY int32
	var haveLast bool

	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		var rec event.Record
		if !a.queue.TryPop(&rec) {
			// Empty queue; back off briefly rather than spin.
			time.Sleep(10 * time.Millisecond)
			continue
		}

		switch rec.Kind {
		case event.KindWindowFocusChange, event.KindWindowTitleChange:
			appName := rec.AppName()
			title := ""
			if a.x11Col != nil {
				if name, t, ok := a.x11Col.TitleOf(rec.WindowID); ok {
					appName, title = name, t
				}
			}
			snap := classify.Classify(appName, title)
			snap.PID = rec.PID
			snap.WindowID = rec.WindowID
			snap.Timestamp = rec.Time()
			log.Printf("Focus changed: app=%q category=%s", appName, snap.Category)
			a.tracker.OnWindowChange(snap)

		case event.KindKeyPress:
			a.tracker.OnKeystroke()

		case event.KindMouseClick:
			a.tracker.OnMouseClick()

		case event.KindMouseMove:
			if m, ok := rec.Motion(); ok {
				if haveLast {
					a.tracker.OnMouseMove(int(m.X-lastX), int(m.Y-lastY))
				}
				lastX, lastY = m.X, m.Y
				haveLast = true
			}

		case event.KindIdleStart, event.KindIdleEnd, event.KindScreenLock, event.KindScreenUnlock:
			log.Printf("System event: %s", rec.Kind)

		default:
			// KeyRelease, wheel and window min/max carry no tracker-visible
			// signal today.
		}
	}
}

func (a *App) tickLoop() {
	defer a.wg.Done()
	defer log.Println("Tick loop stopped.")

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.tracker.OnTick()
		}
	}
}

func (a *App) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v. Initiating shutdown...", sig)
		a.cancel()
	}()
}

func (a *App) cleanup() {
	log.Println("Running cleanup...")

	if a.x11Col != nil {
		if err := a.x11Col.Stop(); err != nil {
			log.Printf("Error stopping X11 collector: %v", err)
		}
	}
	a.tracker.Stop()

	if _, err := os.Stat(a.socketPath); err == nil {
		log.Printf("Removing socket file: %s", a.socketPath)
		if err := os.Remove(a.socketPath); err != nil {
			log.Printf("Warning: Failed to remove socket file %s: %v", a.socketPath, err)
		}
	}

	log.Println("Cleanup finished.")
}
