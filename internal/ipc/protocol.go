package ipc

import "time"

// DefaultSocketPath is where the daemon listens unless configured
// otherwise.
const DefaultSocketPath = "/tmp/neurofocus.sock"

// Command is a request sent over the control socket.
type Command struct {
	Name string      `json:"name"`
	Args interface{} `json:"args,omitempty"`
}

// Response is the reply sent back for a Command.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Command names.
const (
	CmdPing    = "ping"
	CmdStatus  = "status"
	CmdHistory = "history"
	CmdDismiss = "dismiss" // acknowledge the pending recovery summary
)

type HistoryArgs struct {
	Count int `json:"count"` // max entries, newest first
}

// StatusData reports the tracker and queue health.
type StatusData struct {
	State            string  `json:"state"`
	FocusSeconds     float64 `json:"focus_seconds"`
	Idle             bool    `json:"idle"`
	QueueDepth       int     `json:"queue_depth"`
	QueueCapacity    int     `json:"queue_capacity"`
	QueueUtilization float64 `json:"queue_utilization"`
	DroppedFull      uint64  `json:"dropped_full"`
	DroppedInvalid   uint64  `json:"dropped_invalid"`
}

// HistoryEntry is one context snapshot, flattened for display.
type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Brief      string    `json:"brief"`
	AppName    string    `json:"app_name"`
	Category   string    `json:"category"`
	Seconds    float64   `json:"seconds"`
	Keystrokes uint32    `json:"keystrokes"`
	Productive bool      `json:"productive"`
}

type HistoryData struct {
	Entries []HistoryEntry `json:"entries"`
}
