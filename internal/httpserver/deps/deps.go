package deps

import (
	"time"

	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/tools"
	"github.com/linonon/aibookmarks/internal/workspace"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	Storage        string              // "file" or "redis", reported by readyz
	AllowedHosts   []string            // Host headers allowed to reach the API (empty = any)
	RequestTimeout time.Duration       // per tool call
	Heartbeat      time.Duration       // SSE keepalive interval, defaults to 30s
	Workspaces     *workspace.Registry // stores keyed by workspace root
	Tools          *tools.Registry     // tool definitions and dispatch
	StreamsDone    <-chan struct{}     // closed on shutdown to end event streams
}
