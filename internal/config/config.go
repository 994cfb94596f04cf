package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the application.
type Config struct {
	Route      string
	GridID     string
	DBPath     string
	SocketDir  string
	TmuxSocket string
	Width      int
	Height     int
	Watchdog   time.Duration
	Replay     int
	PageSize   int
	Logging    Logging
	Features   Features
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envRoute      = "GRIDSCOPE_ROUTE"
	envGridID     = "GRIDSCOPE_GRID_ID"
	envDBPath     = "GRIDSCOPE_DB"
	envSocketDir  = "GRIDSCOPE_SOCKET_DIR"
	envTmuxSocket = "GRIDSCOPE_TMUX_SOCKET"
	envWidth      = "GRIDSCOPE_WIDTH"
	envHeight     = "GRIDSCOPE_HEIGHT"
	envWatchdog   = "GRIDSCOPE_WATCHDOG_MS"
	envReplay     = "GRIDSCOPE_REPLAY"
	envPageSize   = "GRIDSCOPE_PAGE_SIZE"
	envVerbose    = "GRIDSCOPE_VERBOSE"
	envTrace      = "GRIDSCOPE_TRACE"
	envLogFile    = "GRIDSCOPE_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("gridscope", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	routeFlag := fs.String("route", envOrDefault(env, envRoute, "/"), "path this process serves (pop-outs use /popout/{grid}/{panel}/{type})")
	gridID := fs.String("grid", envOrDefault(env, envGridID, "grid-1"), "grid identifier shared by the main window and its pop-outs")
	dbPath := fs.String("db", envOrDefault(env, envDBPath, defaultDBPath()), "path to the vehicle catalog database")
	socketDir := fs.String("socket-dir", envOrDefault(env, envSocketDir, defaultSocketDir()), "directory holding per-panel channel sockets")
	tmuxSocket := fs.String("tmux-socket", envOrDefault(env, envTmuxSocket, ""), "path to the tmux socket (empty uses the default server)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	watchdog := fs.Int("watchdog-ms", envOrInt(env, envWatchdog, 500), "pop-out liveness poll interval in milliseconds")
	replay := fs.Int("replay", envOrInt(env, envReplay, 0), "channel replay buffer size (0 uses the default)")
	pageSize := fs.Int("page-size", envOrInt(env, envPageSize, 0), "default results page size (0 uses the built-in default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *watchdog <= 0 {
		return Config{}, fmt.Errorf("watchdog-ms must be > 0 (got %d)", *watchdog)
	}
	if strings.TrimSpace(*gridID) == "" {
		return Config{}, fmt.Errorf("grid id must not be empty")
	}

	cfg := Config{
		Route:      *routeFlag,
		GridID:     *gridID,
		DBPath:     *dbPath,
		SocketDir:  *socketDir,
		TmuxSocket: *tmuxSocket,
		Width:      *width,
		Height:     *height,
		Watchdog:   time.Duration(*watchdog) * time.Millisecond,
		Replay:     *replay,
		PageSize:   *pageSize,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"route":      *routeFlag,
			"grid":       *gridID,
			"db":         *dbPath,
			"socketDir":  *socketDir,
			"tmuxSocket": *tmuxSocket,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"watchdogMs": strconv.Itoa(*watchdog),
			"replay":     strconv.Itoa(*replay),
			"pageSize":   strconv.Itoa(*pageSize),
			"trace":      strconv.FormatBool(*trace),
			"verbose":    strconv.FormatBool(*verbose),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gridscope.db"
	}
	return filepath.Join(home, ".local", "share", "gridscope", "catalog.db")
}

func defaultSocketDir() string {
	return filepath.Join(os.TempDir(), "gridscope")
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
