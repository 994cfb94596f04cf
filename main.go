package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/gridscope/internal/app"
	"github.com/atomicstack/gridscope/internal/config"
	"github.com/atomicstack/gridscope/internal/logging"
	"github.com/atomicstack/gridscope/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupTracePayload(cfg))

	if err := app.Run(cfg); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload captures the runtime context of this process for the
// first trace entry. Flags already carry trace and logFile.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    cfg.Flags,
		"config":   cfg,
		"terminal": probeTerminal(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

// terminalInfo records which standard descriptors are terminals. Size is the
// first usable geometry, the one the viewport falls back to when width and
// height are not forced by config.
type terminalInfo struct {
	Size   *terminalSize `json:"size,omitempty"`
	Probes []fdProbe     `json:"fds"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type fdProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

func probeTerminal() terminalInfo {
	var info terminalInfo
	for _, std := range []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	} {
		probe := fdProbe{Name: std.name}
		fd := int(std.file.Fd())
		if term.IsTerminal(fd) {
			probe.Terminal = true
			switch w, h, err := term.GetSize(fd); {
			case err != nil:
				probe.Error = err.Error()
			default:
				probe.Width, probe.Height = w, h
				if info.Size == nil {
					info.Size = &terminalSize{Source: std.name, Width: w, Height: h}
				}
			}
		}
		info.Probes = append(info.Probes, probe)
	}
	return info
}
