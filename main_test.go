package main

import (
	"testing"
	"time"

	"github.com/atomicstack/gridscope/internal/config"
)

func TestProbeTerminalCoversStandardDescriptors(t *testing.T) {
	info := probeTerminal()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 descriptor probes, got %d", len(info.Probes))
	}
	for i, name := range []string{"stdin", "stdout", "stderr"} {
		if info.Probes[i].Name != name {
			t.Fatalf("probe %d is %q, want %q", i, info.Probes[i].Name, name)
		}
	}
}

func TestStartupTracePayloadCarriesRuntimeContext(t *testing.T) {
	cfg := config.Config{
		Route:     "/popout/grid-1/results/results",
		GridID:    "grid-1",
		DBPath:    "catalog.db",
		SocketDir: "/tmp/gridscope",
		Watchdog:  500 * time.Millisecond,
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"route":   "/popout/grid-1/results/results",
			"grid":    "grid-1",
			"trace":   "true",
			"logFile": "trace.log",
		},
		Args: []string{"-route", "/popout/grid-1/results/results"},
	}

	payload := startupTracePayload(cfg)

	flags, ok := payload["flags"].(map[string]string)
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flags["grid"] != "grid-1" || flags["route"] != cfg.Route {
		t.Fatalf("flags not carried through: %v", flags)
	}
	if flags["trace"] != "true" || flags["logFile"] != "trace.log" {
		t.Fatalf("logging flags missing: %v", flags)
	}
	if _, ok := payload["terminal"].(terminalInfo); !ok {
		t.Fatalf("expected terminal probe in payload")
	}
	got, ok := payload["config"].(config.Config)
	if !ok {
		t.Fatalf("expected config in payload")
	}
	if got.Route != cfg.Route || got.GridID != cfg.GridID {
		t.Fatalf("config not carried through: %#v", got)
	}
}
