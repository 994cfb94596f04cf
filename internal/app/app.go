// Package app bootstraps a gridscope process in either window role. The
// role is decided once, from the path shape of the route, before any state
// machinery exists; nothing downstream ever re-evaluates it.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/gridscope/internal/channel"
	"github.com/atomicstack/gridscope/internal/config"
	"github.com/atomicstack/gridscope/internal/intent"
	"github.com/atomicstack/gridscope/internal/lifecycle"
	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/resource"
	"github.com/atomicstack/gridscope/internal/route"
	"github.com/atomicstack/gridscope/internal/store"
	"github.com/atomicstack/gridscope/internal/tmux"
	"github.com/atomicstack/gridscope/internal/ui"
	"github.com/atomicstack/gridscope/internal/ui/panel"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

const dialTimeout = 5 * time.Second

// Run bootstraps and executes the Bubble Tea program for cfg's role.
// Logging is expected to be configured by the caller before entry.
func Run(cfg config.Config) error {
	role := route.Detect(cfg.Route)
	events.App.Role(role.String())
	defer events.App.Shutdown("exit")

	if role == route.RolePopout {
		return runPopout(cfg)
	}
	return runMain(cfg)
}

func runMain(cfg config.Config) error {
	catalog, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()
	if err := catalog.SeedIfEmpty(context.Background()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	bridge := nav.NewBridge(nav.NewMemoryLocation())
	defer bridge.Close()
	seedPageSize(bridge, cfg.PageSize)

	orch := resource.NewMain[vehicle.Filters, vehicle.Vehicle, vehicle.Stats](
		bridge, vehicle.Codec{}, catalog, vehicle.BuildKey)
	defer orch.Close()

	if err := os.MkdirAll(cfg.SocketDir, 0o755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	registry := channel.NewRegistry(func(name string) (channel.Transport, error) {
		return channel.ListenSocket(channel.SocketPath(cfg.SocketDir, name))
	}, cfg.Replay)
	registry.SetRole(route.RoleMain)
	defer registry.CloseAll()

	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own binary: %w", err)
	}
	manager := lifecycle.NewManager(popoutHost{
		host: tmux.NewHost(cfg.TmuxSocket),
		bin:  bin,
		cfg:  cfg,
	}, registry, cfg.Watchdog)
	defer manager.Shutdown()

	model := ui.NewModel(ui.MainConfig{
		Bridge:     bridge,
		Updates:    orch.Updates(),
		Manager:    manager,
		Dispatcher: intent.New(bridge),
		GridID:     cfg.GridID,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Verbose:    cfg.Features.Verbose,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runPopout(cfg config.Config) error {
	p, ok := route.ParsePopout(cfg.Route)
	if !ok {
		return fmt.Errorf("malformed pop-out route %q", cfg.Route)
	}
	if !panel.Known(p.PanelType) {
		return fmt.Errorf("unknown panel type %q in route %q", p.PanelType, cfg.Route)
	}

	registry := channel.NewRegistry(func(name string) (channel.Transport, error) {
		return channel.DialSocket(channel.SocketPath(cfg.SocketDir, name), dialTimeout)
	}, cfg.Replay)
	registry.SetRole(route.RolePopout)
	defer registry.CloseAll()

	ch, err := registry.Open(p.PanelID)
	if err != nil {
		return fmt.Errorf("connect panel channel: %w", err)
	}

	orch := resource.NewPopout[vehicle.Filters, vehicle.Vehicle, vehicle.Stats]()
	defer orch.Close()

	model := ui.NewPopoutModel(ui.PopoutConfig{
		Popout:  p,
		Channel: ch,
		Updates: orch.Updates(),
		Ingest:  orch.IngestSnapshot,
		Width:   cfg.Width,
		Height:  cfg.Height,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// seedPageSize writes a non-default page size into the initial URL so the
// first derivation already uses it.
func seedPageSize(bridge *nav.Bridge, pageSize int) {
	if pageSize <= 0 || pageSize == vehicle.DefaultPageSize {
		return
	}
	v := strconv.Itoa(pageSize)
	bridge.Merge(map[string]*string{"pageSize": &v}, true)
}

// popoutHost adapts the tmux host to the lifecycle package, baking the
// spawn command for pop-out processes.
type popoutHost struct {
	host *tmux.Host
	bin  string
	cfg  config.Config
}

func (h popoutHost) Open(p route.Popout) (lifecycle.Window, error) {
	args := []string{
		h.bin,
		"-route", p.Path(),
		"-grid", h.cfg.GridID,
		"-socket-dir", h.cfg.SocketDir,
	}
	if h.cfg.TmuxSocket != "" {
		args = append(args, "-tmux-socket", h.cfg.TmuxSocket)
	}
	if h.cfg.Logging.FilePath != "" {
		args = append(args, "-log-file", h.cfg.Logging.FilePath)
	}
	if h.cfg.Logging.Trace {
		args = append(args, "-trace")
	}
	ref, err := h.host.OpenWindow("gridscope-"+p.PanelID, args)
	if err != nil {
		return nil, err
	}
	return ref, nil
}
