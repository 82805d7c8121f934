package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/daemon"
	"github.com/1broseidon/floatwin/internal/hotkeys"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/logging"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/runtimepath"
	"github.com/1broseidon/floatwin/internal/window"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the floatwin daemon (foreground)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := logging.Init(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
			return err
		}
		return runDaemon(cfg)
	},
}

func runDaemon(cfg *config.Config) error {
	log := logging.Logger

	display, cleanup, err := openDisplay(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	host, err := daemon.NewHost(daemon.HostConfig{
		Display:      display,
		Backend:      string(cfg.Backend),
		Window:       cfg.WindowOptions(),
		TickInterval: cfg.TickInterval,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	sock := socketPath
	if sock == "" {
		sock = cfg.SocketPath
	}
	sock, err = runtimepath.SocketPath(sock)
	if err != nil {
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	server := ipc.NewServer(sock, host, log)
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			logging.Warn().Err(err).Msg("failed to write pid file")
		} else {
			defer os.Remove(pidPath)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if cfg.Hotkey != "" {
		registerHotkey(ctx, cfg.Hotkey, display, host)
	}

	if cfg.EnableOnStart {
		go func() {
			if err := host.Do(ctx, func(w *window.Wrapper) error { return w.Enable() }); err != nil {
				logging.Error().Err(err).Msg("failed to enable floating window on start")
			}
		}()
	}

	logging.Info().
		Str("backend", string(cfg.Backend)).
		Str("socket", sock).
		Stringer("default_size", cfg.DefaultSize).
		Msg("floatwin daemon started")
	host.Run(ctx)
	return nil
}

// openDisplay connects the configured backend. The returned cleanup
// disconnects it.
func openDisplay(cfg *config.Config) (platform.DisplayServer, func(), error) {
	switch cfg.Backend {
	case config.BackendHeadless:
		return platform.NewHeadlessServer(cfg.Displays()...), func() {}, nil
	case config.BackendX11:
		return openX11(cfg)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func registerHotkey(ctx context.Context, seq string, display platform.DisplayServer, host *daemon.Host) {
	handler, err := hotkeys.NewHandler(display, logging.Logger)
	if err != nil {
		logging.Warn().Err(err).Msg("hotkey disabled")
		return
	}
	err = handler.Register(seq, "toggle", func() {
		// Off the X event goroutine: Enable and Disable issue X requests.
		go func() {
			if err := host.Do(ctx, func(w *window.Wrapper) error { return w.Toggle() }); err != nil {
				logging.Error().Err(err).Msg("failed to toggle floating window")
			}
		}()
	})
	if err != nil {
		logging.Warn().Err(err).Msg("hotkey disabled")
		return
	}
	logging.Debug().Str("sequence", seq).Msg("hotkey registered")
}
