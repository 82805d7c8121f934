//go:build linux

package main

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/platform"
)

func openX11(cfg *config.Config) (platform.DisplayServer, func(), error) {
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, cfg.ClampToMonitor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to display: %w", err)
	}
	go backend.EventLoop()
	return backend, backend.Disconnect, nil
}
