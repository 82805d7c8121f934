//go:build !linux

package main

import (
	"errors"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/platform"
)

func openX11(*config.Config) (platform.DisplayServer, func(), error) {
	return nil, nil, errors.New("the x11 backend is only available on linux; set backend: headless")
}
