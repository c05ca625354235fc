package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/mschirtzinger/mdsync/internal/config"
	"github.com/mschirtzinger/mdsync/internal/engine"
	"github.com/mschirtzinger/mdsync/internal/logging"
	"github.com/mschirtzinger/mdsync/internal/mapping"
)

// freePort returns a port nothing is listening on.
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestRunLifecycle_SetupFailureStopsServer(t *testing.T) {
	t.Setenv(mapping.EnvSources, "")

	port := freePort(t)
	oldCfg, oldLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = oldCfg, oldLogger })

	cfg = &config.Config{
		Site:       config.SiteConfig{Root: t.TempDir()},
		LiveReload: config.LiveReloadConfig{Port: port},
	}
	logger = logging.New(logging.Options{Writer: io.Discard})

	err := runLifecycle(devCmd, engine.DevCommand)
	if !errors.Is(err, mapping.ErrNoMappings) {
		t.Fatalf("runLifecycle() error = %v, want ErrNoMappings", err)
	}

	// The live reload port is free again once runLifecycle returns.
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		t.Fatalf("live reload server still listening: %v", err)
	}
	ln.Close()
}

func TestRunLifecycle_BuildSkipsSync(t *testing.T) {
	oldCfg, oldLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = oldCfg, oldLogger })

	cfg = &config.Config{Site: config.SiteConfig{Root: t.TempDir()}}
	logger = logging.New(logging.Options{Writer: io.Discard})

	if err := runLifecycle(buildCmd, "build"); err != nil {
		t.Errorf("runLifecycle() error = %v", err)
	}
}
