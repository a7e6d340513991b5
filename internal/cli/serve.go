// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/server"
	"github.com/jeranaias/termfolio/internal/sshserve"
)

// RunServe serves the JSON API for the browser front end.
func RunServe(ctx context.Context, app *App, args Args) error {
	cfg := app.Config
	if args.Addr != "" {
		cfg.Server.Addr = args.Addr
	}
	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := server.Options{
		Config:   cfg.Server,
		Terminal: cfg.Terminal,
		Reveal:   cfg.RevealSettings(),
		Bundle:   app.Bundle(),
		Logger:   app.Logger,
	}
	// A nil *Store must not become a non-nil Recorder.
	if st := app.Store(); st != nil {
		opts.Recorder = st
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	if err := app.Watch(srv.SetBundle); err != nil {
		app.Logger.Warn("content reload disabled", "error", err)
	}
	return srv.Run(ctx)
}

// RunSSH serves the portfolio TUI over SSH.
func RunSSH(ctx context.Context, app *App, args Args) error {
	cfg := app.Config
	if args.Addr != "" {
		cfg.SSH.Addr = args.Addr
	}

	srv, err := sshserve.New(sshserve.Options{
		Config:    cfg,
		Bundle:    app.Bundle,
		OnCommand: app.CommandRecorder("ssh"),
		Subtitle:  app.Subtitle(),
		Logger:    app.Logger,
	})
	if err != nil {
		return err
	}
	// New connections pick up reloads through app.Bundle.
	if err := app.Watch(func(*content.Bundle) {}); err != nil {
		app.Logger.Warn("content reload disabled", "error", err)
	}
	return srv.Run(ctx)
}
