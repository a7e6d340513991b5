// termfolio - a terminal portfolio with scroll-triggered command playback.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/termfolio/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	case cli.CmdVersion:
		if err := cli.PrintVersion(os.Stdout, args.JSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitGeneralError)
		}
		return
	case cli.CmdConfig:
		// Config commands edit files and need no logging or storage.
		exit(cli.HandleConfig(args), args.JSON)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var console io.Writer
	if cmd == cli.CmdServe || cmd == cli.CmdSSH || (args.Verbose && cmd != cli.CmdTUI) {
		console = os.Stderr
	}

	app, err := cli.Bootstrap(args, console)
	if err != nil {
		exit(err, args.JSON)
		return
	}

	switch cmd {
	case cli.CmdTUI:
		err = cli.RunTUI(ctx, app)
	case cli.CmdREPL:
		err = cli.RunREPL(ctx, app)
	case cli.CmdShow:
		err = cli.RunShow(app, args)
	case cli.CmdServe:
		err = cli.RunServe(ctx, app, args)
	case cli.CmdSSH:
		err = cli.RunSSH(ctx, app, args)
	case cli.CmdTranscripts:
		err = cli.HandleTranscripts(app, args)
	case cli.CmdStats:
		err = cli.HandleStats(ctx, app, args)
	}

	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	exit(err, args.JSON)
}

// exit reports err and terminates with its exit code. A nil error returns.
func exit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	cli.DisplayError(os.Stderr, err, jsonMode)
	os.Exit(cli.ExitCode(err))
}
