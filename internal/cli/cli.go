// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdREPL
	CmdShow
	CmdServe
	CmdSSH
	CmdConfig
	CmdTranscripts
	CmdStats
	CmdVersion
	CmdHelp
)

// String returns the command word.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdREPL:
		return "repl"
	case CmdShow:
		return "show"
	case CmdServe:
		return "serve"
	case CmdSSH:
		return "ssh"
	case CmdConfig:
		return "config"
	case CmdTranscripts:
		return "transcripts"
	case CmdStats:
		return "stats"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// commandWords maps command words and aliases to commands.
var commandWords = map[string]Command{
	"tui":         CmdTUI,
	"repl":        CmdREPL,
	"shell":       CmdREPL,
	"show":        CmdShow,
	"serve":       CmdServe,
	"http":        CmdServe,
	"ssh":         CmdSSH,
	"config":      CmdConfig,
	"transcripts": CmdTranscripts,
	"transcript":  CmdTranscripts,
	"stats":       CmdStats,
	"version":     CmdVersion,
	"help":        CmdHelp,
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Theme      string
	Mode       string
	Addr       string
	Content    string
	LogLevel   string
	JSON       bool
	Verbose    bool

	// Command-specific
	Days   int
	Width  int
	Format string
	OutDir string

	// Subcommand is the first positional argument after the command.
	Subcommand string

	// Raw holds the positional arguments after Subcommand.
	Raw []string
}

const usageText = `termfolio - a terminal portfolio

Scroll through the sections to watch their commands type themselves, or
switch to interactive mode and explore with help, theme and history.

Usage:
  termfolio                       Start the TUI (default)
  termfolio tui                   Start the TUI
  termfolio repl                  Line-mode shell with history
  termfolio show <command>        Print one command's output
  termfolio serve                 Serve the JSON API for browsers
  termfolio ssh                   Serve the TUI over SSH
  termfolio config [show|get|set|reset|path|keys]
  termfolio transcripts [list|show|delete|export] [id]
  termfolio stats [--days N]      Visitor and command statistics
  termfolio version               Show version information

Global Flags:
  -c, --config <path>   Config file (default ~/.termfolio/config.toml)
      --theme <name>    Start theme (matrix, gruvbox, monokai, light)
      --mode <mode>     Start mode (scrollAuto, interactive)
      --addr <addr>     Listen address for serve and ssh
      --content <path>  YAML content override
      --log-level <l>   debug, info, warn or error
      --json            JSON output where supported
  -v, --verbose         Log to stderr (serve and ssh always do)
  -h, --help            Show this help

Show:
      --width <n>       Wrap width (default terminal width)

Transcript Export:
      --format <f>      markdown, html or json (default markdown)
  -o, --out <dir>       Output directory (default .)

Examples:
  termfolio --theme gruvbox
  termfolio show projects
  termfolio serve --addr :9000
  termfolio config set reveal.threshold 0.2
  termfolio transcripts export 20250601-093000-abcd --format html
`

// Parse parses os.Args. Usage errors are printed and exit with status 2.
func Parse() (Command, Args) {
	cmd, args, err := ParseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			PrintUsage(os.Stdout)
			os.Exit(ExitSuccess)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		PrintUsage(os.Stderr)
		os.Exit(ExitUsageError)
	}
	return cmd, args
}

// ParseArgs parses argv (without the program name). Flags may appear before
// or after the command word.
func ParseArgs(argv []string) (Command, Args, error) {
	var args Args
	var showVersion bool

	fs := pflag.NewFlagSet("termfolio", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&args.ConfigPath, "config", "c", "", "config file")
	fs.StringVar(&args.Theme, "theme", "", "start theme")
	fs.StringVar(&args.Mode, "mode", "", "start mode")
	fs.StringVar(&args.Addr, "addr", "", "listen address")
	fs.StringVar(&args.Content, "content", "", "content override file")
	fs.StringVar(&args.LogLevel, "log-level", "", "log level")
	fs.BoolVar(&args.JSON, "json", false, "JSON output")
	fs.BoolVarP(&args.Verbose, "verbose", "v", false, "log to stderr")
	fs.IntVar(&args.Days, "days", 7, "stats window in days")
	fs.IntVar(&args.Width, "width", 0, "render width for show")
	fs.StringVar(&args.Format, "format", "markdown", "transcript export format")
	fs.StringVarP(&args.OutDir, "out", "o", ".", "transcript export directory")
	fs.BoolVar(&showVersion, "version", false, "show version")

	if err := fs.Parse(argv); err != nil {
		return CmdHelp, args, err
	}
	if showVersion {
		return CmdVersion, args, nil
	}

	positional := fs.Args()
	cmd := CmdTUI
	if len(positional) > 0 {
		word := strings.ToLower(positional[0])
		c, ok := commandWords[word]
		if !ok {
			return CmdHelp, args, NewValidationErrorWithExample("command", positional[0],
				"unknown command", "termfolio show about")
		}
		cmd = c
		positional = positional[1:]
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
		args.Raw = positional[1:]
	}

	if args.Days < 1 {
		return cmd, args, NewValidationError("days", fmt.Sprint(args.Days), "must be at least 1")
	}
	if cmd == CmdShow && args.Subcommand == "" {
		return cmd, args, NewValidationErrorWithExample("command", "", "show needs a command", "termfolio show skills")
	}
	return cmd, args, nil
}

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return writeJSON(w, map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		})
	}
	fmt.Fprintf(w, "termfolio %s\n", Version)
	fmt.Fprintf(w, "  Commit:   %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:    %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:       %s\n", runtime.Version())
	fmt.Fprintf(w, "  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
