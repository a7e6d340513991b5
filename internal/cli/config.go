// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jeranaias/termfolio/internal/config"
)

// HandleConfig handles "termfolio config [show|get|set|path|keys|reset]".
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		if len(args.Raw) != 1 {
			return NewValidationErrorWithExample("arguments", strings.Join(args.Raw, " "),
				"get needs one key", "termfolio config get reveal.threshold")
		}
		return handleConfigGet(args, args.Raw[0])
	case "set":
		if len(args.Raw) != 2 {
			return NewValidationErrorWithExample("arguments", strings.Join(args.Raw, " "),
				"set needs a key and a value", "termfolio config set terminal.default_theme gruvbox")
		}
		return handleConfigSet(args, args.Raw[0], args.Raw[1])
	case "reset":
		return handleConfigReset(args)
	case "path":
		return handleConfigPath(args)
	case "keys":
		for _, k := range config.Keys() {
			fmt.Fprintln(stdout, k)
		}
		return nil
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"unknown config subcommand", "termfolio config show")
	}
}

// configTarget resolves the file config commands read and write, and the
// configuration currently stored there.
func configTarget(args Args) (*config.Config, string, error) {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return nil, "", &ConfigError{Err: err}
		}
		path = p
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default()
		cfg.SetDefaults()
		return cfg, path, nil
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", &ConfigError{Err: err}
	}
	return cfg, path, nil
}

func handleConfigShow(args Args) error {
	cfg, path, err := configTarget(args)
	if err != nil {
		return err
	}
	if args.JSON {
		fmt.Fprintln(stdout, cfg.String())
		return nil
	}

	fmt.Fprintln(stdout, TitleStyle.Render("termfolio configuration"))
	fmt.Fprintln(stdout, RenderKV("File", path))
	fmt.Fprintln(stdout, RenderSeparator())
	section := ""
	for _, key := range config.Keys() {
		head, _, _ := strings.Cut(key, ".")
		if head != section {
			section = head
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, DimStyle.Render("["+section+"]"))
		}
		v, _ := cfg.Get(key)
		if key == "server.salt" && fmt.Sprint(v) != "" {
			v = "[REDACTED]"
		}
		fmt.Fprintln(stdout, RenderKV(key, v))
	}
	return nil
}

func handleConfigGet(args Args, key string) error {
	cfg, _, err := configTarget(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(key)
	if err != nil {
		return NewNotFoundError("config key", key)
	}
	if args.JSON {
		return writeJSON(stdout, map[string]any{"key": key, "value": v})
	}
	fmt.Fprintln(stdout, v)
	return nil
}

func handleConfigSet(args Args, key, value string) error {
	cfg, path, err := configTarget(args)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "could not save", err)
	}
	if args.JSON {
		return writeJSON(stdout, map[string]any{"key": key, "value": value, "success": true})
	}
	fmt.Fprintf(stdout, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

func handleConfigReset(args Args) error {
	_, path, err := configTarget(args)
	if err != nil {
		return err
	}
	cfg := config.Default()
	cfg.SetDefaults()
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "reset", "could not save", err)
	}
	fmt.Fprintf(stdout, "%s configuration reset (%s)\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

func handleConfigPath(args Args) error {
	_, path, err := configTarget(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return writeJSON(stdout, map[string]string{"path": path})
	}
	fmt.Fprintln(stdout, path)
	return nil
}
