package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CommanderRoot/ed-forge/internal/loadout"
)

// formatForPath guesses the import format from a file extension
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".log":
		return "journal"
	default:
		return "code"
	}
}

// loadShip reads a build from a file, from stdin ("-") or from a build code
// given inline. from overrides the guessed format.
func loadShip(stdin io.Reader, arg, from string) (*loadout.Ship, error) {
	if arg == "-" {
		if from == "" {
			from = "code"
		}
		return app.builds.Import(from, stdin)
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if from == "" {
			from = formatForPath(arg)
		}
		app.logger.Debug("reading build file", "path", arg, "format", from)
		return app.builds.Import(from, f)
	}

	if from != "" && from != "code" {
		return nil, fmt.Errorf("%s: no such file", arg)
	}
	return app.builds.Decode(arg)
}

// writeShip writes a build in format, or in the configured output format
func writeShip(w io.Writer, ship *loadout.Ship, format string) error {
	if format == "" {
		format = app.cfg.Codec.OutputFormat
	}
	return app.builds.Export(ship, format, w)
}
