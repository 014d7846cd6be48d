package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/watcher"
)

var (
	watchFormat   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [journal file|journal dir]",
	Short: "Print the build each time the game writes a new loadout",
	Long: `Follow a journal file and print the current build whenever a new Loadout
event changes it. Given a directory, the most recent journal in it is
followed. Without an argument the configured journal directory is used
(journal.dir, EDFORGE_JOURNAL_DIR, or the game's default location).

Examples:
  edforge watch
  edforge watch "~/Saved Games/Frontier Developments/Elite Dangerous"
  edforge watch --format yaml Journal.2026-10-18T120000.01.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFormat, "format", "code", "Output format (code, json, yaml, journal)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before a changed file is read")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := app.cfg.JournalDir()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no journal directory configured")
	}
	if info, err := os.Stat(path); err != nil {
		return err
	} else if info.IsDir() {
		if path, err = watcher.LatestJournal(path); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var last string
	emit := func() {
		fingerprint, err := emitLoadout(out, path, last)
		if err != nil {
			app.logger.Warn("journal not read", "path", path, "err", err)
			return
		}
		last = fingerprint
	}

	emit()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info("following journal", "path", path)
	err := watcher.New(path, emit, app.logger).WithDebounce(watchDebounce).Watch(ctx)
	if errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// emitLoadout writes the journal's latest build when its fingerprint
// differs from last, and returns the fingerprint seen
func emitLoadout(out io.Writer, path, last string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return last, err
	}
	defer f.Close()

	ship, err := app.builds.Import(codec.NewJournalCodec().Format(), f)
	if errors.Is(err, codec.ErrNoLoadout) {
		return last, nil
	}
	if err != nil {
		return last, err
	}

	fingerprint, err := ship.Fingerprint()
	if err != nil {
		return last, err
	}
	if fingerprint == last {
		return last, nil
	}

	if err := writeShip(out, ship, watchFormat); err != nil {
		return last, err
	}
	if watchFormat != "code" && watchFormat != "journal" {
		fmt.Fprintln(out)
	}
	return fingerprint, nil
}
