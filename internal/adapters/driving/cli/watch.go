package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/yieldgrab/internal/logger"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <input> <output>",
	Short: "Re-extract whenever the dump file changes",
	Long: `Extract <input> to <output> once, then again each time <input> is
written, until interrupted. Extraction errors are reported and watching
continues.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	ctx := cmd.Context()
	input, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}
	output := args[1]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(input), err)
	}

	extract := func() {
		result, err := extractionService.Extract(ctx, input, output)
		if err != nil {
			logger.Warn("extraction failed: %v", err)
			return
		}
		cmd.Printf("Extracted %d rows to %s\n", result.Rows, result.Output)
	}

	extract()
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", input)
	return watchLoop(ctx, watcher.Events, watcher.Errors, input, watchDebounce, extract)
}

// watchLoop calls onChange after writes to target settle, until ctx is
// done or the event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	target string,
	debounce time.Duration,
	onChange func(),
) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("watch: %s", ev)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
