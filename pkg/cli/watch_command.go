package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/homecfg/refcheck/pkg/console"
	"github.com/homecfg/refcheck/pkg/constants"
	"github.com/homecfg/refcheck/pkg/fileutil"
	"github.com/homecfg/refcheck/pkg/logger"
	"github.com/homecfg/refcheck/pkg/validator"
)

var watchLog = logger.New("cli:watch_command")

// debounceWindow coalesces editor write bursts into one re-validation.
const debounceWindow = 500 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [config-dir]",
		Short: "Re-validate a config directory whenever it changes",
		Long: `Watch a config directory and its storage registries, re-running
validation after each change. Rapid write bursts are coalesced.

Stops on Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			verbose, _ := cmd.Flags().GetBool("verbose")

			configDir := "config"
			if len(args) == 1 {
				configDir = args[0]
			}
			settings, err := validator.DiscoverSettings(settingsPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchLoop(ctx, cmd, configDir, settings, verbose)
		},
	}
}

func watchLoop(ctx context.Context, cmd *cobra.Command, configDir string, settings validator.Settings, verbose bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("watch %s: %w", configDir, err)
	}
	for _, sub := range []string{
		filepath.Join(configDir, constants.StorageDirName),
		filepath.Join(configDir, constants.BlueprintsDirName),
	} {
		if fileutil.DirExists(sub) {
			if err := watcher.Add(sub); err != nil {
				watchLog.Printf("cannot watch %s: %v", sub, err)
			}
		}
	}

	out := cmd.OutOrStdout()
	runOnce := func() {
		// Sessions are cheap; a fresh one per run picks up registry edits.
		report := validator.NewSession(configDir, settings).Run()
		printResult(out, Result{ConfigDir: configDir, Report: report}, verbose)
	}

	fmt.Fprintln(out, console.FormatInfoMessage(fmt.Sprintf("Watching %s", configDir)))
	runOnce()

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			watchLog.Printf("change: %s %s", event.Op, event.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("watch error: %v", err)
		}
	}
}
