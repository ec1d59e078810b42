package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reload a mesh file whenever it changes",
	Long: `Watch a mesh file and print a summary after every change. For OpenSCAD
sources the included and used files are watched too. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := loader.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	if format == loader.FormatUnknown {
		format, _ = loader.DetectFormat(path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return &mesh.Error{Kind: mesh.KindIO, Op: "watch", Err: err}
	}
	defer fw.Close()

	changed := make(chan string, 1)
	notify := func(file string) {
		select {
		case changed <- file:
		default:
		}
	}

	// a failed first load is reported like any later one so that a broken
	// file can be fixed while watching
	if err := reload(ctx, cmd, path); err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return err
		}
		logger.Error("load failed", "path", path, "error", err)
	}
	if err := rewatch(fw, path, format, notify); err != nil {
		return err
	}
	fw.Start()
	logger.Info("watching for changes", "path", path, "debounce", cfg.Watch.Debounce)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching", "path", path)
			return nil
		case file := <-changed:
			logger.Info("file changed, reloading", "path", file)
			if err := reload(ctx, cmd, path); err != nil {
				logger.Error("reload failed", "path", path, "error", err)
			}
			// the dependency list of an OpenSCAD file may have changed
			if format == loader.FormatSCAD {
				if err := fw.RemoveAll(); err != nil {
					logger.Warn("failed to reset watches", "error", err)
				}
				if err := rewatch(fw, path, format, notify); err != nil {
					logger.Error("failed to watch dependencies", "path", path, "error", err)
				}
			}
		}
	}
}

func rewatch(fw *watcher.FileWatcher, path string, format loader.Format, notify func(string)) error {
	files, err := loader.WatchList(path, format)
	if err != nil {
		return err
	}
	logger.Debug("watch list", "files", files)
	if err := fw.Watch(files, notify); err != nil {
		return &mesh.Error{Kind: mesh.KindIO, Op: "watch", Err: err}
	}
	return nil
}

func reload(ctx context.Context, cmd *cobra.Command, path string) error {
	result, err := load(ctx, path)
	if err != nil {
		return err
	}

	m := analyze(result)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d faces, %d edges, %.3f x %.3f x %.3f, surface area %.6f, digest %.16s\n",
		result.Path, m.FaceCount, m.EdgeCount,
		m.Dimensions.X, m.Dimensions.Y, m.Dimensions.Z, m.SurfaceArea, result.Digest)
	return nil
}
