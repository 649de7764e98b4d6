package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch BASE UPDATED OUT",
		Short: "Rewrite the diff whenever one of the inputs changes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			update := func() error {
				_, err := writeDiff(cfg, args[0], args[1], args[2])
				return err
			}
			if err := update(); err != nil {
				return err
			}
			return watchFiles(args[:2], nil, update)
		},
	}
	addDiffFlags(cmd)
	return cmd
}

// watchFiles calls update whenever one of files changes until Ctrl-C is pressed or an error is
// received from errc.
func watchFiles(files []string, errc <-chan error, update func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %v", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, watch the directories instead.
	var watched []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("starting watch: %v", err)
		}
		watched = append(watched, abs)
		dir := filepath.Dir(abs)
		if slices.Contains(watcher.WatchList(), dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("starting watch: %v", err)
		}
	}
	log.Printf("Watching:\n    %v", strings.Join(files, "\n    "))

	// Setup signals to react to Ctrl-C.
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	for {
		select {
		case event := <-watcher.Events:
			if event.Has(fsnotify.Chmod) || !slices.Contains(watched, event.Name) {
				continue
			}
			// Removed files are usually recreated right away.
			if _, err := os.Stat(event.Name); os.IsNotExist(err) {
				continue
			}

			start := time.Now()
			if err := update(); err != nil {
				log.Printf("failed to update diff: %v", err)
				continue
			}
			log.Printf("Diff updated (%v)", time.Since(start))
		case err := <-watcher.Errors:
			return fmt.Errorf("watching: %v", err)
		case err := <-errc:
			return err
		case <-sigint:
			fmt.Print("\r") // remove Ctrl-C output characters
			log.Printf("Received Ctrl-C, shutting down")
			return nil
		}
	}
}
