package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/dfki-ric/phobos/logging"
)

// WatchAction is the corresponding action for 'watch'.
func WatchAction(c *cli.Context) error {
	pc, err := newPhobosContext(c)
	if err != nil {
		return err
	}
	scenePath, rootName, out := c.Path(flagScene), c.String(flagRoot), c.Path(flagOut)
	return watchFile(c.Context, scenePath, func() error {
		written, err := pc.export(scenePath, rootName, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "exported %s\n", written)
		return nil
	}, pc.logger)
}

// watchFile calls onChange once and then after every write to path, until ctx is done. Failures of onChange
// are logged and do not stop the watch.
func watchFile(ctx context.Context, path string, onChange func() error, logger logging.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Debugw("cannot close file watcher", "error", err)
		}
	}()
	// editors often replace the file, which drops a watch on the file itself
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	run := func() {
		if err := onChange(); err != nil {
			logger.Errorw("update failed", "file", abs, "error", err)
		}
	}
	run()
	logger.Infow("watching for changes", "file", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debugw("file changed", "file", event.Name, "op", event.Op.String())
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", "error", err)
		}
	}
}
