// =============================================================================
// watch.go - Resend a Program When Its File Changes
// =============================================================================
//
// The directory holding the file is watched rather than the file itself:
// many editors save by writing a new file and renaming it over the old one,
// which would drop a watch placed on the original inode. Bursts of events
// from a single save are collapsed by a debounce timer.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// defaultDebounce is how long the file must stay quiet before a resend.
const defaultDebounce = 300 * time.Millisecond

// watchFile calls onChange once the file at path has been quiet for
// debounce after a change. It returns when ctx is done. Errors from
// onChange are logged and watching continues.
func watchFile(ctx context.Context, path string, debounce time.Duration, log *slog.Logger, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("file changed", "path", abs, "op", ev.Op.String())
			timer.Reset(debounce)
			pending = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			if err := onChange(); err != nil {
				log.Error("resend failed", "path", abs, "error", err)
			}
		}
	}
}

func cmdWatch(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("watch")
	debounce := fs.Duration("debounce", defaultDebounce, "quiet period before resending")
	initial := fs.Bool("initial", true, "send the file once before watching")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() != 1 {
		return usageError("watch: need exactly one file")
	}
	path := fs.Arg(0)
	s := a.sender("")

	send := func() error {
		payloads, err := a.loadPrograms([]string{path})
		if err != nil {
			return err
		}
		if _, err := zplprotocol.SendAll(ctx, s, payloads, false); err != nil {
			return err
		}
		a.log.Info("sent", "path", path, "printer", a.cfg.address(""))
		return nil
	}

	if *initial {
		if err := send(); err != nil {
			return err
		}
	}
	a.log.Info("watching", "path", path, "debounce", *debounce)
	return watchFile(ctx, path, *debounce, a.log, send)
}
