package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"turnavg/internal/logging"
	"turnavg/internal/record"
	"turnavg/internal/watch"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// printAverage prints total/amount with two decimals.
func printAverage(ctx context.Context, store *record.Store, w io.Writer) error {
	rec, err := store.Load(ctx)
	if err != nil {
		return err
	}

	avg, err := rec.FormatAverage()
	if err != nil {
		return fmt.Errorf("%s: %w", store.Path(), err)
	}

	_, err = fmt.Fprintln(w, avg)
	return err
}

// averageLine renders a record for watch output; an empty record prints "-".
func averageLine(rec record.Record) string {
	avg, err := rec.FormatAverage()
	if errors.Is(err, record.ErrNoEntries) {
		return "-"
	}
	return avg
}

// watchAverage prints the average once, then again on every state change or
// refresh signal, until interrupted.
func watchAverage(ctx context.Context, store *record.Store, w io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.For(logger, logging.CategoryWatch)

	var mu sync.Mutex
	emit := func(rec record.Record) {
		mu.Lock()
		defer mu.Unlock()
		if _, err := fmt.Fprintln(w, averageLine(rec)); err != nil {
			log.Warn("write failed", zap.Error(err))
		}
	}

	// The state must exist before watching, same as a one-shot report.
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	watcher := watch.New(store, cfg.WatchDebounce(), log)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx, emit)
	})

	g.Go(func() error {
		select {
		case <-watcher.Ready():
		case <-gctx.Done():
			return nil
		}
		// Loaded after the watch is registered so no write slips between.
		rec, err := store.Load(gctx)
		if err != nil {
			return err
		}
		emit(rec)
		return refreshOnSignal(gctx, store, emit)
	})

	return g.Wait()
}

// refreshOnSignal re-emits the current state on refreshSignals (SIGUSR1 on unix),
// which lets a status bar force a redraw.
func refreshOnSignal(ctx context.Context, store *record.Store, emit func(record.Record)) error {
	if len(refreshSignals) == 0 {
		<-ctx.Done()
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, refreshSignals...)
	defer signal.Stop(sigCh)

	log := logging.For(logger, logging.CategoryWatch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			rec, err := store.Load(ctx)
			if err != nil {
				log.Warn("refresh failed", zap.Stringer("signal", sig), zap.Error(err))
				continue
			}
			emit(rec)
		}
	}
}
