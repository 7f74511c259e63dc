package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func cmdBatch(args []string) error {
	fs, f := newFlagSet("batch")
	hashes := fs.String("hashes", "", "YAML table of level hashes to names")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: trtool batch [options] <level...>")
	}
	e, err := setup(f, *hashes)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e.log.Info("batch decode", zap.Int("files", fs.NArg()), zap.Int("workers", e.cfg.Batch.Workers))
	results, err := e.loader.LoadAll(ctx, fs.Args())
	for i, res := range results {
		if res == nil {
			fmt.Printf("FAIL  %s\n", fs.Arg(i))
			continue
		}
		fmt.Printf("ok    %-40s %-22s %-28s %v\n", res.Path, res.Level.Format(), res.Name, res.Duration)
	}

	if errs := multierr.Errors(err); len(errs) > 0 {
		fmt.Println()
		for _, fe := range errs {
			fmt.Fprintf(os.Stderr, "  %v\n", fe)
		}
		return fmt.Errorf("%d of %d levels failed", len(errs), fs.NArg())
	}
	return nil
}

func cmdWatch(args []string) error {
	fs, f := newFlagSet("watch")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: trtool watch [options] <level...>")
	}
	e, err := setup(f, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Decode once up front so errors show immediately.
	results, err := e.loader.LoadAll(ctx, fs.Args())
	for _, res := range results {
		if res != nil {
			fmt.Printf("loaded  %s (%s)\n", res.Path, res.Level.Format())
		}
	}
	for _, err := range multierr.Errors(err) {
		fmt.Fprintf(os.Stderr, "error   %v\n", err)
	}

	w, err := e.loader.Watch(ctx, e.cfg.Watch.Debounce(), fs.Args()...)
	if err != nil {
		return err
	}
	defer w.Close()

	e.log.Info("watching levels", zap.Strings("paths", fs.Args()))
	for u := range w.Updates {
		if u.Err != nil {
			fmt.Fprintf(os.Stderr, "error   %s: %v\n", u.Path, u.Err)
			continue
		}
		fmt.Printf("reload  %s (%s, %d rooms, %d items)\n",
			u.Path, u.Result.Level.Format(), u.Result.Level.NumRooms(), u.Result.Level.NumItems())
	}
	return nil
}
