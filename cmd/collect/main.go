package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/LJTian/NewsHub/internal/app"
	"github.com/LJTian/NewsHub/internal/config"
	"github.com/LJTian/NewsHub/internal/logger"
)

type options struct {
	Source   string `long:"source" short:"s" description:"Run only this source"`
	Keywords bool   `long:"keywords" short:"k" description:"Run the keyword search crawl instead of the registry"`
}

var errExclusive = errors.New("--source and --keywords cannot be combined")

func parseOptions(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if opts.Source != "" && opts.Keywords {
		return nil, errExclusive
	}
	return &opts, nil
}

// Runs one collection round and exits: every source plus a trend pass, a
// single named source with --source, or the keyword crawl with --keywords.
func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		if errors.Is(err, errExclusive) {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		os.Exit(2)
	}

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("init failed", logger.Error(err))
		os.Exit(1)
	}

	if opts.Source != "" {
		desc, err := a.Registry.Lookup(opts.Source)
		if err != nil {
			log.Error("lookup source", logger.Error(err))
			os.Exit(1)
		}
		st := a.Pipeline.RunSource(ctx, desc)
		log.Info("collect done",
			logger.String("source", st.Source),
			logger.Int("candidates", st.Candidates),
			logger.Int("added", st.Added),
			logger.Duration("elapsed", st.Elapsed))
		return
	}

	if opts.Keywords {
		added := a.Pipeline.RunAll(ctx, a.Keywords)
		log.Info("keyword crawl done", logger.Int("sources", len(a.Keywords)), logger.Int("added", added))
		return
	}

	added := a.Scheduler.RunOnce(ctx)
	log.Info("collect done", logger.Int("sources", len(a.Registry.All())), logger.Int("added", added))
}
