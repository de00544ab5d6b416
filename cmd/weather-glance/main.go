package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/weather-glance/internal/api/http"
	"github.com/i474232898/weather-glance/internal/config"
	"github.com/i474232898/weather-glance/internal/icons"
	"github.com/i474232898/weather-glance/internal/metrics"
	"github.com/i474232898/weather-glance/internal/render"
	"github.com/i474232898/weather-glance/internal/scheduler"
	"github.com/i474232898/weather-glance/internal/screen"
	"github.com/i474232898/weather-glance/internal/store"
)

// Exit codes.
const (
	exitLoaded = 0
	exitError  = 1
	exitConfig = 2
	exitDenied = 3
)

// loadTimeout bounds one scheduled screen load in serve mode.
const loadTimeout = 2 * time.Minute

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	opts, err := config.Load(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(exitLoaded)
			}
			// go-flags already printed the error.
			os.Exit(exitConfig)
		}
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(exitConfig)
	}

	// Setup Logging
	opts.Logger.Setup()

	table, err := loadIcons(opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load icons")
		os.Exit(exitConfig)
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	loader, err := newLoader(opts, collector)
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Server.Serve {
		os.Exit(serve(ctx, opts, loader, table, collector))
	}
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	term := render.Terminal{
		Out:   colorable.NewColorableStdout(),
		Color: tty && !opts.Display.NoColor,
	}
	os.Exit(renderOnce(ctx, loader, table, term, opts.Display.Page, tty))
}

// stateLoader runs one screen load.
type stateLoader interface {
	Load(ctx context.Context) screen.State
}

// renderOnce runs the screen lifecycle a single time, draws it to term and
// returns the exit code. showLoading draws the placeholder screen first.
func renderOnce(ctx context.Context, loader stateLoader, table *icons.Table, term render.Terminal, page int, showLoading bool) int {
	if showLoading {
		if err := term.Render(render.Build(screen.Loading(time.Now()), table), 0); err != nil {
			log.Warn().Err(err).Msg("Failed to draw loading screen")
		}
	}

	state := loader.Load(ctx)

	if state.Phase != screen.PhaseLoaded {
		page = 0
	}
	if err := term.Render(render.Build(state, table), page); err != nil {
		if errors.Is(err, render.ErrPageOutOfRange) {
			log.Error().Err(err).Int("entries", len(state.Entries)).Msg("Requested page does not exist")
			return exitConfig
		}
		log.Error().Err(err).Msg("Failed to draw screen")
		return exitError
	}

	switch state.Phase {
	case screen.PhaseLoaded:
		return exitLoaded
	case screen.PhaseDenied:
		return exitDenied
	default:
		return exitError
	}
}

// serve keeps the screen in a store, refreshes it on schedule and exposes
// it over HTTP until ctx is cancelled.
func serve(ctx context.Context, opts *config.Options, loader *screen.Loader, table *icons.Table, collector *metrics.Collector) int {
	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(opts.Server.StoreMaxHistory, opts.Server.StoreMaxAge)
	memStore.Save(screen.Loading(time.Now().UTC()))

	sched := scheduler.New(opts.Server.RefreshInterval, loadTimeout, func(ctx context.Context) {
		memStore.Save(loader.Load(ctx))
	})
	if err := sched.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start scheduler")
		return exitError
	}
	defer sched.Stop()

	app := httpapi.NewApp(memStore, table, collector.Handler())

	addr := ":" + strconv.Itoa(opts.Server.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()
	log.Info().Str("addr", addr).Dur("refresh", opts.Server.RefreshInterval).Msg("Web server started")

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
		return exitError
	}
	return exitLoaded
}
