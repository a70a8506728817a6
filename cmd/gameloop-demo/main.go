// Command gameloop-demo runs a bouncing-ball terminal demo on the fixed-timestep engine
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/gameloop/audio"
	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/engine"
	"github.com/lixenwraith/gameloop/logging"
	"github.com/lixenwraith/gameloop/terminal"
)

func main() {
	opts := NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "gameloop-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, source, err := config.LoadAuto(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := opts.Complete(cfg); err != nil {
		return err
	}

	logger, logFile, err := setupLogging(cfg.Log, opts.Debug)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.V(logging.DEFAULT).Info("Starting", "config", source, "tickRate", cfg.Engine.TickRate, "maxFPS", cfg.Engine.MaxFPS)

	term, err := terminal.New(logger)
	if err != nil {
		return err
	}

	// Panic Recovery: restore the terminal before printing, for the loop goroutine
	// and, through the crash handler, for every goroutine started with core.Go
	crash := func(r any) {
		_ = term.Close()
		logger.Error(fmt.Errorf("%v", r), "Crashed")
		fmt.Fprintf(os.Stderr, "\n\x1b[31mGAMELOOP CRASHED: %v\x1b[0m\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		os.Exit(1)
	}
	core.SetCrashHandler(crash)
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()

	player := audio.NewPlayer(audio.Settings{
		Enabled:    cfg.Audio.Enabled,
		SampleRate: cfg.Audio.SampleRate,
		Volume:     cfg.Audio.Volume,
	}, logger)
	if err := player.Initialize(); err != nil {
		// Continue without audio
		logger.Error(err, "Audio initialization failed")
	}

	ecfg := engine.FromFile(cfg)
	ecfg.Logger = logger
	ecfg.Scheduler = newPresenter(term.Screen())

	var reg *prometheus.Registry
	if opts.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		ecfg.Registerer = reg
	}

	ecfg.Setup = func(ctx *core.Context) error {
		core.AddResource[tcell.Screen](ctx.Resources, term.Screen())
		core.AddResource(ctx.Resources, player)
		return nil
	}

	e, err := engine.Build(ecfg)
	if err != nil {
		_ = player.Close()
		_ = term.Close()
		return err
	}

	// Closed in reverse: metrics server, audio, terminal
	e.AddCloser(term)
	e.AddCloser(player)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if reg != nil {
		e.AddCloser(serveMetrics(opts.MetricsAddr, reg, logger))
	}

	if opts.WatchConfig && source != "" {
		if err := config.Watch(ctx, source, e.Sender(), logger); err != nil {
			logger.Error(err, "Config watch disabled")
		}
	}

	term.Start(e.Sender())

	return e.Run(ctx, newTitleState())
}

// metricsServer shuts the HTTP listener down when the engine closes it
type metricsServer struct {
	srv *http.Server
}

func (m *metricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger logr.Logger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	core.Go(func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server failed", "addr", addr)
		}
	})
	logger.V(logging.DEFAULT).Info("Serving metrics", "addr", addr)
	return &metricsServer{srv: srv}
}
