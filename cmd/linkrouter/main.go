package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/linkrouter/internal/config"
	"git.home.luguber.info/inful/linkrouter/internal/errors"
	"git.home.luguber.info/inful/linkrouter/internal/linkstore"
	"git.home.luguber.info/inful/linkrouter/internal/metrics"
	"git.home.luguber.info/inful/linkrouter/internal/pipeline"
	"git.home.luguber.info/inful/linkrouter/internal/report"
	"git.home.luguber.info/inful/linkrouter/internal/routes"
	"git.home.luguber.info/inful/linkrouter/internal/version"
	"git.home.luguber.info/inful/linkrouter/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"linkrouter.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
	} `cmd:"" help:"Rewrite links for the whole source tree once"`

	Watch struct {
	} `cmd:"" help:"Rebuild on source changes until interrupted"`

	Report struct {
		Output string `short:"o" help:"Report file to write" default:"links.json"`
	} `cmd:"" help:"Write a link report from the stored records without rebuilding"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct {
	} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// .env values fill in credentials like LINKROUTER_NATS_URL; absence is fine.
	_ = godotenv.Load(".env", ".env.local")

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default())

	switch kctx.Command() {
	case "build":
		adapter.HandleError(runBuild())
	case "watch":
		adapter.HandleError(runWatch())
	case "report":
		adapter.HandleError(runReport(CLI.Report.Output))
	case "init":
		adapter.HandleError(config.Init(CLI.Config, CLI.Init.Force))
	case "version":
		fmt.Printf("linkrouter %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Build summary",
		"build_id", result.BuildID,
		"documents", len(result.Documents),
		"internal", result.LinkCounts["internal"],
		"external", result.LinkCounts["external"],
		"skipped", result.LinkCounts["skipped"])
	return nil
}

func runWatch() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	var registry *prom.Registry
	if cfg.Metrics.Enabled {
		registry = prom.NewRegistry()
	}

	p, cleanup, err := newPipeline(cfg, registry)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if registry != nil {
		go serveMetrics(ctx, cfg.Metrics.Listen, registry)
	}

	// Initial full pass before entering the watch loop.
	if _, err := p.Run(ctx); err != nil {
		return err
	}

	debounce, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return errors.ValidationFailed("watch.debounce", err.Error())
	}

	w, err := watch.New(cfg.Site.Source, debounce, func(ctx context.Context) {
		if _, err := p.Run(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryRuntime, errors.SeverityFatal, "failed to create watcher")
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, errors.CategoryRuntime, errors.SeverityFatal, "watcher stopped unexpectedly")
	}
	slog.Info("Watch mode stopped")
	return nil
}

func runReport(output string) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if cfg.Report.Store == "" {
		return errors.ConfigRequired("report.store")
	}

	store, err := linkstore.Open(cfg.Report.Store)
	if err != nil {
		return errors.StoreError("open", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	docs, err := store.Documents(ctx)
	if err != nil {
		return errors.StoreError("read", err)
	}

	rep := &report.Report{
		GeneratedAt: time.Now(),
		Base:        cfg.Site.Base,
	}
	for _, d := range docs {
		rep.BuildID = d.BuildID
		rep.Documents = append(rep.Documents, report.DocumentLinks{
			Path:  d.Path,
			Route: routes.Infer(d.Path),
			Links: d.Links,
		})
	}
	if err := report.WriteJSON(output, rep); err != nil {
		return errors.OutputError("write report", err)
	}
	slog.Info("Wrote link report from store", "path", output, "documents", len(rep.Documents))
	return nil
}

// newPipeline assembles the pipeline with the optional sinks the
// configuration enables. The returned cleanup closes them.
func newPipeline(cfg *config.Config, registry *prom.Registry) (*pipeline.Pipeline, func(), error) {
	var opts []pipeline.Option
	var closers []func()

	if cfg.Report.Store != "" {
		store, err := linkstore.Open(cfg.Report.Store)
		if err != nil {
			return nil, nil, errors.StoreError("open", err)
		}
		closers = append(closers, func() { _ = store.Close() })
		opts = append(opts, pipeline.WithStore(store))
	}

	if cfg.Report.NATS != nil && cfg.Report.NATS.Enabled {
		pub, err := report.NewNATSPublisher(cfg.Report.NATS)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, errors.PublishError(cfg.Report.NATS.Subject, err)
		}
		closers = append(closers, func() { _ = pub.Close() })
		opts = append(opts, pipeline.WithPublisher(pub))
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, pipeline.WithRecorder(metrics.NewPrometheusRecorder(registry)))
	}

	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, nil, err
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return p, cleanup, nil
}

func serveMetrics(ctx context.Context, listen string, registry *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", "listen", listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics listener failed", "error", err)
	}
}
