package app

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"text/tabwriter"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"

	"github.com/five82/sitelist/internal/blob"
	"github.com/five82/sitelist/internal/config"
	"github.com/five82/sitelist/internal/fetch"
	"github.com/five82/sitelist/internal/logger"
	"github.com/five82/sitelist/internal/metrics"
	"github.com/five82/sitelist/internal/prefs"
	"github.com/five82/sitelist/internal/state"
	"github.com/five82/sitelist/internal/ui"
	"github.com/five82/sitelist/internal/website"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

// Options configure the sitelist application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sitelist/prefs.toml
	Verbose    bool   // debug logging for non-interactive commands
}

// ListOptions shape the output of List.
type ListOptions struct {
	Search string
	Sort   bool
	JSON   bool
}

// runtime bundles everything built from the config.
type runtime struct {
	cfg      config.Config
	log      logger.Logger
	cache    blob.Store
	metrics  *metrics.Metrics
	pipeline *fetch.Pipeline
}

// setup loads and validates the config, then builds the logger, cache and
// pipeline. logOpts picks where logs go for the calling command.
func setup(ctx context.Context, opts Options, logOpts func(config.Config) logger.Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(logOpts(cfg))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cache, err := blob.Open(ctx, cfg.BlobConfig())
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Driver, err)
	}

	ids := website.RandomID
	if cfg.StableIDs {
		ids = website.ContentID
	}

	m := metrics.New()
	return &runtime{
		cfg:     cfg,
		log:     log,
		cache:   cache,
		metrics: m,
		pipeline: fetch.New(fetch.Options{
			Endpoint:  cfg.Endpoint,
			Timeout:   cfg.Timeout,
			UserAgent: "sitelist/" + Version(),
			Cache:     cache,
			CacheKey:  cfg.Cache.Key,
			IDs:       ids,
			Logger:    log,
			Metrics:   m,
		}),
	}, nil
}

func (r *runtime) close() {
	if err := r.metrics.WriteTextfile(r.cfg.Log.MetricsFile); err != nil {
		r.log.Warn("metrics export failed", logger.Error(err))
	}
	if err := r.cache.Close(); err != nil {
		r.log.Warn("cache close failed", logger.Error(err))
	}
	_ = r.log.Sync()
}

// cliLogs logs to stderr so stdout stays machine-readable.
func cliLogs(opts Options) func(config.Config) logger.Options {
	return func(config.Config) logger.Options {
		level := "warn"
		if opts.Verbose {
			level = "debug"
		}
		return logger.Options{Level: level}
	}
}

// tuiLogs logs to the configured file so the alternate screen stays clean.
func tuiLogs(cfg config.Config) logger.Options {
	return logger.Options{Level: cfg.Log.Level, Path: cfg.LogPath()}
}

// Run boots the sitelist TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(ctx, opts, tuiLogs)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.log.Info("starting sitelist",
		logger.String("version", Version()),
		logger.String("endpoint", rt.pipeline.Endpoint()),
		logger.String("cache", string(rt.cache.Driver())),
	)

	userPrefs := prefs.Load(opts.PrefsPath)
	store := state.New(rt.pipeline, rt.log)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Endpoint:  rt.pipeline.Endpoint(),
		LogPath:   rt.cfg.LogPath(),
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// List fetches once and prints the derived view to w.
func List(ctx context.Context, opts Options, lopts ListOptions, w io.Writer) error {
	rt, err := setup(ctx, opts, cliLogs(opts))
	if err != nil {
		return err
	}
	defer rt.close()

	store := state.New(rt.pipeline, rt.log)
	select {
	case <-store.FetchWebsites(ctx):
	case <-ctx.Done():
		return ctx.Err()
	}
	if lopts.Sort {
		store.SortByName()
	}
	store.SetSearchText(lopts.Search)

	snap, items := store.View()
	if snap.LastError != nil {
		return snap.LastError
	}
	if snap.Stale {
		rt.log.Warn("showing offline copy; the website list source is unreachable")
	}

	if lopts.JSON {
		data, err := website.Encode(items)
		if err != nil {
			return fmt.Errorf("encode websites: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return writeTable(w, items)
}

func writeTable(w io.Writer, items []website.Website) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURL\tDESCRIPTION")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Name, item.URL, item.Description)
	}
	return tw.Flush()
}

// ShowCache describes the offline copy without touching the network.
func ShowCache(ctx context.Context, opts Options, w io.Writer) error {
	rt, err := setup(ctx, opts, cliLogs(opts))
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Fprintf(w, "driver:   %s\n", rt.cache.Driver())
	fmt.Fprintf(w, "key:      %s\n", rt.cfg.Cache.Key)

	res, err := rt.pipeline.LoadCached(ctx)
	if err != nil {
		fmt.Fprintf(w, "status:   %s\n", cacheStatus(err))
		return nil
	}
	fmt.Fprintf(w, "status:   ok\n")
	fmt.Fprintf(w, "websites: %d\n", len(res.Websites))
	return nil
}

func cacheStatus(err error) string {
	if failure.Is(err, fetch.ErrCacheCorrupt) {
		return "corrupt"
	}
	return "empty"
}

// ClearCache removes the offline copy.
func ClearCache(ctx context.Context, opts Options, w io.Writer) error {
	rt, err := setup(ctx, opts, cliLogs(opts))
	if err != nil {
		return err
	}
	defer rt.close()

	existed, err := rt.pipeline.ClearCache(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if existed {
		fmt.Fprintln(w, "Offline copy removed.")
	} else {
		fmt.Fprintln(w, "No offline copy to remove.")
	}
	return nil
}

// Version reports the build version, falling back to the VCS revision
// stamped by the Go toolchain.
func Version() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	rev, ok := lo.Find(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if !ok || rev.Value == "" {
		return version
	}
	if len(rev.Value) > 12 {
		return version + "+" + rev.Value[:12]
	}
	return version + "+" + rev.Value
}
