package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/feedmirror/decode"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/feeds"
	"github.com/CrestNiraj12/feedmirror/infra/auth"
	"github.com/CrestNiraj12/feedmirror/infra/config"
	"github.com/CrestNiraj12/feedmirror/infra/editor"
	"github.com/CrestNiraj12/feedmirror/infra/feedsapi"
	"github.com/CrestNiraj12/feedmirror/infra/metrics"
	"github.com/CrestNiraj12/feedmirror/infra/realtime"
	"github.com/CrestNiraj12/feedmirror/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliOptions struct {
	feed        string
	metricsAddr string
	showVersion bool
}

func newRootCmd() *cobra.Command {
	var opts cliOptions
	cmd := &cobra.Command{
		Use:   "feedmirror",
		Short: "Watch an activity feed from the terminal",
		Long: `feedmirror keeps a live local mirror of one activity feed: the first page
is fetched over REST, push events arrive over a websocket, and likes,
bookmarks and comments are applied optimistically.

Configuration is read from FEEDMIRROR_* environment variables and an
optional .env file in the working directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.showVersion {
				v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
				fmt.Fprintf(cmd.OutOrStdout(), "feedmirror %s\ncommit: %s\nbuilt: %s\n", v, c, d)
				return nil
			}
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.feed, "feed", "", "feed to watch as group:id (default: last watched, then FEEDMIRROR_FEED)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "print version information")
	return cmd
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// resolveFeed picks the feed to watch: the flag, then the last watched feed,
// then the configured default.
func resolveFeed(flag string, st config.UIState, fallback domain.FeedID) (domain.FeedID, error) {
	if flag != "" {
		return domain.ParseFeedID(flag)
	}
	if st.Feed != "" {
		if fid, err := domain.ParseFeedID(st.Feed); err == nil {
			return fid, nil
		}
	}
	return fallback, nil
}

func newLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, f, nil
}

func tokenProvider(cfg config.Config) auth.TokenProvider {
	if cfg.APISecret != "" {
		return auth.NewJWTTokenProvider(cfg.APISecret, cfg.UserID, time.Hour)
	}
	return auth.NewFileTokenProvider(cfg.TokenPath)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	return srv
}

// watchPushEvents feeds websocket events into the client until ctx is done.
// The connection is not re-established when it drops.
func watchPushEvents(ctx context.Context, opts realtime.Options, client *feeds.Client, logger *slog.Logger) {
	conn, err := realtime.Dial(ctx, opts)
	if err != nil {
		logger.Error("websocket connect failed", "error", err)
		return
	}
	defer conn.Close()
	if err := conn.Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("websocket stopped", "error", err)
	}
}

func run(ctx context.Context, opts cliOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	uiState, err := config.LoadUIState(cfg.StatePath)
	if err != nil {
		logger.Warn("ignoring ui state", "error", err)
	}
	fid, err := resolveFeed(opts.feed, uiState, cfg.Feed)
	if err != nil {
		return fmt.Errorf("--feed: %w", err)
	}

	// 2. Build infrastructure.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)
	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr, reg, logger)
		defer srv.Close()
	}

	tokens := tokenProvider(cfg)
	decoder := decode.NewRegistry()
	api := feedsapi.NewFeedsService(feedsapi.NewClient(feedsapi.Options{
		BaseURL:   cfg.APIURL,
		APIKey:    cfg.APIKey,
		Tokens:    tokens,
		RateLimit: cfg.RateLimit,
		Decoder:   decoder,
		Logger:    logger,
	}))

	// 3. Build the state engine.
	client := feeds.NewClient(api, feeds.Options{
		CurrentUserID: cfg.UserID,
		Logger:        logger,
		Metrics:       m,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchPushEvents(ctx, realtime.Options{
		URL:     cfg.WSURL,
		APIKey:  cfg.APIKey,
		UserID:  cfg.UserID,
		Tokens:  tokens,
		Decoder: decoder,
		Logger:  logger,
	}, client, logger)

	// 4. Wire root TUI model.
	root := tui.NewApp(tui.Deps{
		Feed:      client.Feed(fid),
		Editor:    editor.NewEnvEditor(),
		StatePath: cfg.StatePath,
		Logger:    logger,
	})
	defer root.Close()

	// 5. Run.
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("feedmirror: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
