package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/itnihongo/kaiwa/internal/bootstrap"
	"github.com/itnihongo/kaiwa/internal/config"
	"github.com/itnihongo/kaiwa/internal/database"
	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/logging"
	"github.com/itnihongo/kaiwa/internal/server"
	"github.com/itnihongo/kaiwa/internal/views"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	var debugMode bool
	var logFile string
	var addr string

	command := &cobra.Command{
		Use:           "kaiwa-server",
		Short:         "Serve IT Nihongo Kaiwa lessons over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closer := logging.Setup(logging.Options{Debug: debugMode, File: logFile})
			defer func() {
				_ = closer.Close()
			}()

			if configFile == "" {
				configFile = os.Getenv("KAIWA_CONFIG")
			}
			loader, err := config.NewConfigLoader(configFile)
			if err != nil {
				return fmt.Errorf("config.NewConfigLoader() > %w", err)
			}
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("loader.Load() > %w", err)
			}
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.Server.Port)
			}
			return run(cmd.Context(), cfg, addr)
		},
	}
	command.Flags().StringVar(&configFile, "config", "", "config file path (default $KAIWA_CONFIG)")
	command.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	command.Flags().StringVar(&logFile, "log-file", "", "also write logs to this rotated file")
	command.Flags().StringVar(&addr, "addr", "", "listen address (default :server.port)")
	return command
}

func run(ctx context.Context, cfg *config.Config, addr string) error {
	app := bootstrap.New()

	var db *sqlx.DB
	if cfg.Views.Backend == "mysql" {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook("database", func(ctx context.Context) error {
			return db.Close()
		})
	}
	store, err := views.Open(cfg.Views, db, cfg.Content.RequestTimeout())
	if err != nil {
		return fmt.Errorf("views.Open() > %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(newServer(cfg, store).Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("net.Listen(%s) > %w", addr, err)
		}
		slog.Default().Info("starting server", slog.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.Serve() > %w", err)
		}
		return nil
	})
}

// newServer serves the content root under /content/ unless lessons come from base_url.
func newServer(cfg *config.Config, store views.Store) *server.Server {
	source, probe := lesson.OpenContent(cfg.Content)
	prefix := server.ContentPrefix
	contentDir := cfg.Content.RootDirectory
	if cfg.Content.BaseURL != "" {
		prefix = strings.TrimRight(cfg.Content.BaseURL, "/") + "/"
		contentDir = ""
	}

	renderer := lesson.NewRenderer(source, probe, lesson.RenderOptions{
		Tolerances:   cfg.Media.Tolerances(),
		PublicPrefix: prefix,
	})
	return server.New(server.Options{
		Renderer:            renderer,
		Source:              source,
		Probe:               probe,
		Views:               store,
		ContentDir:          contentDir,
		LessonPageTemplate:  cfg.Templates.LessonPageTemplate,
		OutlinePageTemplate: cfg.Templates.OutlinePageTemplate,
		AllowedOrigins:      cfg.Server.CORS.AllowedOrigins,
	})
}
