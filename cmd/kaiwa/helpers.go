package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/itnihongo/kaiwa/internal/config"
	"github.com/itnihongo/kaiwa/internal/database"
	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/views"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newRenderer(cfg *config.Config, opts lesson.RenderOptions) (*lesson.Renderer, lesson.Source) {
	source, probe := lesson.OpenContent(cfg.Content)
	opts.Tolerances = cfg.Media.Tolerances()
	return lesson.NewRenderer(source, probe, opts), source
}

// openViews opens the configured view store; the returned func releases it.
func openViews(cfg *config.Config) (views.Store, func() error, error) {
	var db *sqlx.DB
	closeFn := func() error { return nil }
	if cfg.Views.Backend == "mysql" {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		closeFn = db.Close
	}
	store, err := views.Open(cfg.Views, db, cfg.Content.RequestTimeout())
	if err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("views.Open() > %w", err)
	}
	return store, closeFn, nil
}

func fetchLesson(ctx context.Context, source lesson.Source, lessonPath string) (string, error) {
	text, err := source.FetchText(ctx, lessonPath)
	if err != nil {
		return "", fmt.Errorf("source.FetchText(%s) > %w", lessonPath, err)
	}
	return text, nil
}
