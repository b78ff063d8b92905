package views

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/itnihongo/kaiwa/internal/config"
)

// Open builds the configured store. Remote backends are wrapped in a
// FallbackStore over the local file; db is only used by the mysql backend.
func Open(cfg config.ViewsConfig, db *sqlx.DB, timeout time.Duration) (Store, error) {
	local := NewFileStore(cfg.FallbackFile)
	switch cfg.Backend {
	case "", "file":
		return local, nil
	case "github":
		gh, err := NewGitHubStore(cfg.GitHub, timeout)
		if err != nil {
			return nil, fmt.Errorf("NewGitHubStore() > %w", err)
		}
		return NewFallbackStore(gh, local), nil
	case "mysql":
		if db == nil {
			return nil, fmt.Errorf("mysql views backend > %w", ErrNotConfigured)
		}
		return NewFallbackStore(NewMySQLStore(db), local), nil
	default:
		return nil, fmt.Errorf("unknown views backend %q", cfg.Backend)
	}
}
