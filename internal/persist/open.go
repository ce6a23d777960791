package persist

import (
	"context"
	"fmt"

	"github.com/mpsoul/arena/internal/config"
	"go.uber.org/zap"
)

// OpenResultRepo connects to the configured database, applies migrations
// and returns its ResultRepo. An empty driver returns (nil, nil): results
// are then only logged.
func OpenResultRepo(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (ResultRepo, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("result store ready", zap.String("driver", cfg.Driver))
		return NewResultRepo(db), nil
	case "sqlite":
		db, err := OpenSQLite(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := RunSQLiteMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("result store ready", zap.String("driver", cfg.Driver), zap.String("dsn", cfg.DSN))
		return NewSQLiteResultRepo(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
