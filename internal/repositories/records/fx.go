package records

import (
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	pgxpkg "github.com/orgball2608/facebook-group-parser/pkg/pgx"
	"go.uber.org/fx"
)

// NewFromConfig wires the ledger only when Postgres is configured; a nil
// Repository means cross-run dedup is disabled and the pipeline skips it.
func NewFromConfig(lc fx.Lifecycle, log logger.Logger, cfg *config.Config) (Repository, error) {
	if cfg.Postgres.Host == "" {
		log.Info("Postgres not configured, cross-run dedup ledger disabled")
		return nil, nil
	}

	pool, err := pgxpkg.New(lc, log, cfg)
	if err != nil {
		return nil, err
	}
	return NewPgx(pool, log), nil
}

var Module = fx.Module("records_repository", fx.Provide(NewFromConfig))
