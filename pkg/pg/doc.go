// Package pg provides PostgreSQL connection management, migrations, and
// health checks on top of pgx and goose.
//
// Connect builds a pgxpool.Pool from an environment-driven Config with
// retrying startup. Migrate applies the SQL migrations shipped in the
// repository's migrations directory, routing goose output through the
// application logger. Healthcheck returns a probe for readiness endpoints.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
package pg
