package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hederw/nfs-extrator/internal/store"
)

// initStore opens the SQLite store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		path = "nfs-extrator.db"
	}

	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
