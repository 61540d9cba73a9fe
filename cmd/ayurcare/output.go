package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hyperengineering/ayurcare/internal/config"
	"github.com/hyperengineering/ayurcare/internal/store"
)

var (
	dbPathOverride string
	jsonOutput     bool
)

// openStore opens the database from config, or --db when given. It runs
// migrations like the server does.
func openStore() (*store.SQLiteStore, error) {
	path := dbPathOverride
	if path == "" {
		dbCfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = dbCfg.Path
	}
	return store.NewSQLiteStore(path)
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
