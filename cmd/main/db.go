package main

import (
	"database/sql"
	"fmt"
)

// openDB opens the diagnostics database and checks it can be reached, so a
// bad path fails before any run is recorded.
func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}
