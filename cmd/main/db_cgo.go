//go:build cgo_sqlite

package main

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// dataSourceName turns a diagnostics database path into a go-sqlite3 DSN with
// WAL journaling and a busy timeout, unless the caller already set them.
func dataSourceName(path string) string {
	dsn := path
	for _, param := range []string{"_journal_mode=WAL", "_busy_timeout=5000"} {
		key, _, _ := strings.Cut(param, "=")
		if strings.Contains(dsn, key+"=") {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + param
		} else {
			dsn += "?" + param
		}
	}
	return dsn
}

func initDB(path string) (*sql.DB, error) {
	return openDB("sqlite3", dataSourceName(path))
}
