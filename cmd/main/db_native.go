//go:build !cgo_sqlite

package main

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// dataSourceName turns a diagnostics database path into a modernc sqlite DSN
// with WAL journaling and a busy timeout, unless the caller already set them.
func dataSourceName(path string) string {
	dsn := path
	for _, pragma := range []string{"journal_mode(WAL)", "busy_timeout(5000)"} {
		name, _, _ := strings.Cut(pragma, "(")
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&_pragma=" + pragma
		} else {
			dsn += "?_pragma=" + pragma
		}
	}
	return dsn
}

func initDB(path string) (*sql.DB, error) {
	return openDB("sqlite", dataSourceName(path))
}
