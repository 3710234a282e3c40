//go:build cgo_sqlite

package main

import "testing"

func TestDataSourceName(t *testing.T) {
	testCases := map[string]string{
		"diag.db":                      "diag.db?_journal_mode=WAL&_busy_timeout=5000",
		"diag.db?_busy_timeout=100":    "diag.db?_busy_timeout=100&_journal_mode=WAL",
		"diag.db?_journal_mode=DELETE": "diag.db?_journal_mode=DELETE&_busy_timeout=5000",
	}
	for path, want := range testCases {
		if got := dataSourceName(path); got != want {
			t.Errorf("dataSourceName(%q) = %q, want %q", path, got, want)
		}
	}
}
