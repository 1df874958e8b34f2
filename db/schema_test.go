// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn := openSQLite(t)

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema run %d failed: %v", i+1, err)
		}
	}

	if _, err := conn.Exec(`INSERT INTO item (id, payload) VALUES ('a', 'x')`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
}

func TestSchemaRejectsBrokenCounters(t *testing.T) {
	conn := openSQLite(t)
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	tests := []struct {
		name  string
		votes int
		wins  int
	}{
		{"negative votes", -1, 0},
		{"negative wins", 1, -1},
		{"wins above votes", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conn.Exec(`INSERT INTO item (id, votes, wins) VALUES (?, ?, ?)`, tt.name, tt.votes, tt.wins)
			if err == nil {
				t.Error("Expected CHECK constraint violation")
			}
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	content := `[{"id":"a","payload":"https://img/a.png"},{"id":"b","payload":"https://img/b.png","votes":4,"wins":1}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[1].ID != "b" || items[1].Votes != 4 || items[1].Wins != 1 {
		t.Errorf("Unexpected item: %+v", items[1])
	}
}

func TestLoadSeedFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSeedFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"id":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeedFile(bad); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}
