package auth

import (
	"testing"

	"github.com/sd3v/wrapped/internal/shared"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestCredentialStores(t *testing.T) {
	stores := map[string]func(t *testing.T) CredentialStore{
		"sqlite": func(t *testing.T) CredentialStore { return newTestSQLiteStore(t) },
		"memory": func(t *testing.T) CredentialStore { return NewMemoryStore() },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("absent key returns empty string", func(t *testing.T) {
				store := newStore(t)
				value, err := store.Get(KeyAccessToken)
				if err != nil {
					t.Fatalf("Get error: %v", err)
				}
				if value != "" {
					t.Errorf("Get(absent) = %q, want \"\"", value)
				}
			})

			t.Run("set then get", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(KeyAccessToken, "token-1"); err != nil {
					t.Fatalf("Set error: %v", err)
				}
				value, err := store.Get(KeyAccessToken)
				if err != nil {
					t.Fatalf("Get error: %v", err)
				}
				if value != "token-1" {
					t.Errorf("Get = %q, want %q", value, "token-1")
				}
			})

			t.Run("set overwrites", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(KeyRefreshToken, "old"); err != nil {
					t.Fatalf("Set error: %v", err)
				}
				if err := store.Set(KeyRefreshToken, "new"); err != nil {
					t.Fatalf("Set error: %v", err)
				}
				value, _ := store.Get(KeyRefreshToken)
				if value != "new" {
					t.Errorf("Get = %q, want %q", value, "new")
				}
			})

			t.Run("delete", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(KeyCodeVerifier, "verifier"); err != nil {
					t.Fatalf("Set error: %v", err)
				}
				if err := store.Delete(KeyCodeVerifier); err != nil {
					t.Fatalf("Delete error: %v", err)
				}
				value, _ := store.Get(KeyCodeVerifier)
				if value != "" {
					t.Errorf("Get after Delete = %q, want \"\"", value)
				}
			})

			t.Run("clear removes all keys", func(t *testing.T) {
				store := newStore(t)
				for _, key := range credentialKeys {
					if err := store.Set(key, "value-"+key); err != nil {
						t.Fatalf("Set(%s) error: %v", key, err)
					}
				}
				if err := store.Clear(); err != nil {
					t.Fatalf("Clear error: %v", err)
				}
				for _, key := range credentialKeys {
					value, _ := store.Get(key)
					if value != "" {
						t.Errorf("Get(%s) after Clear = %q, want \"\"", key, value)
					}
				}
			})
		})
	}
}
