package testsupport

import (
	"context"
	"testing"

	"marginalia/internal/config"
	"marginalia/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewResource creates a catalog resource for tests using the provided store.
func NewResource(t testing.TB, st *store.Store, recordID, source, title string) *store.Resource {
	t.Helper()

	resource, err := st.FindOrCreateResource(context.Background(), recordID, source, title)
	if err != nil {
		t.Fatalf("store.FindOrCreateResource: %v", err)
	}
	return resource
}
