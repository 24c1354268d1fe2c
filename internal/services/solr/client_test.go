package solr_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marginalia/internal/services"
	"marginalia/internal/services/solr"
)

func TestRecordReturnsDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/biblio/get" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if id := r.URL.Query().Get("id"); id != "helmet.123" {
			t.Fatalf("unexpected id param: %q", id)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"doc":{"id":"helmet.123","title":["Example Title"]}}`))
	}))
	defer server.Close()

	client := solr.New(server.URL, "biblio", 0, nil)
	record, err := client.Record(context.Background(), "helmet.123")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if record == nil {
		t.Fatal("expected record")
	}
	if record.ID != "helmet.123" {
		t.Fatalf("unexpected record ID: %q", record.ID)
	}
	if record.Title != "Example Title" {
		t.Fatalf("expected multivalued title unwrapped, got %q", record.Title)
	}
}

func TestRecordMissingReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"doc":null}`))
	}))
	defer server.Close()

	client := solr.New(server.URL, "biblio", 0, nil)
	record, err := client.Record(context.Background(), "helmet.missing")
	if err != nil {
		t.Fatalf("missing record should not error, got: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}

func TestSearchSendsQueryAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/biblio/select" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if q := query.Get("q"); q != `ctrlnum:"12345"` {
			t.Fatalf("unexpected q: %q", q)
		}
		filters := query["fq"]
		if len(filters) != 2 || filters[0] != `source_str_mv:"helmet"` || filters[1] != "finna.deduplication:0" {
			t.Fatalf("unexpected filters: %v", filters)
		}
		if rows := query.Get("rows"); rows != "1" {
			t.Fatalf("unexpected rows: %q", rows)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"numFound":2,"docs":[{"id":"helmet.999","title":"Found"}]}}`))
	}))
	defer server.Close()

	client := solr.New(server.URL, "biblio", 0, nil)
	ctx := services.WithRunID(context.Background(), "run-1")
	records, err := client.Search(ctx, `ctrlnum:"12345"`, `source_str_mv:"helmet"`, "finna.deduplication:0")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].ID != "helmet.999" {
		t.Fatalf("unexpected record ID: %q", records[0].ID)
	}
}

func TestServerErrorClassifiedTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shard down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := solr.New(server.URL, "biblio", 0, nil)
	_, err := client.Search(context.Background(), "id:x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
}

func TestMissingCoreClassifiedNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := solr.New(server.URL, "nope", 0, nil)
	_, err := client.Record(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
}

func TestQuoteEscapesEmbeddedSyntax(t *testing.T) {
	got := solr.Quote(`ab"c\d`)
	want := `"ab\"c\\d"`
	if got != want {
		t.Fatalf("Quote = %s, want %s", got, want)
	}
}
