package services_test

import (
	"errors"
	"strings"
	"testing"

	"marginalia/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "resolve", "search", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"resolve", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransientMarker(t *testing.T) {
	err := services.Wrap(nil, "store", "insert", "", errors.New("locked"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to default to transient, got %v", err)
	}
}

func TestClassifyMapsMarkersToKinds(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrConfiguration, "config", "load", "bad encoding", nil), "configuration"},
		{services.Wrap(services.ErrValidation, "reader", "parse", "short row", nil), "validation"},
		{services.Wrap(services.ErrNotFound, "solr", "core", "missing", nil), "not_found"},
		{services.Wrap(services.ErrTimeout, "solr", "select", "deadline", nil), "timeout"},
		{services.Wrap(services.ErrTransient, "solr", "select", "502", nil), "transient"},
		{errors.New("plain"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
