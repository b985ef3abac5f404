package main

import (
	"context"
	"testing"

	"semester/internal/adapter/repo/memory"
	"semester/internal/config"
	"semester/internal/platform/logging"
)

func TestBuildStores_FallsBackToMemory(t *testing.T) {
	cfg := config.Default()
	stores, err := buildStores(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("buildStores: %v", err)
	}
	if _, ok := stores.TxManager.(memory.TxManager); !ok {
		t.Fatalf("expected memory tx manager, got %T", stores.TxManager)
	}
	if stores.State == nil || stores.Characters == nil || stores.Journal == nil {
		t.Fatalf("expected every store to be set: %+v", stores)
	}
}

func TestBuildStores_ReportsBadDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DSN = "postgres://invalid host"
	if _, err := buildStores(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected error for unusable dsn")
	}
}
