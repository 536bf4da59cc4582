package memcore

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigValidateRejectsNegativeBatchSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ingestion.BatchSize = -1
	if err := cfg.Validate(); err != ErrInvalidConfig {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewBuildsEngineWithoutDialing(t *testing.T) {
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer e.Close()
	if e.Store == nil {
		t.Error("expected a non-nil graph-store client")
	}
}
