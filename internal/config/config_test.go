package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasNoLimits(t *testing.T) {
	cfg := Default()
	if cfg.ScalarReplaceLimit != 0 || cfg.TupleCopyLimit != 0 || cfg.ConditionalDynamicDispatchLimit != 0 {
		t.Errorf("expected all limits to default to 0 (unlimited), got %+v", cfg)
	}
	if cfg.GPU || cfg.Heterogeneous || cfg.Serial {
		t.Errorf("expected all boolean flags to default false, got %+v", cfg)
	}
}

func TestLoadYAMLOverlaysLooselyTypedScalars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "midc.yaml")
	content := "gpu: \"true\"\nscalar-replace-limit: \"12\"\nheterogeneous: 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp yaml: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.GPU {
		t.Errorf("expected gpu: \"true\" string to normalize to bool true")
	}
	if cfg.ScalarReplaceLimit != 12 {
		t.Errorf("expected scalar-replace-limit: \"12\" string to normalize to int 12, got %d", cfg.ScalarReplaceLimit)
	}
	if !cfg.Heterogeneous {
		t.Errorf("expected heterogeneous: 1 to normalize to bool true")
	}
}

func TestLoadMissingYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file should not error, got %v", err)
	}
	if cfg.GPU {
		t.Errorf("expected defaults to stand when the yaml file is absent")
	}
}
