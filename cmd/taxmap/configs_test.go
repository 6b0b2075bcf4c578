package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scott-cotton/cli"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "taxmap.yaml")
	if err := os.WriteFile(file, []byte("workers: 2\nmatrix: sparse\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	overlay := filepath.Join(dir, "o.yaml")
	if err := os.WriteFile(overlay, []byte("filter: minimal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &MainConfig{
		ConfigFile: file,
		Sets:       []string{"workers: 5", "@" + overlay},
	}
	c, err := cfg.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if c.Workers != 5 || c.Matrix != "sparse" || c.Filter != "minimal" {
		t.Errorf("got workers %d matrix %q filter %q", c.Workers, c.Matrix, c.Filter)
	}

	cfg.Sets = []string{"workers: ["}
	if _, err := cfg.loadConfig(); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
}
