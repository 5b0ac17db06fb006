package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

func TestLoad_DefaultsWithNoFileOrFlags(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(dir)

	cfg, err := Load("", Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dialect != DefaultDialect || cfg.Env != DefaultEnv || cfg.OutDir != DefaultOutDir {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileValuesApplied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelc.yaml")
	os.WriteFile(path, []byte("root: ./models\ndialect: spark\nenv: staging\n"), 0o644)

	cfg, err := Load(path, Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != "./models" || cfg.Dialect != "spark" || cfg.Env != "staging" {
		t.Errorf("unexpected config from file: %+v", cfg)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelc.yaml")
	os.WriteFile(path, []byte("dialect: spark\n"), 0o644)

	cfg, err := Load(path, Config{Dialect: "postgres"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dialect != "postgres" {
		t.Errorf("expected flag override to win, got dialect=%q", cfg.Dialect)
	}
}

func TestLoad_UnknownKeyIsLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelc.yaml")
	os.WriteFile(path, []byte("dialect: postgres\nbogus_key: true\n"), 0o644)

	_, err := Load(path, Config{})
	if err == nil {
		t.Fatal("expected an error for an unknown config key")
	}
	var loadErr *core.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected a *core.LoadError, got %T", err)
	}
}

func TestLoad_FindsProjectFileByWalkingUp(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "modelc.yaml"), []byte("env: prod\n"), 0o644)
	nested := filepath.Join(root, "a", "b")
	os.MkdirAll(nested, 0o755)

	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(nested)

	cfg, err := Load("", Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected env=prod from walked-up config, got %q", cfg.Env)
	}
}
