// Package config loads the frozen {root, out_dir, dialect, env, mode}
// settings record (§9/§10.3): CLI flags layered over an optional
// modelc.yaml/modelc.yml project file, flags always winning. Unknown
// keys in the project file are a load error, not a silently ignored
// one.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

const (
	DefaultOutDir   = "build"
	DefaultDialect  = "postgres"
	DefaultEnv      = "dev"
	maxSearchLevels = 10
)

// Config is the frozen settings record.
type Config struct {
	Root    string         `koanf:"root"`
	OutDir  string         `koanf:"out_dir"`
	Dialect string         `koanf:"dialect"`
	Env     string         `koanf:"env"`
	Mode    core.ApplyMode `koanf:"mode"`
}

var knownKeys = map[string]bool{
	"root": true, "out_dir": true, "dialect": true, "env": true, "mode": true,
}

// Load discovers a project file (explicit path, or modelc.yaml/
// modelc.yml found by walking up from the working directory), decodes
// it strictly, then layers flagOverrides on top — flags always win
// over file values, and an unset flag override is the zero value so
// it never masks a file-supplied setting.
func Load(explicitPath string, flagOverrides Config) (*Config, error) {
	path := findProjectFile(explicitPath)

	cfg := &Config{
		OutDir:  DefaultOutDir,
		Dialect: DefaultDialect,
		Env:     DefaultEnv,
		Mode:    core.ModeDryRun,
	}

	if path != "" {
		if err := decodeStrict(path, cfg); err != nil {
			return nil, err
		}
	}

	applyOverrides(cfg, flagOverrides)

	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o Config) {
	if o.Root != "" {
		cfg.Root = o.Root
	}
	if o.OutDir != "" {
		cfg.OutDir = o.OutDir
	}
	if o.Dialect != "" {
		cfg.Dialect = o.Dialect
	}
	if o.Env != "" {
		cfg.Env = o.Env
	}
	if o.Mode != "" {
		cfg.Mode = o.Mode
	}
}

// decodeStrict rejects any top-level key in path not in knownKeys
// before the typed decode, mirroring the two-pass strict-decode
// idiom §10.3 calls for.
func decodeStrict(path string, cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return &core.LoadError{File: path, Message: err.Error()}
	}

	for _, key := range k.Keys() {
		if !knownKeys[key] {
			return &core.LoadError{File: path, Message: fmt.Sprintf("unknown config key %q", key)}
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return &core.LoadError{File: path, Message: err.Error()}
	}
	return nil
}

// findProjectFile returns explicit if set, otherwise walks upward
// from the working directory looking for modelc.yaml or modelc.yml,
// mirroring the reference stack's FindProjectRoot.
func findProjectFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxSearchLevels; i++ {
		for _, name := range []string{"modelc.yaml", "modelc.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
