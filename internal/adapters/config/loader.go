// Package config provides the configuration loader for depstrap.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports"
)

// Loader implements ports.ConfigLoader using a YAML file.
//
// Resolution works in layers: the built-in plan is the base, a
// depstrap.yaml found by walking up from the working directory overrides
// it, and an explicit cache root passed by the caller wins over both.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load builds the bootstrap plan for the given working directory.
// cacheRoot may be empty, in which case the config file's cacheDir or the
// built-in default is used.
func (l *Loader) Load(cwd, cacheRoot string) (*domain.Plan, error) {
	// Callers pass "." for the process working directory; the walk-up
	// needs an absolute path or filepath.Dir stops at the first step.
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}

	configPath := l.findConfiguration(cwd)

	l.loadDotenv(cwd, configPath)

	var file File
	if configPath != "" {
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, err
		}
	}

	root := resolveCacheRoot(cacheRoot, file.CacheDir)
	plan := domain.DefaultPlan(root)

	applyOverrides(plan, &file)

	if err := plan.Validate(); err != nil {
		if configPath != "" {
			return nil, zerr.With(err, "config", configPath)
		}
		return nil, err
	}

	return plan, nil
}

// findConfiguration walks up from cwd looking for a depstrap.yaml.
// Returns the empty string when no file exists anywhere up to the root.
func (l *Loader) findConfiguration(cwd string) string {
	currentDir := cwd

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return ""
}

// loadDotenv sources a .env file from the working directory, and from the
// config file's directory when that differs. Existing process env wins.
func (l *Loader) loadDotenv(cwd, configPath string) {
	dirs := []string{cwd}
	if configPath != "" {
		configDir := filepath.Dir(configPath)
		if configDir != cwd {
			dirs = append(dirs, configDir)
		}
	}

	for _, dir := range dirs {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			l.Logger.Warn(fmt.Sprintf("failed to load %s: %v", envPath, err))
		}
	}
}

// applyOverrides layers the parsed config file over the built-in plan.
// A config that declares repositories or stages replaces the built-in set
// wholesale; env entries merge over the built-in globals. Values may
// reference ${CACHE_DIR} or any process env var.
func applyOverrides(plan *domain.Plan, file *File) {
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			if key == "CACHE_DIR" {
				return plan.CacheRoot
			}
			return os.Getenv(key)
		})
	}

	for key, value := range file.Env {
		plan.Env[key] = expand(value)
	}

	if len(file.Repositories) > 0 {
		plan.Repositories = make([]domain.Repository, 0, len(file.Repositories))
		for _, dto := range file.Repositories {
			plan.Repositories = append(plan.Repositories, domain.Repository{
				Name:  dto.Name,
				URL:   expand(dto.URL),
				Depth: dto.Depth,
			})
		}
	}

	if len(file.Stages) > 0 {
		plan.Stages = make([]domain.Stage, 0, len(file.Stages))
		for _, dto := range file.Stages {
			plan.Stages = append(plan.Stages, domain.Stage{
				Name:    dto.Name,
				Repo:    dto.Repo,
				Env:     expandEnvMap(dto.Env, expand),
				Build:   dto.Build,
				Test:    dto.Test,
				Install: dto.Install,
			})
		}
	}
}

// expandEnvMap expands variable references in every value of the map.
func expandEnvMap(env map[string]string, expand func(string) string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	expanded := make(map[string]string, len(env))
	for key, value := range env {
		expanded[key] = expand(value)
	}
	return expanded
}

// resolveCacheRoot picks the cache root: explicit caller value, then the
// config file's cacheDir, then the built-in default. Relative paths and
// env references in cacheDir are resolved here.
func resolveCacheRoot(explicit, configured string) string {
	if explicit != "" {
		return filepath.Clean(explicit)
	}
	if configured != "" {
		expanded := os.ExpandEnv(configured)
		if filepath.IsAbs(expanded) {
			return filepath.Clean(expanded)
		}
		abs, err := filepath.Abs(expanded)
		if err == nil {
			return abs
		}
		return filepath.Clean(expanded)
	}
	return domain.DefaultCacheRoot()
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
