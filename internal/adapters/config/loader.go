// Package config loads and validates tend.yaml.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	validate *validator.Validate
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads the configuration at path, or the first tend.yaml found walking
// up from cwd when path is empty. Values absent from the file keep their
// defaults; without any file the defaults are returned.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	if path == "" {
		path = findConfiguration(cwd)
	}

	cfg := domain.DefaultConfig()
	base := cwd

	if path != "" {
		if err := readAndUnmarshalYAML(path, cfg); err != nil {
			return nil, err
		}
		base = filepath.Dir(path)
	} else {
		l.Logger.Info("no " + domain.ConfigFileName + " found, using defaults")
	}

	expandPaths(cfg, base)

	if err := l.validate.Struct(cfg); err != nil {
		return nil, validationError(err, path)
	}
	return cfg, nil
}

func findConfiguration(cwd string) string {
	dir := cwd
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func readAndUnmarshalYAML(path string, cfg *domain.Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided configuration path
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

// expandPaths substitutes ${VAR} references and anchors relative state
// directories at base.
func expandPaths(cfg *domain.Config, base string) {
	cfg.Log.Dir = resolve(base, cfg.Log.Dir)
	cfg.Store.Dir = resolve(base, cfg.Store.Dir)
	cfg.Registry.TempDir = os.ExpandEnv(cfg.Registry.TempDir)
	if cfg.Registry.TempDir == "" {
		cfg.Registry.TempDir = os.TempDir()
	}
	cfg.Registry.BackupDir = resolve(base, cfg.Registry.BackupDir)
	cfg.Cleanup.Volume = os.ExpandEnv(cfg.Cleanup.Volume)

	for _, sweep := range []*domain.SweepConfig{&cfg.Cleanup.Logs, &cfg.Cleanup.Temp, &cfg.CrashDumps} {
		for i, dir := range sweep.Dirs {
			sweep.Dirs[i] = os.ExpandEnv(dir)
		}
	}
}

func resolve(base, path string) string {
	path = os.ExpandEnv(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func validationError(err error, path string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return zerr.Wrap(err, domain.ErrConfigInvalid.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}

	wrapped := zerr.Wrap(errors.New(strings.Join(fields, ", ")), domain.ErrConfigInvalid.Error())
	if path != "" {
		wrapped = zerr.With(wrapped, "path", path)
	}
	return wrapped
}
