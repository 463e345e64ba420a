package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

func configFilenames() []string {
	return []string{"ahkdoc.toml", ".ahkdoc.toml"}
}

// Load reads the config file at configPath, or the nearest ahkdoc.toml when
// configPath is empty, applies overrides and validates the result. Without
// an explicit path a missing config file is not an error: the config is
// then built from overrides alone.
func Load(configPath string, overrides Overrides) (*Config, error) {
	cfg, err := load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	return cfg, nil
}

// LoadOutput is Load for commands that only read generated output: the
// input file is not required.
func LoadOutput(configPath string, overrides Overrides) (*Config, error) {
	cfg, err := load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	if valErr := cfg.validate("InputFile"); valErr != nil {
		return nil, valErr
	}

	return cfg, nil
}

func load(configPath string, overrides Overrides) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		if configPath != "" || errcode.Of(err) != errcode.ConfigNotFound {
			return nil, err
		}
	}

	cfg := &Config{}

	if resolvedPath != "" {
		if loadErr := loadFile(resolvedPath, cfg); loadErr != nil {
			return nil, loadErr
		}
	} else {
		workDir, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, oops.Wrapf(wdErr, "getting working directory")
		}

		cfg.ConfigDir = workDir
	}

	cfg.ApplyDefaults()
	cfg.resolvePaths()

	if overrideErr := cfg.apply(overrides); overrideErr != nil {
		return nil, overrideErr
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	absConfigPath, err := filepath.Abs(path)
	if err != nil {
		return oops.Wrapf(err, "resolving absolute config path")
	}

	k := koanf.New(".")

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return oops.
			Code(errcode.ConfigInvalid).
			With("path", absConfigPath).
			Hint("Fix TOML syntax in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return oops.
			Code(errcode.ConfigInvalid).
			With("path", absConfigPath).
			Hint("Fix config structure to match the ahkdoc schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	return nil
}

// FindConfigFile walks from the working directory up to the filesystem root
// looking for ahkdoc.toml or .ahkdoc.toml.
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", findErr
		}

		if found {
			return foundPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", oops.
				Code(errcode.ConfigNotFound).
				Hint("Run 'ahkdoc init' to create a config file").
				Errorf("no ahkdoc.toml or .ahkdoc.toml found in any parent directory")
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code(errcode.ConfigNotFound).
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}

// resolvePaths anchors relative file paths at the config directory.
func (c *Config) resolvePaths() {
	if c.InputFile != "" && !isURL(c.InputFile) && !filepath.IsAbs(c.InputFile) {
		c.InputFile = filepath.Clean(filepath.Join(c.ConfigDir, c.InputFile))
	}

	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Clean(filepath.Join(c.ConfigDir, c.OutputDir))
	}
}
