package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the tool configuration. The schema catalog itself lives in a
// separate file so that it can be shared between tools.
type Config struct {
	// SchemaFile points at the YAML table catalog. An empty value selects
	// the built-in TPC-H catalog.
	SchemaFile string `yaml:"schemaFile"`
	// Dialect names a SQL dialect. It is read from the file but the
	// compiler does not consult it; generated queries are the same for
	// every value.
	Dialect string `yaml:"dialect"`
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't resolve home directory")
	}
	return filepath.Join(home, ".saneql", "config.yml"), nil
}

// Read loads the configuration from the given path. An empty path falls
// back to the per-user file; a missing per-user file yields the defaults,
// while a missing file at an explicit path is an error.
func Read(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "couldn't read configuration file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	return cfg, nil
}
