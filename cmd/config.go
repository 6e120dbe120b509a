package cmd

import (
	"io"
	"os"
	"strings"
)

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is shared by every subcommand. It is layered: the defaults,
// then the YAML file given by -c, then the command line flags.
type Config struct {
	Database   string  `yaml:"database"`
	Format     string  `yaml:"format"`
	DBSize     int     `yaml:"db_size"`
	K          int     `yaml:"k"`
	Lambda     float64 `yaml:"lambda"`
	Algorithm  string  `yaml:"algorithm"`
	MinSupport int     `yaml:"min_support"`
	MaxEdges   int     `yaml:"max_edges"`
	Index      string  `yaml:"index"`
	Stats      string  `yaml:"stats"`
	Listen     string  `yaml:"listen"`
	Debug      bool    `yaml:"debug"`
	CPUProfile string  `yaml:"cpu_profile"`

	stop func()
}

func DefaultConfig() *Config {
	return &Config{
		K:          10,
		Lambda:     0.5,
		Algorithm:  "Pruning",
		MinSupport: -1,
		MaxEdges:   4,
		Listen:     "0.0.0.0:8080",
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the config")
	}
	defer f.Close()
	if err := c.Decode(f); err != nil {
		return nil, errors.Wrapf(err, "bad config %v", path)
	}
	return c, nil
}

// Decode overlays the YAML read from r onto c.
func (c *Config) Decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.K < 1 {
		return errors.Errorf("k must be at least 1 (got %d)", c.K)
	}
	if c.Lambda < 0 {
		return errors.Errorf("lambda must be non-negative (got %v)", c.Lambda)
	}
	if c.MaxEdges < 1 {
		return errors.Errorf("max_edges must be at least 1 (got %d)", c.MaxEdges)
	}
	if c.DBSize < 0 {
		return errors.Errorf("db_size must be non-negative (got %d)", c.DBSize)
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "", "lines", "dot":
	default:
		return errors.Errorf("unknown graph format %q", c.Format)
	}
	return nil
}

func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(out)
}
