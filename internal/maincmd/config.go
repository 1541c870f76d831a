package maincmd

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI's optional environment-driven behaviors: things
// that change how output is rendered but never what the tokenizer/parser/
// compiler themselves do. A YAML file supplies defaults (so a project can
// commit a pybc.yaml alongside its source), and environment variables
// layered on top of it override any field they set, following the same
// env-tag-driven convention the teacher's own go.mod carries (but never
// wires to a call site) for this exact library.
type Config struct {
	// NoColor is read from the YAML file and the environment like the
	// other fields, but no command consults it: no output of this tool is
	// colored.
	NoColor bool `yaml:"no_color" env:"NO_COLOR"`

	// DefaultPosMode is the --pos value used by parse/dis when the flag
	// is not given on the command line: "none", "compact", or "full".
	DefaultPosMode string `yaml:"default_pos_mode" env:"DEFAULT_POS_MODE"`

	// MaxSteps caps VM execution for the `run` subcommand; 0 means no
	// limit, matching vm.Thread.MaxSteps's own zero-value meaning.
	MaxSteps int `yaml:"max_steps" env:"MAX_STEPS"`
}

// LoadConfig reads configPath (if non-empty and it exists) as YAML to
// seed defaults, then applies PYBC_-prefixed environment variable
// overrides on top of it via caarlos0/env's struct-tag parsing.
func LoadConfig(configPath string) (Config, error) {
	var cfg Config

	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	opts := env.Options{Prefix: "PYBC_"}
	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, err
	}
	if cfg.DefaultPosMode == "" {
		cfg.DefaultPosMode = "compact"
	}
	return cfg, nil
}
