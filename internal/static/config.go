// Package static serves a build directory read-only over HTTP.
package static

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/bridgekeeper/internal/flagx"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
)

const DefaultPort = 8080

type Config struct {
	BuildDirectory string
	Port           int
	LogFormat      string
}

type JsonConfig struct {
	BuildDirectory string `json:"build_directory"`
	Port           int    `json:"port"`
	LogFormat      string `json:"log_format"`
}

func (c *Config) LoadDefaults() {
	c.BuildDirectory = "./build"
	c.Port = DefaultPort
	c.LogFormat = logging.FormatJSON
}

// Addr is the listen address for Port on all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadConfig applies defaults, the JSON file named by -c/-config and then
// the flags in args. The port comes from -port, else -p, else the earlier
// layers.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var jc JsonConfig
		if err := json.Unmarshal(data, &jc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if jc.BuildDirectory != "" {
			cfg.BuildDirectory = jc.BuildDirectory
		}
		if jc.Port != 0 {
			cfg.Port = jc.Port
		}
		if jc.LogFormat != "" {
			cfg.LogFormat = jc.LogFormat
		}
	}

	var port, p int
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.BuildDirectory, "build_directory", cfg.BuildDirectory, "directory to serve")
	fs.IntVar(&port, "port", 0, "port to listen on")
	fs.IntVar(&p, "p", 0, "port to listen on (short)")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or zap")
	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		return nil, err
	}

	switch {
	case port != 0:
		cfg.Port = port
	case p != 0:
		cfg.Port = p
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.Port)
	}
	return cfg, nil
}
