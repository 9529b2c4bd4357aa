// Package config handles configuration for the CLI client.
package config

import (
	"flag"
	"os"

	"github.com/dmatveev/authd/internal/flagx"
)

type Config struct {
	ServerAddr string
}

func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://localhost:8080"
}

func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "Server base URL")
	_ = fs.Parse(args)
}

// LoadConfig builds a Config from defaults overlaid with command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}
