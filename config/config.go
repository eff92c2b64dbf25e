// Package config loads the routerd configuration file: the set of
// interfaces a router owns and the static routes it forwards with. It
// is ambient CLI-harness plumbing, not part of the CORE.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
)

// InterfaceConfig describes one network interface to bring up.
type InterfaceConfig struct {
	Name string `mapstructure:"name"`
	MAC  string `mapstructure:"mac"`
	IP   string `mapstructure:"ip"`
}

// RouteConfig describes one static routing table entry. NextHop is
// empty for a directly attached route.
type RouteConfig struct {
	Prefix       string `mapstructure:"prefix"`
	PrefixLength uint8  `mapstructure:"prefix_length"`
	NextHop      string `mapstructure:"next_hop"`
	Interface    string `mapstructure:"iface"`
}

// Config is the full routerd configuration: interfaces and the static
// routes between them.
type Config struct {
	Interfaces []InterfaceConfig `mapstructure:"interfaces"`
	Routes     []RouteConfig     `mapstructure:"routes"`
}

// Load reads a YAML configuration file from path using viper and
// unmarshals it into a Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %q: %w", path, err)
	}

	return &cfg, nil
}

// ResolvedInterface is an InterfaceConfig whose MAC and IP have been
// parsed into their CORE types.
type ResolvedInterface struct {
	Name string
	MAC  ethernet.MAC
	IP   addr.Address
}

// Resolve parses every InterfaceConfig's MAC and IP strings into CORE
// types, failing fast on the first malformed entry.
func (c *Config) Resolve() ([]ResolvedInterface, error) {
	out := make([]ResolvedInterface, 0, len(c.Interfaces))
	for _, ic := range c.Interfaces {
		mac, err := ethernet.ParseMAC(ic.MAC)
		if err != nil {
			return nil, fmt.Errorf("config: interface %q: %w", ic.Name, err)
		}
		ip, err := addr.Parse(ic.IP)
		if err != nil {
			return nil, fmt.Errorf("config: interface %q: %w", ic.Name, err)
		}
		out = append(out, ResolvedInterface{Name: ic.Name, MAC: mac, IP: ip})
	}
	return out, nil
}
