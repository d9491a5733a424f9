// Package config holds the viewd configuration file and builds the
// store it describes.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/signadot/viewd/store"
	"github.com/signadot/viewd/store/memstore"
	"github.com/signadot/viewd/store/sqlstore"
	"github.com/signadot/viewd/store/yamlstore"
	"github.com/signadot/viewd/view"
)

// Store kinds.
const (
	KindMem    = "mem"
	KindSQLite = "sqlite"
	KindYAML   = "yaml"
)

// DefaultBufferSize is the default number of composed views queued for
// a watcher before it is considered too slow.
const DefaultBufferSize = 16

var ErrConfig = errors.New("invalid config")

// Config represents the viewd configuration file.
//
//	store:
//	  kind: sqlite
//	  path: views.db
//	scope: "@views"
//	listen: localhost:7480
//	watch:
//	  bufferSize: 16
type Config struct {
	// Store selects the backing store.
	Store *StoreConfig `yaml:"store,omitempty"`

	// Scope is the store path views are written under.
	Scope string `yaml:"scope,omitempty"`

	// Listen is the HTTP address of the server.
	Listen string `yaml:"listen,omitempty"`

	// Watch configures view watchers.
	Watch *WatchConfig `yaml:"watch,omitempty"`
}

// StoreConfig selects and locates a store.
type StoreConfig struct {
	// Kind is one of mem, sqlite or yaml.
	Kind string `yaml:"kind"`

	// Path is the database or YAML file.  Unused for mem.
	Path string `yaml:"path,omitempty"`
}

// WatchConfig configures view watchers.
type WatchConfig struct {
	// BufferSize is the number of pending views a watcher may have
	// before it is dropped.
	BufferSize int `yaml:"bufferSize"`
}

// LoadConfig loads a YAML configuration file.  Unset fields take their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.fill()
	return cfg, nil
}

// DefaultConfig returns a Config for an in memory store.
func DefaultConfig() *Config {
	return &Config{
		Store:  &StoreConfig{Kind: KindMem},
		Scope:  view.DefaultScope,
		Listen: "localhost:7480",
		Watch:  &WatchConfig{BufferSize: DefaultBufferSize},
	}
}

func (c *Config) fill() {
	d := DefaultConfig()
	if c.Store == nil {
		c.Store = d.Store
	}
	if c.Scope == "" {
		c.Scope = d.Scope
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.Watch == nil {
		c.Watch = d.Watch
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("%w: no store", ErrConfig)
	}
	switch c.Store.Kind {
	case KindMem:
	case KindSQLite, KindYAML:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: %s store needs a path", ErrConfig, c.Store.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrConfig, c.Store.Kind)
	}
	if _, err := store.Split(c.Scope); err != nil {
		return fmt.Errorf("%w: scope: %w", ErrConfig, err)
	}
	if c.Watch != nil && c.Watch.BufferSize < 0 {
		return fmt.Errorf("%w: negative watch buffer size", ErrConfig)
	}
	return nil
}

// OpenStore validates c and opens its store.  The returned function
// releases the store.
func (c *Config) OpenStore() (store.Store, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	nop := func() error { return nil }
	switch c.Store.Kind {
	case KindSQLite:
		s, err := sqlstore.Open(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case KindYAML:
		s, err := yamlstore.Open(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil
	}
	return memstore.New(), nop, nil
}
