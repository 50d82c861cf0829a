//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package config

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/nestybox/memfault/domain"
	"github.com/nestybox/memfault/injector"
)

// AppFs is the file-system configuration files are read from. Unit tests
// replace it with a memory-backed one.
var AppFs = afero.NewOsFs()

// EnvVar names the environment variable pointing to the configuration file.
const EnvVar = "MEMFAULT_CONFIG"

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type EntryPointConfig struct {
	// 0-based call count at which this entry point faults.
	Trigger int64 `yaml:"trigger"`

	// Defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// EffectiveTrigger folds the 'enabled' knob into the trigger index.
func (c EntryPointConfig) EffectiveTrigger() int64 {
	if c.Enabled != nil && !*c.Enabled {
		return domain.NoTrigger
	}
	return c.Trigger
}

type Config struct {
	Log         LogConfig                   `yaml:"log"`
	EntryPoints map[string]EntryPointConfig `yaml:"entryPoints"`
}

// Default returns the configuration matching injector.DefaultTriggers.
func Default() *Config {
	cfg := &Config{
		Log: LogConfig{
			File:  "/dev/stdout",
			Level: "info",
		},
		EntryPoints: make(map[string]EntryPointConfig),
	}

	for name, t := range injector.DefaultTriggers {
		cfg.EntryPoints[name] = EntryPointConfig{Trigger: t}
	}

	return cfg
}

// Load reads the yaml file at path and overlays it on top of Default().
func Load(path string) (*Config, error) {

	data, err := afero.ReadFile(AppFs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	logrus.Debugf("Loaded configuration from %s", path)

	return cfg, nil
}

func Parse(data []byte) (*Config, error) {

	cfg := Default()

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	if file.Log.File != "" {
		cfg.Log.File = file.Log.File
	}
	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}

	for name, epc := range file.EntryPoints {
		cfg.EntryPoints[name] = epc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects entry points memfault does not know how to intercept.
func (c *Config) Validate() error {
	for _, name := range c.names() {
		if _, ok := injector.DefaultTriggers[name]; !ok {
			return errors.Newf("invalid fault injection entry point %q", name)
		}
		if t := c.EntryPoints[name].Trigger; t < 0 {
			return errors.Newf("entry point %q: negative trigger index %d", name, t)
		}
	}
	return nil
}

// SetTrigger overrides the trigger index of a single entry point. An explicit
// trigger re-enables an entry point the config file had disabled.
func (c *Config) SetTrigger(name string, t int64) {
	epc := c.EntryPoints[name]
	if epc.Enabled != nil && !*epc.Enabled {
		logrus.Infof("Re-enabling fault injection for %s (trigger = %d)", name, t)
	}
	epc.Trigger = t
	epc.Enabled = nil
	c.EntryPoints[name] = epc
}

// Apply pushes the configured trigger indices into the injector. Intended to
// run once, before the first intercepted call.
func (c *Config) Apply(ijs domain.InjectorServiceIface) error {
	for _, name := range c.names() {
		if err := ijs.SetTrigger(name, c.EntryPoints[name].EffectiveTrigger()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) names() []string {
	names := make([]string, 0, len(c.EntryPoints))
	for name := range c.EntryPoints {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
