package emu

import (
	"os"
	"path/filepath"
	"sync"

	"dmgboy/emu/log"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

// Config holds the ambient logging and run-loop settings, loaded from (and
// saved to) a per-OS config directory.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Run     RunConfig     `toml:"run"`
}

type LoggingConfig struct {
	// DefaultModules is a comma-separated module list in the same syntax
	// the --log flag accepts ("cpu,ppu", "all", "" for none).
	DefaultModules string `toml:"default_modules"`
	AlsoStderr     bool   `toml:"also_stderr"`
}

type RunConfig struct {
	// StepBatch is how many CPU steps each Console.Run call executes when
	// main's step-limited run loop splits the --steps count into chunks.
	// Frame-limited and traced runs do not use it.
	StepBatch int `toml:"step_batch"`
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{DefaultModules: "", AlsoStderr: true},
		Run:     RunConfig{StepBatch: 1024},
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("dmgboy")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the dmgboy config
// directory, or returns the built-in default if none exists yet.
func LoadConfigOrDefault() Config {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg); err != nil {
		return defaultConfig()
	}
	return cfg
}

// SaveConfig writes cfg into the dmgboy config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
