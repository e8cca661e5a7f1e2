// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. No file at all: built-in defaults, still overridable through the
//     per-field environment variables.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a
// key in the YAML file and can be overridden by the corresponding
// environment variable.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// DataDir is the directory holding the JSON record files
	// (students.json, instructors.json, courses.json).
	DataDir string `yaml:"data_dir" env:"DATA_DIR" env-default:"."`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"school.db"`
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure:
// if this returns, the config is valid.
//
// MustLoad calls flag.Parse, so it must run before anything else reads
// flag.Args().
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	flagPath := flag.String("config", "", "Path to the configuration YAML file")
	flag.Parse()
	if configPath == "" {
		configPath = *flagPath
	}

	var cfg Config

	// Running without a config file is fine for this tool: defaults
	// plus env overrides cover the single-machine case.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
