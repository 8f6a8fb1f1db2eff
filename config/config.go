package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/services/index"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/config_local.yaml"

type Config struct {
	Env     string          `yaml:"env" env:"ENV" env-default:"local"`
	LogFile string          `yaml:"log_file" env:"LOG_FILE" env-default:"./dashsearch.log"`
	Index   IndexConfig     `yaml:"index"`
	Search  SearchConfig    `yaml:"search"`
	Remote  RemoteConfig    `yaml:"remote"`
	Workers WorkersConfig   `yaml:"workers"`
	Regions []models.Region `yaml:"regions"`
}

type IndexConfig struct {
	Engine string `yaml:"engine" env:"INDEX_ENGINE" env-default:"trie"`
	// StorageDir holds on-disk LevelDB files for the kv engine; empty keeps
	// postings in memory.
	StorageDir string `yaml:"storage_dir" env:"INDEX_STORAGE_DIR"`
}

type SearchConfig struct {
	QuietPeriod   time.Duration `yaml:"quiet_period" env:"SEARCH_QUIET_PERIOD" env-default:"100ms"`
	StateLimit    int           `yaml:"state_limit" env:"SEARCH_STATE_LIMIT" env-default:"0"`
	DistrictLimit int           `yaml:"district_limit" env:"SEARCH_DISTRICT_LIMIT" env-default:"3"`
	ResourceLimit int           `yaml:"resource_limit" env:"SEARCH_RESOURCE_LIMIT" env-default:"5"`
}

type RemoteConfig struct {
	DistrictsURL  string        `yaml:"districts_url" env:"REMOTE_DISTRICTS_URL" env-default:"https://api.nepalcovid19.org/state-district-wise.json"`
	ResourcesURL  string        `yaml:"resources_url" env:"REMOTE_RESOURCES_URL" env-default:"https://api.nepalcovid19.org/resources/resources.json"`
	Timeout       time.Duration `yaml:"timeout" env:"REMOTE_TIMEOUT" env-default:"0s"`
	Retries       uint64        `yaml:"retries" env:"REMOTE_RETRIES" env-default:"2"`
	RetryInterval time.Duration `yaml:"retry_interval" env:"REMOTE_RETRY_INTERVAL" env-default:"500ms"`
	Prefetch      bool          `yaml:"prefetch" env:"REMOTE_PREFETCH" env-default:"true"`
}

type WorkersConfig struct {
	Count int `yaml:"count" env:"WORKERS_COUNT" env-default:"2"`
}

// Load reads the config file at path, or the environment alone when the
// file does not exist, and validates the result.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if path == "" {
		path = fetchConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(cfg.Regions) == 0 {
		cfg.Regions = append([]models.Region(nil), models.DefaultRegions...)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic("error loading config: " + err.Error())
	}
	return cfg
}

// fetchConfigPath fetches the config path from the environment, or the
// default when it is not set.
// Priority: flag > env > default.
func fetchConfigPath() string {
	if res := os.Getenv("CONFIG_PATH"); res != "" {
		return res
	}
	return defaultConfigPath
}

func validateConfig(cfg *Config) error {
	switch cfg.Index.Engine {
	case index.EngineTrie, index.EngineKV:
	default:
		return fmt.Errorf("%w: %s", index.ErrUnknownEngine, cfg.Index.Engine)
	}

	switch cfg.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	if cfg.Search.DistrictLimit < 0 || cfg.Search.ResourceLimit < 0 || cfg.Search.StateLimit < 0 {
		return errors.New("search limits must not be negative")
	}

	if cfg.Remote.DistrictsURL == "" || cfg.Remote.ResourcesURL == "" {
		return errors.New("remote urls must be set")
	}

	if _, err := models.NewRegionTable(cfg.Regions); err != nil {
		return err
	}

	return nil
}
