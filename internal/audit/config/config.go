package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// SourcesFile is the list of blocklist sources to audit. Plain text
	// (one URL per line) or a YAML/JSON/TOML manifest by extension.
	SourcesFile string `koanf:"sources_file" validate:"required"`

	// ReportFile is where the JSON report snapshot is written.
	ReportFile string `koanf:"report_file" validate:"required"`

	// Workers bounds how many sources are processed concurrently.
	Workers int `koanf:"workers" validate:"required,gte=1,lte=64"`

	// FetchTimeoutSeconds is the per-request timeout for list downloads.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds" validate:"required,gte=1,lte=300"`

	// CachePath is the bbolt database used to keep the last good copy of
	// each downloaded list. Empty disables the cache.
	CachePath string `koanf:"cache_path"`

	// ApexCacheSize bounds the LRU memoizing public-suffix lookups.
	ApexCacheSize int `koanf:"apex_cache_size" validate:"required,gte=1"`

	// BloomFPRate is the target false-positive rate for the pruner's
	// ancestor pre-filter.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"required,gt=0,lt=1"`
}

// envLoader loads environment variables with the prefix "FEEDPRUNE_",
// lowercasing keys and stripping the prefix. Swappable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "FEEDPRUNE_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "FEEDPRUNE_")), value
		},
	}), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	// Defaults via the structs provider.
	k.Load(structs.Provider(AppConfig{
		Env:                 "prod",
		LogLevel:            "info",
		SourcesFile:         "sources.txt",
		ReportFile:          "duplicate_report.json",
		Workers:             8,
		FetchTimeoutSeconds: 30,
		ApexCacheSize:       1024,
		BloomFPRate:         0.01,
	}, "koanf"), nil)

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
