package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/notify"
)

type Config struct {
	Scheduling SchedulingConfig `json:"scheduling"`
	Classifier ClassifierConfig `json:"classifier"`
	Setup      map[string]int   `json:"setup"`
	Store      StoreConfig      `json:"store"`
	RebuildLog RebuildLogConfig `json:"rebuild_log"`
	Metrics    metrics.Config   `json:"metrics"`
	Notifier   notify.Config    `json:"notifier"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CAMP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "camp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scheduling.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.RebuildLog.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Notifier.SetDefaults()
	if err := cfg.Scheduling.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RebuildLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
