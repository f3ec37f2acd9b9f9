package config

import (
	"time"

	"lending/core"

	"github.com/fox-one/pkg/config"
)

// Load load config file, LENDING_ prefixed env vars override it
func Load(cfgFile string, cfg *core.Config) error {
	config.AutomaticLoadEnv("LENDING")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaultApp(cfg)
	defaultPriceOracle(cfg)
	return nil
}

func defaultApp(cfg *core.Config) {
	if cfg.App.SessionCapacity <= 0 {
		cfg.App.SessionCapacity = 1024
	}

	if cfg.App.CacheTTL <= 0 {
		cfg.App.CacheTTL = time.Minute
	}
}

func defaultPriceOracle(cfg *core.Config) {
	if cfg.PriceOracle.FreshnessWindow <= 0 {
		cfg.PriceOracle.FreshnessWindow = 5 * time.Minute
	}
}
