package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lexishift/lexicore/pkg/profile"
)

// appContext carries the state every subcommand needs: resolved paths and a
// logger built from the persistent flags.
type appContext struct {
	dataDir   string
	profileID string
	logMode   string

	paths  profile.Paths
	logger *zap.SugaredLogger
	base   *zap.Logger
}

func (a *appContext) init() error {
	var cfg zap.Config
	switch strings.ToLower(a.logMode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	base, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.base = base
	a.logger = base.Sugar()
	a.paths = profile.NewPaths(a.dataDir, a.profileID)
	return nil
}

func (a *appContext) close() {
	if a.base != nil {
		_ = a.base.Sync()
	}
}
