package main

import (
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use: "oficios-api",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(addUserCmd)
}

// setup reads the configuration, installs the global logger and opens the
// database. Every subcommand starts here.
func setup() (*config.Config, *gorm.DB, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, nil, err
	}

	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	undo := zap.ReplaceGlobals(logger)

	db, err := store.InitDB(cfg)
	if err != nil {
		undo()
		_ = logger.Sync()
		return nil, nil, nil, err
	}

	cleanup := func() {
		undo()
		_ = logger.Sync()
	}
	return cfg, db, cleanup, nil
}
