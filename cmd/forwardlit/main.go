// Package main is the entry point for the forwardlit viewer.
package main

import (
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/app"
	"github.com/Faultbox/forwardlit/internal/config"
	"github.com/Faultbox/forwardlit/internal/logger"
)

// fatal reports err on stderr and in a message box, then exits.
func fatal(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	dialog.Message("%s:\n%v", msg, err).Title("forwardlit").Error()
	os.Exit(1)
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== forwardlit ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		fatal("failed to start", err)
	}

	if err := a.Run(); err != nil {
		a.Close()
		fatal("renderer error", err)
	}
	a.Close()

	logger.Info("closed normally")
}
