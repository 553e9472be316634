package main

import (
	"context"
	"fmt"
	"os"

	"classbook/internal/cli"
	"classbook/internal/portal/app"
	"classbook/internal/portal/config"
	"classbook/pkg/logger"
)

// EnvLoggerLevel - уровень логирования CLI; логи пишутся в stderr.
const EnvLoggerLevel = "PORTAL_LOGGER_LEVEL"

func main() {
	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}
	if err := logger.InitGlobalLoggerWithLevel(logger.Production, level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	build := func(ctx context.Context) (*app.Portal, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		return app.New(ctx, cfg)
	}

	rootCmd := cli.NewRootCmd(build)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
