package main

import (
	"fmt"
	"os"

	"mleus/experiment"
	"mleus/internal"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summary terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	internal.LoadDotEnv(".env")
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate("summarize"); err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	n, err := experiment.NewSummarizer(config.ExperimentsDir, config.ProjectName, logger).Run()
	if err != nil {
		return exitRuntime, err
	}
	logger.Info("Experiments summarized", "dir", config.ExperimentsDir, "count", n)
	return exitOK, nil
}
