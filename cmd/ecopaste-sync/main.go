package main

import (
	"fmt"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/app"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/config"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("ecopaste-sync")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	a, err := app.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	if err = a.Run(); err != nil {
		log.Fatal().Err(err).Msg("run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
