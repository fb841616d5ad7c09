package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/helper"
	"washbay/shared/logger"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up, down, drop, step-up, version) is required")
	}

	cfg := config.Get()

	action := helper.Action(os.Args[1])

	switch action {
	case helper.ActionVersion:
		version, dirty, err := helper.Version(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read migration version")
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration version")
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp:
		if err := helper.Runner(cfg, action); err != nil {
			log.Fatal().Err(err).Str("action", string(action)).Msg("Migration failed")
		}
	default:
		log.Fatal().Str("action", string(action)).Msg("Invalid action. Use 'up', 'down', 'drop', 'step-up' or 'version'")
	}
}
