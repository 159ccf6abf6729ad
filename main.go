package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-testrail-report/output"
	"github.com/bitrise-steplib/steps-testrail-report/step"
	"github.com/bitrise-steplib/steps-testrail-report/testrail"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()

	configParser := createConfigParser(logger)
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	reportStep := createStep(logger)
	result, err := reportStep.Run(config)
	if err != nil {
		logger.Errorf("Run: %s", err)
		return 1
	}

	if err := reportStep.Export(result); err != nil {
		logger.Warnf("Export outputs: %s", err)
	}

	return 0
}

func createConfigParser(logger log.Logger) step.TestRailReportConfigParser {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	pathModifier := pathutil.NewPathModifier()

	return step.NewTestRailReportConfigParser(inputParser, logger, pathModifier)
}

func createStep(logger log.Logger) step.TestRailReportStep {
	envRepository := env.NewRepository()
	outputExporter := output.NewExporter(envRepository, logger)

	return step.NewTestRailReportStep(logger, outputExporter, testrail.NewClient)
}
