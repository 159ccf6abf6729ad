package output

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	runIDEnvKey  = "BITRISE_TESTRAIL_RUN_ID"
	resultEnvKey = "BITRISE_TESTRAIL_REPORT_RESULT"
)

// Exporter ...
type Exporter interface {
	ExportReportResult(status string)
	ExportRunID(runID int64)
}

type exporter struct {
	envRepository env.Repository
	logger        log.Logger
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger) Exporter {
	return &exporter{
		envRepository: envRepository,
		logger:        logger,
	}
}

func (e exporter) ExportReportResult(status string) {
	if err := e.envRepository.Set(resultEnvKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", resultEnvKey, err)
	}
}

func (e exporter) ExportRunID(runID int64) {
	if runID == 0 {
		return
	}
	if err := e.envRepository.Set(runIDEnvKey, fmt.Sprintf("%d", runID)); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", runIDEnvKey, err)
	}
}
