package step

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-testrail-report/output"
	"github.com/bitrise-steplib/steps-testrail-report/reporter"
	"github.com/bitrise-steplib/steps-testrail-report/summary"
	"github.com/bitrise-steplib/steps-testrail-report/testrail"
	shellquote "github.com/kballard/go-shellquote"
)

// Report statuses exported as step output.
const (
	reportSucceeded = "succeeded"
	reportSkipped   = "skipped"
	reportFailed    = "failed"
)

// Input ...
type Input struct {
	TestSummaryPath string          `env:"test_summary_path,required"`
	Endpoint        string          `env:"testrail_endpoint,required"`
	Username        string          `env:"testrail_username,required"`
	APIKey          stepconf.Secret `env:"testrail_api_key,required"`
	ProjectID       int             `env:"testrail_project_id,required"`
	SuiteID         int             `env:"testrail_suite_id,required"`
	TemplateID      int             `env:"testrail_template_id"`
	RunID           int             `env:"testrail_run_id"`
	RunName         string          `env:"run_name"`
	ExtraCaseFields string          `env:"extra_case_fields"`

	// Debug
	Verbose bool `env:"verbose_log,opt[yes,no]"`
}

// Config ...
type Config struct {
	TestSummaryPath string
	Endpoint        string
	Username        string
	APIKey          string
	ProjectID       int64
	SuiteID         int64
	TemplateID      *int64
	RunID           int64
	RunName         string
	ExtraCaseFields map[string]interface{}
}

// TestRailReportConfigParser ...
type TestRailReportConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathModifier pathutil.PathModifier
}

// NewTestRailReportConfigParser ...
func NewTestRailReportConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathModifier pathutil.PathModifier) TestRailReportConfigParser {
	return TestRailReportConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p TestRailReportConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()
	p.logger.EnableDebugLog(input.Verbose)

	endpoint := strings.TrimRight(input.Endpoint, "/")
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid TestRail endpoint (%s), expecting a http(s) URL", input.Endpoint)
	}

	summaryPath, err := p.pathModifier.AbsPath(input.TestSummaryPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute test summary path: %w", err)
	}

	extraCaseFields, err := parseExtraCaseFields(input.ExtraCaseFields)
	if err != nil {
		return Config{}, err
	}

	var templateID *int64
	if input.TemplateID > 0 {
		id := int64(input.TemplateID)
		templateID = &id
	}

	return Config{
		TestSummaryPath: summaryPath,
		Endpoint:        endpoint,
		Username:        input.Username,
		APIKey:          string(input.APIKey),
		ProjectID:       int64(input.ProjectID),
		SuiteID:         int64(input.SuiteID),
		TemplateID:      templateID,
		RunID:           int64(input.RunID),
		RunName:         input.RunName,
		ExtraCaseFields: extraCaseFields,
	}, nil
}

// parseExtraCaseFields parses the shell-quoted key=value pairs of the
// extra_case_fields input.
func parseExtraCaseFields(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	pairs, err := shellquote.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extra_case_fields (%s): %w", raw, err)
	}

	fields := map[string]interface{}{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid extra_case_fields entry (%s), expecting key=value", pair)
		}
		fields[key] = value
	}

	return fields, nil
}

// ClientFactory builds the TestRail client the step reports through.
type ClientFactory func(cfg testrail.ClientConfig, logger log.Logger) testrail.Client

// Result ...
type Result struct {
	RunID         int64
	ReportedCases int
	SkippedCases  int
	Skipped       bool
}

// TestRailReportStep projects a completed test run summary onto TestRail.
// Remote reporting is a side channel: every remote failure degrades to a
// skipped entity instead of failing the step.
type TestRailReportStep struct {
	logger         log.Logger
	outputExporter output.Exporter
	clientFactory  ClientFactory
}

// NewTestRailReportStep ...
func NewTestRailReportStep(logger log.Logger, outputExporter output.Exporter, clientFactory ClientFactory) TestRailReportStep {
	return TestRailReportStep{
		logger:         logger,
		outputExporter: outputExporter,
		clientFactory:  clientFactory,
	}
}

// Run ...
func (s TestRailReportStep) Run(cfg Config) (Result, error) {
	testSummary, err := summary.Load(cfg.TestSummaryPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load test summary: %w", err)
	}

	client := s.clientFactory(testrail.ClientConfig{
		Endpoint: cfg.Endpoint,
		Username: cfg.Username,
		APIKey:   cfg.APIKey,
	}, s.logger)

	specReporter := reporter.NewReporter(client, s.logger, reporter.Config{
		ProjectID:  cfg.ProjectID,
		SuiteID:    cfg.SuiteID,
		TemplateID: cfg.TemplateID,
		RunID:      cfg.RunID,
		RunName:    cfg.RunName,
	})

	s.logger.Infof("Reconciling the spec hierarchy with TestRail")
	if err := specReporter.TrackTopLevel(testSummary.Specs); err != nil {
		s.logger.Errorf("%s", err)
		s.logger.Warnf("Skipping result reporting, the test outcome is unaffected")
		return Result{Skipped: true}, nil
	}

	specReporter.StartReporting()
	if specReporter.RunID() == 0 {
		s.logger.Warnf("No TestRail run is available, results will not be submitted")
	}

	result := Result{}
	var walk func(spec *summary.Spec)
	walk = func(spec *summary.Spec) {
		for _, testCase := range spec.Cases {
			if !testCase.Executed() {
				continue
			}
			if specReporter.ReportCase(spec, testCase) {
				result.ReportedCases++
			} else {
				result.SkippedCases++
			}
		}
		for _, child := range spec.Specs {
			walk(child)
		}
	}
	for _, spec := range testSummary.Specs {
		walk(spec)
	}

	specReporter.ApplyCaseFields(cfg.ExtraCaseFields)

	result.RunID = specReporter.RunID()
	result.Skipped = result.ReportedCases == 0 && result.SkippedCases == 0

	s.logger.Println()
	s.logger.Donef("Reported %d case result(s), skipped %d", result.ReportedCases, result.SkippedCases)

	return result, nil
}

// Export ...
func (s TestRailReportStep) Export(result Result) error {
	status := reportSucceeded
	switch {
	case result.Skipped:
		status = reportSkipped
	case result.SkippedCases > 0:
		status = reportFailed
	case result.ReportedCases == 0:
		status = reportSkipped
	}

	s.outputExporter.ExportReportResult(status)
	s.outputExporter.ExportRunID(result.RunID)

	return nil
}
