package testrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
)

const (
	// requestTimeout bounds a single attempt, independently of the retry
	// transport's backoff budget.
	requestTimeout = 30 * time.Second

	defaultMaxAttempts = 5
	defaultPageSize    = 100
)

// Client covers the TestRail operations the reporting flow needs, one method
// per remote concept.
type Client interface {
	GetSections(projectID, suiteID int64) ([]Section, error)
	GetCases(projectID, suiteID, sectionID int64) ([]Case, error)
	AddSection(projectID int64, params AddSectionParams) (Section, error)
	AddCase(sectionID int64, params AddCaseParams) (Case, error)
	UpdateCase(caseID int64, fields map[string]interface{}) (Case, error)
	AddRun(projectID int64, params AddRunParams) (Run, error)
	AddResultForCase(runID, caseID int64, params AddResultParams) (Result, error)
}

// ClientConfig ...
type ClientConfig struct {
	Endpoint string
	Username string
	APIKey   string

	// MaxAttempts is the total number of tries per request, including the
	// first one. Zero selects the default.
	MaxAttempts  int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	PageSize     int
}

// StatusError is returned when TestRail responds with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("testrail responded with status %d: %s", e.Code, e.Body)
}

type apiClient struct {
	baseURL    string
	username   string
	apiKey     string
	pageSize   int64
	httpClient *http.Client
	logger     log.Logger
}

// NewClient creates a TestRail client on top of a retrying transport:
// transient failures (network errors, 429, 5xx) are retried with exponential
// backoff, client errors propagate immediately.
func NewClient(cfg ClientConfig, logger log.Logger) Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	pageSize := int64(cfg.PageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	retryClient := retryhttp.NewClient(logger)
	retryClient.RetryMax = maxAttempts - 1
	if cfg.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = cfg.RetryWaitMax
	}
	retryClient.HTTPClient.Timeout = requestTimeout

	return &apiClient{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/") + "/index.php?",
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: retryClient.StandardClient(),
		logger:     logger,
	}
}

func (c *apiClient) GetSections(projectID, suiteID int64) ([]Section, error) {
	var response struct {
		Sections []Section `json:"sections"`
	}

	path := fmt.Sprintf("/api/v2/get_sections/%d/&suite_id=%d", projectID, suiteID)
	if err := c.get(path, &response); err != nil {
		return nil, err
	}

	return response.Sections, nil
}

type casesPage struct {
	Offset int64  `json:"offset"`
	Limit  int64  `json:"limit"`
	Cases  []Case `json:"cases"`
	Links  struct {
		Next *string `json:"next"`
	} `json:"_links"`
}

// GetCases lists the cases of a suite, following the server's pagination
// links. A next link that does not advance the offset stops the iteration, so
// a misbehaving server cannot cause an endless loop. Passing sectionID 0
// lists the whole suite.
func (c *apiClient) GetCases(projectID, suiteID, sectionID int64) ([]Case, error) {
	var cases []Case
	offset := int64(0)

	for {
		path := fmt.Sprintf("/api/v2/get_cases/%d&suite_id=%d&limit=%d&offset=%d", projectID, suiteID, c.pageSize, offset)
		if sectionID != 0 {
			path += fmt.Sprintf("&section_id=%d", sectionID)
		}

		var page casesPage
		if err := c.get(path, &page); err != nil {
			return nil, err
		}
		cases = append(cases, page.Cases...)

		if page.Links.Next == nil {
			return cases, nil
		}

		pageLimit := page.Limit
		if pageLimit < 1 {
			pageLimit = c.pageSize
		}
		next := page.Offset + pageLimit
		if next <= offset {
			c.logger.Debugf("Case listing reported a next page without advancing the offset (%d), stopping after %d cases", next, len(cases))
			return cases, nil
		}
		offset = next
	}
}

func (c *apiClient) AddSection(projectID int64, params AddSectionParams) (Section, error) {
	var section Section
	err := c.post(fmt.Sprintf("/api/v2/add_section/%d", projectID), params, &section)
	return section, err
}

func (c *apiClient) AddCase(sectionID int64, params AddCaseParams) (Case, error) {
	var testCase Case
	err := c.post(fmt.Sprintf("/api/v2/add_case/%d", sectionID), params, &testCase)
	return testCase, err
}

func (c *apiClient) UpdateCase(caseID int64, fields map[string]interface{}) (Case, error) {
	var testCase Case
	err := c.post(fmt.Sprintf("/api/v2/update_case/%d", caseID), fields, &testCase)
	return testCase, err
}

func (c *apiClient) AddRun(projectID int64, params AddRunParams) (Run, error) {
	var run Run
	err := c.post(fmt.Sprintf("/api/v2/add_run/%d", projectID), params, &run)
	return run, err
}

func (c *apiClient) AddResultForCase(runID, caseID int64, params AddResultParams) (Result, error) {
	var result Result
	err := c.post(fmt.Sprintf("/api/v2/add_result_for_case/%d/%d", runID, caseID), params, &result)
	return result, err
}

func (c *apiClient) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *apiClient) post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debugf("Failed to close response body: %s", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
