package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Status is the outcome of a single executed test case. An empty status means
// the case was never executed and has no outcome to report.
type Status string

// The full remote status set. Host frameworks typically emit only passed,
// failed and skipped, the rest can be set by manual triage tooling.
const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusBlocked  Status = "blocked"
	StatusUntested Status = "untested"
	StatusRetest   Status = "retest"
)

var knownStatuses = map[Status]bool{
	StatusPassed:   true,
	StatusFailed:   true,
	StatusSkipped:  true,
	StatusBlocked:  true,
	StatusUntested: true,
	StatusRetest:   true,
}

// Expect is one evaluated assertion of a case.
type Expect struct {
	Evaluation   string `json:"evaluation"`
	Success      bool   `json:"success"`
	Required     bool   `json:"required"`
	TargetName   string `json:"target_name"`
	Target       string `json:"target"`
	ExpectedName string `json:"expected_name"`
	Expected     string `json:"expected"`
}

// Case is a single test of a spec, identified by its raw (code level) name.
type Case struct {
	Name           string   `json:"name"`
	Status         Status   `json:"status"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Expects        []Expect `json:"expects"`
	Errors         []string `json:"errors"`
}

// Executed reports whether the case carries an outcome.
func (c *Case) Executed() bool {
	return c.Status != ""
}

// Spec is one test group of the local hierarchy. NameChain is the qualified
// class-name chain (outermost segment first) declared by the producing
// framework; it defines the spec's position in the hierarchy by name.
type Spec struct {
	ID        string   `json:"id"`
	NameChain []string `json:"name_chain"`
	Specs     []*Spec  `json:"specs"`
	Cases     []*Case  `json:"cases"`
}

// Summary is the completed test run a host framework hands over for
// reporting.
type Summary struct {
	Specs []*Spec `json:"specs"`
}

// Load reads and validates a test summary file.
func Load(path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open test summary (%s): %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(file)
}

// Parse decodes and validates a test summary.
func Parse(reader io.Reader) (Summary, error) {
	var parsed Summary
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&parsed); err != nil {
		return Summary{}, fmt.Errorf("failed to decode test summary: %w", err)
	}

	for _, spec := range parsed.Specs {
		if err := validateSpec(spec); err != nil {
			return Summary{}, err
		}
	}

	return parsed, nil
}

func validateSpec(spec *Spec) error {
	if len(spec.NameChain) == 0 {
		return fmt.Errorf("spec (%s) has an empty name chain", spec.ID)
	}
	for _, segment := range spec.NameChain {
		if segment == "" {
			return fmt.Errorf("spec (%s) has an empty name chain segment", strings.Join(spec.NameChain, "."))
		}
	}

	// Specs without a declared identity are identified by their name chain.
	if spec.ID == "" {
		spec.ID = strings.Join(spec.NameChain, ".")
	}

	for _, testCase := range spec.Cases {
		if testCase.Name == "" {
			return fmt.Errorf("spec (%s) contains a case without a name", spec.ID)
		}
		if testCase.Status != "" && !knownStatuses[testCase.Status] {
			return fmt.Errorf("case (%s) has an unknown status: %s", testCase.Name, testCase.Status)
		}
	}

	for _, child := range spec.Specs {
		if err := validateSpec(child); err != nil {
			return err
		}
	}

	return nil
}
