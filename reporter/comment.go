package reporter

import (
	"fmt"
	"strings"

	"github.com/bitrise-steplib/steps-testrail-report/summary"
)

const (
	markCheck    = "✓"
	markCross    = "✗"
	markArrow    = "→"
	markArrowBar = "↛"
)

// TestRail's built-in status ids.
var statusCodes = map[summary.Status]int{
	summary.StatusPassed:   1,
	summary.StatusBlocked:  2,
	summary.StatusUntested: 3,
	summary.StatusRetest:   4,
	summary.StatusFailed:   5,
	summary.StatusSkipped:  7,
}

func statusCode(status summary.Status) int {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return statusCodes[summary.StatusFailed]
}

// elapsedValue reports whole seconds with a minimum of one, zero length tests
// still carry a non-zero duration.
func elapsedValue(elapsedSeconds float64) string {
	seconds := int64(elapsedSeconds)
	if seconds == 0 {
		seconds = 1
	}
	return fmt.Sprintf("%ds", seconds)
}

// formatComment renders the human readable result comment: one line per
// assertion with a required/advisory arrow and a pass/fail mark, a Values
// block for failed assertions, then the raw error blocks if any.
func formatComment(testCase *summary.Case) string {
	var lines []string

	for _, expect := range testCase.Expects {
		mark := markCheck
		if !expect.Success {
			mark = markCross
		}
		arrow := markArrow
		if expect.Required {
			arrow = markArrowBar
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", arrow, mark, expect.Evaluation))

		if !expect.Success {
			lines = append(lines, "    Values:", "    -------")
			lines = append(lines, fmt.Sprintf("    | %s: %s", expect.TargetName, expect.Target))

			// The expected description often is the expected value itself,
			// repeating it would only add noise.
			if expect.ExpectedName != expect.Expected {
				lines = append(lines, fmt.Sprintf("    | %s: %s", expect.ExpectedName, expect.Expected))
			}
		}
	}

	if len(testCase.Errors) > 0 {
		lines = append(lines, "", "Traceback occurred:", strings.Repeat("-", 40))
		lines = append(lines, testCase.Errors...)
	}

	return strings.Join(lines, "\n")
}
