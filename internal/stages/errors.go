// Package stages defines the pipeline stage names and the error taxonomy
// shared by every component. All four classes are fatal to the current run;
// nothing is retried.
package stages

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names as reported in logs and error messages.
const (
	StageParams   = "params"
	StageModel    = "model"
	StageGeometry = "geometry"
	StageSimulate = "simulate"
	StageCollect  = "collect"
)

var (
	// ErrConfiguration marks a missing or invalid parameter.
	ErrConfiguration = errors.New("configuration error")
	// ErrFormat marks a malformed model or geometry input.
	ErrFormat = errors.New("format error")
	// ErrExternalTool marks a simulator invocation failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrOutputParse marks an unexpected simulator output shape.
	ErrOutputParse = errors.New("output parse error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailedStage extracts the stage name encoded by Wrap, or "" when the error
// did not pass through it.
func FailedStage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []error{ErrConfiguration, ErrFormat, ErrExternalTool, ErrOutputParse} {
		prefix := marker.Error() + ": "
		if !strings.HasPrefix(msg, prefix) {
			continue
		}
		rest := msg[len(prefix):]
		for _, stage := range []string{StageParams, StageModel, StageGeometry, StageSimulate, StageCollect} {
			if rest == stage || strings.HasPrefix(rest, stage+":") {
				return stage
			}
		}
	}
	return ""
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
