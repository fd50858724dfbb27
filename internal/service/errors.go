package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrModerationBlocked = errors.New("dream text did not pass the safety check")
	ErrNoDreamText       = errors.New("no dream text available for analysis")
	ErrReportExists      = errors.New("a report was already generated for this session")
	ErrNoReport          = errors.New("no report available; run the analysis first")
)

// ReportGenerationError means structured generation did not yield a valid
// DreamReport. Raw preserves the provider payload for diagnosis; it must
// never be exposed as if it were a valid report.
type ReportGenerationError struct {
	Raw json.RawMessage
	Err error
}

func (e *ReportGenerationError) Error() string {
	return fmt.Sprintf("report generation failed: %v", e.Err)
}

func (e *ReportGenerationError) Unwrap() error { return e.Err }

// ReconstructionError means structured generation did not yield a valid
// ReconstructionResult.
type ReconstructionError struct {
	Raw json.RawMessage
	Err error
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("reconstruction failed: %v", e.Err)
}

func (e *ReconstructionError) Unwrap() error { return e.Err }
