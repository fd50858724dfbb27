package domain

import "fmt"

// ErrorKind classifies a provider failure into an actionable category.
// Wrappers assign kinds from structured provider error codes, never by
// matching on error message text.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindAuthInvalid      ErrorKind = "auth_invalid"
	KindRateLimited      ErrorKind = "rate_limited"
	KindConnectionFailed ErrorKind = "connection_failed"
	KindPolicyFiltered   ErrorKind = "policy_filtered"
	KindUnknown          ErrorKind = "unknown"
)

// TranscriptionError is a typed speech-to-text failure.
type TranscriptionError struct {
	Kind ErrorKind
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed (%s): %v", e.Kind, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Message is the human-readable failure text recorded as the session
// transcript when transcription fails.
func (e *TranscriptionError) Message() string {
	switch e.Kind {
	case KindNotFound:
		return "The audio file could not be found."
	case KindAuthInvalid:
		return "The API credential is invalid or expired. Check the configured key."
	case KindRateLimited:
		return "The provider's usage limit was exceeded. Try again shortly."
	case KindConnectionFailed:
		return "The transcription provider could not be reached. Check the network connection."
	default:
		return fmt.Sprintf("An unexpected transcription error occurred: %v", e.Err)
	}
}

// ImageSynthesisError is a typed image-generation failure. A
// KindPolicyFiltered value is an expected policy outcome, not a system
// fault.
type ImageSynthesisError struct {
	Kind ErrorKind
	Err  error
}

func (e *ImageSynthesisError) Error() string {
	return fmt.Sprintf("image synthesis failed (%s): %v", e.Kind, e.Err)
}

func (e *ImageSynthesisError) Unwrap() error { return e.Err }

// Message is the user-facing explanation for the failure.
func (e *ImageSynthesisError) Message() string {
	switch e.Kind {
	case KindPolicyFiltered:
		return "Elements that could be emotionally distressing were filtered by the provider's safety system."
	case KindConnectionFailed:
		return "The image provider had a temporary problem. Try again shortly."
	case KindAuthInvalid:
		return "The API credential is invalid or expired. Check the configured key."
	default:
		return "Image generation failed for an unknown reason."
	}
}
