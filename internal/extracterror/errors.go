// Package extracterror defines the error types surfaced by the free-text
// extraction pipeline. Everything that can go wrong between user text and a
// validated candidate is normalized into an *ExtractionError so the
// conversation layer never sees raw backend failures.
package extracterror

import (
	"errors"
	"fmt"
)

// Stages of the extraction pipeline where a failure can occur.
const (
	StageBackend  = "backend"
	StageDecode   = "decode"
	StageValidate = "validate"
)

// ExtractionError describes a recoverable extraction failure. Cause is a
// short human-readable message suitable for re-prompting the user.
type ExtractionError struct {
	Stage string
	Cause string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Stage, e.Cause, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Stage, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Backend wraps a network or model failure.
func Backend(err error) *ExtractionError {
	return &ExtractionError{
		Stage: StageBackend,
		Cause: "nao foi possivel consultar o servico de extracao",
		Err:   err,
	}
}

// Malformed wraps a response that is not the expected JSON object.
func Malformed(err error) *ExtractionError {
	return &ExtractionError{
		Stage: StageDecode,
		Cause: "a resposta da IA nao esta no formato esperado",
		Err:   err,
	}
}

// InvalidAmount reports a missing, non-numeric or non-positive value.
func InvalidAmount() *ExtractionError {
	return &ExtractionError{
		Stage: StageValidate,
		Cause: "valor monetario invalido ou nao encontrado",
	}
}

// As unwraps err into an *ExtractionError if it is one.
func As(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
