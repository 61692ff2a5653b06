package normalize

import (
	"errors"

	"github.com/m-mizutani/edumentor/pkg/model"
)

// Kind classifies why model output could not be normalized
type Kind string

const (
	KindNoPayload      Kind = "no-structured-payload"
	KindParseFailure   Kind = "parse-failure"
	KindSchemaMismatch Kind = "schema-mismatch"
)

// Error is returned when raw model text cannot be coerced into the expected variant
type Error struct {
	Kind    Kind
	Variant model.ResponseKind
	Err     error
}

func (e *Error) Error() string {
	msg := "normalization failed: " + string(e.Kind)
	if e.Variant != "" {
		msg += " (" + string(e.Variant) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a normalization error of the given kind
func IsKind(err error, kind Kind) bool {
	var nerr *Error
	if !errors.As(err, &nerr) {
		return false
	}
	return nerr.Kind == kind
}
