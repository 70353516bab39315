package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaValidation matches every *SchemaValidationError with errors.Is.
var ErrSchemaValidation = errors.New("schema validation failed")

// Violation is one rule the document broke. Path uses the JSON field names,
// e.g. "keyWallets[1].influence".
type Violation struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// SchemaValidationError reports a model output that does not satisfy its
// schema. The decoded value must not be used when this is returned.
type SchemaValidationError struct {
	Schema     string      `json:"schema"`
	Violations []Violation `json:"violations"`
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", v.Path, v.Message))
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaValidation, e.Schema, strings.Join(parts, "; "))
}

func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}
