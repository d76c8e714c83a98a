// Package schema checks tool arguments against their JSON schemas before
// they reach the store.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

// maxReported caps how many violations end up in the error message.
const maxReported = 3

// FieldError is one schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator validates JSON documents and caches compiled schemas.
type Validator struct {
	cache sync.Map // schema JSON -> *gojsonschema.Schema
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks args against schemaData (a map, struct or raw JSON
// string). Violations come back as a Validation error whose details list
// every offending field. Empty args are treated as an empty object.
func (v *Validator) Validate(schemaData any, args []byte) error {
	compiled, err := v.compile(schemaData)
	if err != nil {
		return apperrors.Internal("invalid schema definition", err)
	}

	if len(strings.TrimSpace(string(args))) == 0 {
		args = []byte("{}")
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return apperrors.Validation("arguments are not valid JSON: %v", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, FieldError{Field: desc.Field(), Message: desc.Description()})
		msgs = append(msgs, desc.String())
	}
	return apperrors.ValidationWithDetails(summarize(msgs), fields)
}

func (v *Validator) compile(schemaData any) (*gojsonschema.Schema, error) {
	var raw []byte
	switch s := schemaData.(type) {
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		b, err := json.Marshal(schemaData)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	key := string(raw)
	if cached, ok := v.cache.Load(key); ok {
		return cached.(*gojsonschema.Schema), nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	v.cache.Store(key, compiled)
	return compiled, nil
}

func summarize(msgs []string) string {
	more := ""
	if len(msgs) > maxReported {
		more = fmt.Sprintf(" (and %d more)", len(msgs)-maxReported)
		msgs = msgs[:maxReported]
	}
	return "invalid arguments: " + strings.Join(msgs, "; ") + more
}
