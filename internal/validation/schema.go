package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	ContentType string
	Issues      []ValidationIssue
	Cause       error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	prefix := ""
	if e.ContentType != "" {
		prefix = e.ContentType + ": "
	}
	return prefix + strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Validator holds one compiled schema per content type. Compiled schemas are
// read-only, so a Validator is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the supplied raw JSON schemas keyed by content type.
func NewValidator(raw map[string][]byte) (*Validator, error) {
	schemas := make(map[string]*jsonschema.Schema, len(raw))
	for contentType, source := range raw {
		compiled, err := compileSchema(contentType, source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, contentType, err)
		}
		schemas[contentType] = compiled
	}
	return &Validator{schemas: schemas}, nil
}

// Has reports whether a schema is registered for contentType.
func (v *Validator) Has(contentType string) bool {
	if v == nil {
		return false
	}
	_, ok := v.schemas[contentType]
	return ok
}

// Validate checks payload against the schema of contentType. Types without a
// schema accept any payload.
func (v *Validator) Validate(contentType string, payload map[string]any) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[contentType]
	if !ok {
		return nil
	}
	instance, err := toJSONValue(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := schema.Validate(instance); err != nil {
		return &PayloadValidationError{
			ContentType: contentType,
			Issues:      Issues(err),
			Cause:       err,
		}
	}
	return nil
}

// toJSONValue normalises YAML-decoded values (ints, nested maps) into the
// shapes the schema validator understands.
func toJSONValue(payload map[string]any) (any, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func compileSchema(name string, source []byte) (*jsonschema.Schema, error) {
	resource := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(source)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
