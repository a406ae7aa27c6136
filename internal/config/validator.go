package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a validation error for a specific file
type ValidationError struct {
	File    string
	Path    string
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Path != "" {
		return e.File + ": " + e.Path + ": " + e.Message
	}
	return e.File + ": " + e.Message
}

// Validator handles threshold file validation
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new validator with the given schema file
func NewValidator(schemaPath string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateFile validates a threshold YAML file against the JSON schema and
// applies the extra consistency rules the schema cannot express.
func (v *Validator) ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}}
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{File: path, Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}

	var errors []ValidationError
	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			errors = append(errors, extractSchemaErrors(path, validationErr)...)
		} else {
			errors = append(errors, ValidationError{File: path, Message: err.Error()})
		}
	}

	var thresholds Thresholds
	if err := yaml.Unmarshal(data, &thresholds); err == nil {
		errors = append(errors, validateOrdering(path, &thresholds)...)
	}

	return errors
}

// extractSchemaErrors converts JSON schema validation errors to ValidationErrors
func extractSchemaErrors(file string, err *jsonschema.ValidationError) []ValidationError {
	var errors []ValidationError

	path := strings.Join(err.InstanceLocation, ".")
	if path == "" {
		path = "(root)"
	}

	errors = append(errors, ValidationError{
		File:    file,
		Path:    path,
		Message: err.Error(),
	})

	for _, cause := range err.Causes {
		errors = append(errors, extractSchemaErrors(file, cause)...)
	}

	return errors
}

// validateOrdering checks the conventions the schema cannot: warning below
// critical and healthy below attention for every configured metric.
func validateOrdering(file string, t *Thresholds) []ValidationError {
	var errors []ValidationError

	for platform, rules := range t.Platforms {
		for metric, ladder := range rules.Status {
			if ladder.Healthy >= ladder.Attention {
				errors = append(errors, ValidationError{
					File: file,
					Path: fmt.Sprintf("platforms.%s.status.%s", platform, metric),
					Message: fmt.Sprintf("healthy cutover (%v) must be below attention cutover (%v)",
						ladder.Healthy, ladder.Attention),
				})
			}
		}
		for metric, pair := range rules.Outliers {
			if pair.Warning >= pair.Critical {
				errors = append(errors, ValidationError{
					File: file,
					Path: fmt.Sprintf("platforms.%s.outliers.%s", platform, metric),
					Message: fmt.Sprintf("warning threshold (%v) must be below critical threshold (%v)",
						pair.Warning, pair.Critical),
				})
			}
		}
	}

	for platform, cfg := range t.Fleets {
		if cfg.Count <= 0 {
			errors = append(errors, ValidationError{
				File:    file,
				Path:    fmt.Sprintf("fleets.%s.count", platform),
				Message: "machine count must be positive",
			})
		}
		if cfg.Prefix == "" {
			errors = append(errors, ValidationError{
				File:    file,
				Path:    fmt.Sprintf("fleets.%s.prefix", platform),
				Message: "machine name prefix is required",
			})
		}
	}

	return errors
}
