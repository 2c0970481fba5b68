package models

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const jobSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "company_name":    {"type": "string", "pattern": "\\S"},
    "job_location":    {"type": "string", "pattern": "\\S"},
    "job_role":        {"type": "string", "pattern": "\\S"},
    "job_description": {"type": "string", "pattern": "\\S"}
  },
  "required": ["company_name", "job_location", "job_role", "job_description"]
}`

var jobSchemaLoader = gojsonschema.NewStringLoader(jobSchema)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

// ValidateJob checks that every descriptive field of a new job is filled in.
func ValidateJob(j JobPosting) error {
	return validate(j)
}

// ValidateJobUpdate checks the fields present in a partial update. Absent
// fields are not required.
func ValidateJobUpdate(u JobUpdate) error {
	if u.IsEmpty() {
		return &ValidationError{Problems: []string{"no fields to update"}}
	}

	// Fill absent fields with a placeholder so only supplied ones are checked.
	probe := JobPosting{Company: "-", Location: "-", Role: "-", Description: "-"}
	probe.Apply(u)
	return validate(probe)
}

func validate(j JobPosting) error {
	res, err := gojsonschema.Validate(jobSchemaLoader, gojsonschema.NewGoLoader(j))
	if err != nil {
		return fmt.Errorf("validate job: %w", err)
	}
	if res.Valid() {
		return nil
	}

	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, fmt.Sprintf("%s must not be empty", e.Field()))
	}
	return &ValidationError{Problems: problems}
}
