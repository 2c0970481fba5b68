package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const jobIDPrefix = "job_"

// JobPosting is a job opening published by a recruiter.
type JobPosting struct {
	ID          string `json:"job_id"`
	Company     string `json:"company_name"`
	Location    string `json:"job_location"`
	Role        string `json:"job_role"`
	Description string `json:"job_description"`
}

// JobUpdate carries the fields of a partial job update. Nil fields are left untouched.
type JobUpdate struct {
	Company     *string `json:"company_name,omitempty"`
	Location    *string `json:"job_location,omitempty"`
	Role        *string `json:"job_role,omitempty"`
	Description *string `json:"job_description,omitempty"`
}

// NewJobID returns an identifier of the form job_xxxxxxxx.
func NewJobID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return jobIDPrefix + hex[:8]
}

// Label renders the job the way it is shown in selection lists.
func (j JobPosting) Label() string {
	return fmt.Sprintf("%s at %s (%s)", j.Role, j.Company, j.Location)
}

// Apply merges the non-nil fields of u into the job.
func (j *JobPosting) Apply(u JobUpdate) {
	if u.Company != nil {
		j.Company = *u.Company
	}
	if u.Location != nil {
		j.Location = *u.Location
	}
	if u.Role != nil {
		j.Role = *u.Role
	}
	if u.Description != nil {
		j.Description = *u.Description
	}
}

// IsEmpty reports whether the update carries no fields.
func (u JobUpdate) IsEmpty() bool {
	return u.Company == nil && u.Location == nil && u.Role == nil && u.Description == nil
}
