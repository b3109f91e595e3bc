/*
Copyright 2025 Telsim Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"time"
)

// ApplicationStatus represents the review status of a submitted application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusUnderReview ApplicationStatus = "under-review"
)

// ValidStatus reports whether s is one of the accepted review statuses.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusUnderReview:
		return true
	}
	return false
}

// Sections is the nested section -> field -> value mapping collected by a
// wizard. Values are strings, bools, string slices or document lists.
type Sections map[string]map[string]interface{}

// Get returns the value at section.field, or nil when either level is absent.
func (s Sections) Get(section, field string) interface{} {
	m, ok := s[section]
	if !ok {
		return nil
	}
	return m[field]
}

// Application is a submitted Customer Application Form record. The ID is
// assigned by the data source as 1 + max(existing ids); clients never set it.
type Application struct {
	ID              int64                  `json:"id"`
	UserID          string                 `json:"user_id"`
	WizardName      string                 `json:"wizard_name"`
	CustomerType    string                 `json:"customer_type"`
	Status          ApplicationStatus      `json:"status"`
	Sections        Sections               `json:"sections"`
	Documents       []Document             `json:"documents"`
	SubmittedAt     time.Time              `json:"submitted_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	ReviewedBy      string                 `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time             `json:"reviewed_at,omitempty"`
	ReviewComment   string                 `json:"review_comment,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	MetaData        map[string]interface{} `json:"meta_data,omitempty"`
}

// RequiredSections are the sections every application must carry on create.
var RequiredSections = []string{"personalDetails", "telecomUsage"}

// MissingSections returns the required sections absent from the application.
func (a *Application) MissingSections() []string {
	var missing []string
	for _, name := range RequiredSections {
		if len(a.Sections[name]) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}
