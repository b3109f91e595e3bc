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

package onboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/telsim/onboard/form"
	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/internal/notification"
	"github.com/telsim/onboard/model"
	"github.com/telsim/onboard/verification"
	"github.com/telsim/onboard/wizard"
)

// CreateApplication validates and stores a new application. The caller never
// supplies the id; the datasource assigns it on insert.
func (o *Onboard) CreateApplication(ctx context.Context, application *model.Application) (*model.Application, error) {
	if strings.TrimSpace(application.UserID) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "user_id is required", nil)
	}
	if missing := application.MissingSections(); len(missing) > 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("missing required sections: %s", strings.Join(missing, ", ")), missing)
	}
	if ct := application.Sections.Get("personalDetails", "customerType"); ct != nil {
		if s, ok := ct.(string); ok {
			application.CustomerType = s
		}
	}

	created, err := o.datasource.CreateApplication(ctx, application)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"application_id": created.ID,
		"user_id":        created.UserID,
		"wizard":         created.WizardName,
	}).Info("application submitted")

	o.postApplicationActions(ctx, created)
	return created, nil
}

// SubmitWizard runs the submission path of a completed wizard: a full
// validation pass over the form state, then persistence of the snapshot and
// its documents. Validation failures surface as invalid-input errors carrying
// the flat field error map.
func (o *Onboard) SubmitWizard(ctx context.Context, userID string, def *wizard.Definition, state *form.State) (*model.Application, error) {
	result := state.Validate()
	if !result.IsValid {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "application has validation errors", result.Errors)
	}

	application := &model.Application{
		UserID:     userID,
		WizardName: def.Name,
		Sections:   state.Snapshot(),
		Documents:  state.AllDocuments(),
	}
	return o.CreateApplication(ctx, application)
}

// GetApplication retrieves a single application by id.
func (o *Onboard) GetApplication(ctx context.Context, id int64) (*model.Application, error) {
	return o.datasource.GetApplication(ctx, id)
}

// GetAllApplications lists applications with optional status filtering.
func (o *Onboard) GetAllApplications(ctx context.Context, limit, offset int, status model.ApplicationStatus) ([]*model.Application, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "unknown application status", status)
	}
	return o.datasource.GetAllApplications(ctx, limit, offset, status)
}

// GetApplicationsByUser lists one user's applications.
func (o *Onboard) GetApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error) {
	return o.datasource.GetApplicationsByUser(ctx, userID)
}

// ApproveApplication moves a pending or under-review application to approved
// and kicks off artifact generation.
func (o *Onboard) ApproveApplication(ctx context.Context, id int64, reviewer, comment string) (*model.Application, error) {
	application, err := o.transitionApplication(ctx, id, model.StatusApproved, reviewer, comment, "")
	if err != nil {
		return nil, err
	}

	if err := o.GenerateCAF(ctx, application.ID); err != nil {
		notification.NotifyError(err)
	}
	return application, nil
}

// RejectApplication moves a pending or under-review application to rejected.
// A rejection reason is mandatory.
func (o *Onboard) RejectApplication(ctx context.Context, id int64, reviewer, reason string) (*model.Application, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "rejection reason is required", nil)
	}
	return o.transitionApplication(ctx, id, model.StatusRejected, reviewer, "", reason)
}

// MarkUnderReview parks a pending application for manual review.
func (o *Onboard) MarkUnderReview(ctx context.Context, id int64, reviewer string) (*model.Application, error) {
	return o.transitionApplication(ctx, id, model.StatusUnderReview, reviewer, "", "")
}

func (o *Onboard) transitionApplication(ctx context.Context, id int64, target model.ApplicationStatus, reviewer, comment, reason string) (*model.Application, error) {
	application, err := o.datasource.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if application.Status == target {
		return nil, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("application is already %s", target), application.Status)
	}
	if application.Status != model.StatusPending && application.Status != model.StatusUnderReview {
		return nil, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("cannot move a %s application to %s", application.Status, target), application.Status)
	}

	now := time.Now()
	application.Status = target
	application.ReviewedBy = reviewer
	application.ReviewedAt = &now
	application.ReviewComment = comment
	application.RejectionReason = reason

	if err := o.datasource.UpdateApplication(ctx, application); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"application_id": application.ID,
		"status":         application.Status,
		"reviewer":       reviewer,
	}).Info("application reviewed")

	o.postApplicationActions(ctx, application)
	return application, nil
}

// RunApplicationChecks executes the scored verification suite against an
// application and persists each outcome. The aggregate classification is the
// worst of the individual ones.
func (o *Onboard) RunApplicationChecks(ctx context.Context, id int64) ([]*verificationOutcome, error) {
	application, err := o.datasource.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	var outcomes []*verificationOutcome
	for _, doc := range application.Documents {
		result, err := o.checks.DocumentCheck(ctx, doc)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o.recordOutcome(ctx, application.ID, "document", result))
	}

	fullName := asString(application.Sections.Get("personalDetails", "fullName"))
	registryName := asString(application.Sections.Get("personalDetails", "registryName"))
	if registryName == "" {
		registryName = fullName
	}
	face, err := o.checks.FaceMatchCheck(ctx, fmt.Sprintf("app_%d", application.ID), fullName, registryName)
	if err != nil {
		return nil, err
	}
	outcomes = append(outcomes, o.recordOutcome(ctx, application.ID, "face", face))

	territory, err := o.checks.TerritoryCheck(ctx, fmt.Sprintf("app_%d", application.ID))
	if err != nil {
		return nil, err
	}
	outcomes = append(outcomes, o.recordOutcome(ctx, application.ID, "territory", territory))

	return outcomes, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// verificationOutcome pairs a check type with its scored result for API
// consumers and the audit trail.
type verificationOutcome struct {
	CheckType string                    `json:"check_type"`
	Result    *verification.CheckResult `json:"result"`
}

func (o *Onboard) recordOutcome(ctx context.Context, applicationID int64, checkType string, result *verification.CheckResult) *verificationOutcome {
	checksJSON, err := json.Marshal(result.Checks)
	if err != nil {
		notification.NotifyError(err)
		checksJSON = nil
	}
	err = o.datasource.RecordCheckResult(ctx, applicationID, checkType, result.Reference, result.Score, string(result.Classification), checksJSON)
	if err != nil {
		notification.NotifyError(err)
	}
	return &verificationOutcome{CheckType: checkType, Result: result}
}

func (o *Onboard) postApplicationActions(_ context.Context, application *model.Application) {
	err := o.SendWebhook(NewWebhook{
		Event:   getEventFromStatus(application.Status),
		Payload: application,
	})
	if err != nil {
		notification.NotifyError(err)
	}
}
