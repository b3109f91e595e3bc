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
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	model2 "github.com/telsim/onboard/api/model"
	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

func (a Api) applicationID(c *gin.Context) (int64, bool) {
	raw, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}

// CreateApplication submits a new application outside a wizard session.
func (a Api) CreateApplication(c *gin.Context) {
	var req model2.CreateApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCreateApplication(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.CreateApplication(c.Request.Context(), &model.Application{
		UserID:     req.UserID,
		WizardName: req.WizardName,
		Sections:   req.Sections,
		Documents:  req.Documents,
		MetaData:   req.MetaData,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetApplication retrieves an application by id.
func (a Api) GetApplication(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	resp, err := a.onboard.GetApplication(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllApplications lists applications with paging and status filtering.
func (a Api) GetAllApplications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative number"})
		return
	}
	status := model.ApplicationStatus(c.Query("status"))

	resp, err := a.onboard.GetAllApplications(c.Request.Context(), limit, offset, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetApplicationsByUser lists one user's applications.
func (a Api) GetApplicationsByUser(c *gin.Context) {
	userID, passed := c.Params.Get("user_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required. pass user_id in the route /:user_id"})
		return
	}

	resp, err := a.onboard.GetApplicationsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ApproveApplication approves a pending or under-review application.
func (a Api) ApproveApplication(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	var req model2.ReviewApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateApprove(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.ApproveApplication(c.Request.Context(), id, req.Reviewer, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RejectApplication rejects a pending or under-review application.
func (a Api) RejectApplication(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	var req model2.ReviewApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateReject(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.RejectApplication(c.Request.Context(), id, req.Reviewer, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkUnderReview parks an application for manual review.
func (a Api) MarkUnderReview(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	var req model2.ReviewApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateApprove(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.MarkUnderReview(c.Request.Context(), id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RunApplicationChecks executes the verification suite for an application.
func (a Api) RunApplicationChecks(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	resp, err := a.onboard.RunApplicationChecks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application_id": id, "outcomes": resp})
}

// GenerateCAF triggers customer application form generation.
func (a Api) GenerateCAF(c *gin.Context) {
	id, ok := a.applicationID(c)
	if !ok {
		return
	}

	if err := a.onboard.GenerateCAF(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"application_id": id, "status": "caf generation started"})
}
