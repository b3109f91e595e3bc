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

	"github.com/gin-gonic/gin"

	model2 "github.com/telsim/onboard/api/model"
)

// SendOTP creates an OTP challenge for a mobile number.
func (a Api) SendOTP(c *gin.Context) {
	var req model2.SendOTP
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateSendOTP(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.OTP().Send(c.Request.Context(), req.Target, req.Purpose)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// VerifyOTP answers an OTP challenge.
func (a Api) VerifyOTP(c *gin.Context) {
	var req model2.VerifyOTP
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateVerifyOTP(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.onboard.OTP().Verify(c.Request.Context(), req.Target, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"target": req.Target, "verified": true})
}

// InitiateEKYC starts an e-KYC session against the identity registry.
func (a Api) InitiateEKYC(c *gin.Context) {
	var req model2.InitiateEKYC
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateInitiateEKYC(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.Registry().InitiateEKYC(c.Request.Context(), req.AadhaarNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// VerifyEKYC completes an e-KYC session and returns the demographic record.
func (a Api) VerifyEKYC(c *gin.Context) {
	var req model2.VerifyEKYC
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateVerifyEKYC(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.Registry().VerifyEKYCOTP(c.Request.Context(), req.AadhaarNumber, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AuthorizeDocuments exchanges a consent code for issued documents.
func (a Api) AuthorizeDocuments(c *gin.Context) {
	var req model2.AuthorizeDocuments
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateAuthorizeDocuments(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.Authority().AuthorizeAndFetchDocuments(c.Request.Context(), req.AuthCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": resp})
}

// CheckAuthenticity attests a previously fetched repository document.
func (a Api) CheckAuthenticity(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.onboard.Authority().CheckAuthenticity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPlans lists the postpaid plan catalog.
func (a Api) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": a.onboard.Plans().Plans(c.Request.Context())})
}

// GetPlan retrieves one plan by id.
func (a Api) GetPlan(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.onboard.Plans().Plan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckEligibility answers a prepaid-to-postpaid eligibility query.
func (a Api) CheckEligibility(c *gin.Context) {
	var req model2.CheckEligibility
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCheckEligibility(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboard.Plans().CheckEligibility(c.Request.Context(), req.Mobile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
