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
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/telsim/onboard/model"
)

var (
	mobileRule  = regexp.MustCompile(`^(\+91[-\s]?)?[0]?(91)?[6789]\d{9}$`)
	aadhaarRule = regexp.MustCompile(`^\d{12}$`)
	otpRule     = regexp.MustCompile(`^\d{6}$`)
)

// CreateApplication is the request body for submitting an application
// directly, outside a wizard session.
type CreateApplication struct {
	UserID     string                 `json:"user_id"`
	WizardName string                 `json:"wizard_name"`
	Sections   model.Sections         `json:"sections"`
	Documents  []model.Document       `json:"documents"`
	MetaData   map[string]interface{} `json:"meta_data"`
}

func (a *CreateApplication) ValidateCreateApplication() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.UserID, validation.Required),
		validation.Field(&a.WizardName, validation.Required),
		validation.Field(&a.Sections, validation.Required, validation.By(func(interface{}) error {
			for _, name := range model.RequiredSections {
				if len(a.Sections[name]) == 0 {
					return errors.New("sections must include " + name)
				}
			}
			return nil
		})),
	)
}

// ReviewApplication is the request body for approve/reject/review decisions.
type ReviewApplication struct {
	Reviewer string `json:"reviewer"`
	Comment  string `json:"comment"`
	Reason   string `json:"reason"`
}

func (r *ReviewApplication) ValidateApprove() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reviewer, validation.Required),
	)
}

func (r *ReviewApplication) ValidateReject() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reviewer, validation.Required),
		validation.Field(&r.Reason, validation.Required),
	)
}

// SendOTP is the request body for creating an OTP challenge.
type SendOTP struct {
	Target  string `json:"target"`
	Purpose string `json:"purpose"`
}

func (s *SendOTP) ValidateSendOTP() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Target, validation.Required, validation.Match(mobileRule).Error("target must be a valid Indian mobile number")),
		validation.Field(&s.Purpose, validation.Required, validation.In("mobile", "alternate-mobile", "conversion")),
	)
}

// VerifyOTP is the request body for answering an OTP challenge.
type VerifyOTP struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

func (v *VerifyOTP) ValidateVerifyOTP() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Target, validation.Required),
		validation.Field(&v.Code, validation.Required, validation.Match(otpRule).Error("code must be 6 digits")),
	)
}

// InitiateEKYC is the request body for starting an e-KYC session.
type InitiateEKYC struct {
	AadhaarNumber string `json:"aadhaar_number"`
}

func (i *InitiateEKYC) ValidateInitiateEKYC() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.AadhaarNumber, validation.Required, validation.Match(aadhaarRule).Error("aadhaar_number must be 12 digits")),
	)
}

// VerifyEKYC is the request body for completing an e-KYC session.
type VerifyEKYC struct {
	AadhaarNumber string `json:"aadhaar_number"`
	Code          string `json:"code"`
}

func (v *VerifyEKYC) ValidateVerifyEKYC() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.AadhaarNumber, validation.Required, validation.Match(aadhaarRule).Error("aadhaar_number must be 12 digits")),
		validation.Field(&v.Code, validation.Required, validation.Match(otpRule).Error("code must be 6 digits")),
	)
}

// AuthorizeDocuments is the request body for the document repository consent
// exchange.
type AuthorizeDocuments struct {
	AuthCode string `json:"auth_code"`
}

func (a *AuthorizeDocuments) ValidateAuthorizeDocuments() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AuthCode, validation.Required, validation.Length(6, 0)),
	)
}

// CheckEligibility is the request body for a conversion eligibility query.
type CheckEligibility struct {
	Mobile string `json:"mobile"`
}

func (c *CheckEligibility) ValidateCheckEligibility() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mobile, validation.Required, validation.Match(mobileRule).Error("mobile must be a valid Indian mobile number")),
	)
}
