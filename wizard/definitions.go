package wizard

import (
	"github.com/telsim/onboard/form"
	"github.com/telsim/onboard/model"
)

// The six onboarding wizards, expressed as data over the shared engine. The
// definitions mirror the flows the product exposes: full KYC submission, CAF
// generation, Self-KYC via an alternate number, Aadhaar e-KYC, OTP-based plan
// conversion and standalone document verification.

const (
	WizardKYC             = "kyc"
	WizardCAF             = "caf"
	WizardSelfKYC         = "self-kyc"
	WizardEKYC            = "ekyc"
	WizardConversion      = "conversion"
	WizardDocVerification = "document-verification"
)

func isIndividual(sections model.Sections) bool {
	t, _ := sections.Get("personalDetails", "customerType").(string)
	return t == "individual"
}

func isBusiness(sections model.Sections) bool {
	return !isIndividual(sections)
}

func skipForIndividual(state *form.State) bool {
	return state.String("personalDetails", "customerType") == "individual"
}

// KYCDefinition is the full KYC submission wizard. It validates eagerly and
// navigates strictly; the business-only steps are skipped for individuals.
func KYCDefinition() *Definition {
	return &Definition{
		Name:       WizardKYC,
		Navigation: NavStrict,
		Validation: form.ValidateEager,
		Steps: []Step{
			{ID: "customer-type", Title: "Customer Type", Description: "Individual or business customer"},
			{ID: "personal-details", Title: "Personal Details", Description: "Identity and contact details"},
			{ID: "business-details", Title: "Business Details", Description: "Company registration details", Skip: skipForIndividual},
			{ID: "telecom-usage", Title: "Telecom Usage", Description: "Intended use of the connection"},
			{ID: "authorized-signatory", Title: "Authorized Signatory", Description: "Signatory for the business", Skip: skipForIndividual},
			{ID: "documents", Title: "Documents", Description: "Upload supporting documents"},
			{ID: "review", Title: "Review & Submit", Description: "Confirm and submit the application"},
		},
		Defaults: model.Sections{
			"personalDetails": {
				"customerType": "individual",
				"fullName":     "",
				"mobile":       "",
				"email":        "",
				"pan":          "",
				"aadhaar":      "",
				"dateOfBirth":  "",
			},
			"businessDetails": {
				"companyName":  "",
				"businessType": "",
				"gstin":        "",
				"cin":          "",
				"address":      "",
			},
			"telecomUsage": {
				"intendedUse": []string{},
				"trafficType": "",
			},
			"authorizedSignatory": {
				"name":        "",
				"mobile":      "",
				"email":       "",
				"designation": "",
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "personalDetails", Field: "fullName", Required: true},
				{Section: "personalDetails", Field: "mobile", Required: true, Check: form.CheckMobile},
				{Section: "personalDetails", Field: "email", Required: true, Check: form.CheckEmail},
				{Section: "personalDetails", Field: "pan", Required: true, Check: form.CheckPAN},
				{Section: "personalDetails", Field: "aadhaar", Required: true, Check: form.CheckAadhaar},
				{Section: "personalDetails", Field: "dateOfBirth", Required: true},
				{Section: "businessDetails", Field: "companyName", Required: true, When: isBusiness},
				{Section: "businessDetails", Field: "businessType", Required: true, When: isBusiness},
				{Section: "businessDetails", Field: "gstin", Required: true, Check: form.CheckGSTIN, When: isBusiness},
				{Section: "businessDetails", Field: "cin", Check: form.CheckCIN, When: isBusiness},
				{Section: "businessDetails", Field: "address", Required: true, When: isBusiness},
				{Section: "telecomUsage", Field: "intendedUse", Required: true},
				{Section: "telecomUsage", Field: "trafficType", Required: true},
				{Section: "authorizedSignatory", Field: "name", Required: true, When: isBusiness},
				{Section: "authorizedSignatory", Field: "mobile", Required: true, Check: form.CheckMobile, When: isBusiness},
				{Section: "authorizedSignatory", Field: "email", Required: true, Check: form.CheckEmail, When: isBusiness},
				{Section: "authorizedSignatory", Field: "designation", Required: true, When: isBusiness},
			},
			Documents: []form.DocumentRule{
				{Field: "panCard"},
				{Field: "addressProof"},
				{Field: "gstCertificate", When: isBusiness},
				{Field: "companyPan", When: isBusiness},
				{Field: "complianceForm", When: isBusiness},
				{Field: "authorizationLetter", When: isBusiness},
			},
		},
	}
}

// CAFDefinition generates a Customer Application Form for an approved
// customer. Validation happens only at submit.
func CAFDefinition() *Definition {
	return &Definition{
		Name:       WizardCAF,
		Navigation: NavFreeBackward,
		Validation: form.ValidateOnSubmit,
		Steps: []Step{
			{ID: "service-details", Title: "Service Details", Description: "Requested services and counts"},
			{ID: "plan-selection", Title: "Plan Selection", Description: "Choose a tariff plan"},
			{ID: "declarations", Title: "Declarations", Description: "Regulatory declarations"},
			{ID: "review", Title: "Review & Generate", Description: "Generate the CAF"},
		},
		Defaults: model.Sections{
			"serviceDetails": {
				"serviceType":     "",
				"connectionCount": "",
				"planId":          "",
			},
			"declarations": {
				"informationAccurate": false,
				"agreedToTerms":       false,
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "serviceDetails", Field: "serviceType", Required: true},
				{Section: "serviceDetails", Field: "connectionCount", Required: true},
				{Section: "serviceDetails", Field: "planId", Required: true},
				{Section: "declarations", Field: "informationAccurate", Required: true},
				{Section: "declarations", Field: "agreedToTerms", Required: true},
			},
		},
	}
}

// SelfKYCDefinition verifies a customer through a family member's alternate
// number. The alternate must differ from the primary.
func SelfKYCDefinition() *Definition {
	return &Definition{
		Name:       WizardSelfKYC,
		Navigation: NavStrict,
		Validation: form.ValidateEager,
		Steps: []Step{
			{ID: "personal-info", Title: "Personal Info", Description: "Name and primary number"},
			{ID: "alternate-mobile", Title: "Alternate Mobile", Description: "Family member's number for OTP"},
			{ID: "otp-verification", Title: "OTP Verification", Description: "Verify the alternate number"},
			{ID: "review", Title: "Review", Description: "Confirm verification"},
		},
		Defaults: model.Sections{
			"selfKyc": {
				"fullName":        "",
				"primaryMobile":   "",
				"alternateMobile": "",
				"relationship":    "",
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "selfKyc", Field: "fullName", Required: true},
				{Section: "selfKyc", Field: "primaryMobile", Required: true, Check: form.CheckMobile},
				{Section: "selfKyc", Field: "alternateMobile", Required: true},
				{Section: "selfKyc", Field: "relationship", Required: true},
			},
			Cross: []form.CrossRule{
				func(sections model.Sections) (string, string) {
					primary, _ := sections.Get("selfKyc", "primaryMobile").(string)
					alternate, _ := sections.Get("selfKyc", "alternateMobile").(string)
					if alternate == "" {
						return "selfKyc.alternateMobile", ""
					}
					return "selfKyc.alternateMobile", form.CheckAlternateMobile(primary, alternate)
				},
			},
		},
	}
}

// EKYCDefinition performs Aadhaar OTP authentication against the identity
// registry. The registry-facing Aadhaar check rejects all-same-digit values.
func EKYCDefinition() *Definition {
	return &Definition{
		Name:       WizardEKYC,
		Navigation: NavStrict,
		Validation: form.ValidateEager,
		Steps: []Step{
			{ID: "aadhaar-entry", Title: "Aadhaar Number", Description: "Enter the Aadhaar-linked number"},
			{ID: "otp-verification", Title: "OTP Verification", Description: "OTP sent to the registered mobile"},
			{ID: "demographics", Title: "Demographics", Description: "Fetched demographic record"},
		},
		Defaults: model.Sections{
			"ekyc": {
				"aadhaar": "",
				"consent": false,
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "ekyc", Field: "aadhaar", Required: true, Check: form.CheckAadhaarStrict},
				{Section: "ekyc", Field: "consent", Required: true},
			},
		},
	}
}

// ConversionDefinition converts a prepaid number to a postpaid plan after an
// eligibility check and OTP confirmation.
func ConversionDefinition() *Definition {
	return &Definition{
		Name:       WizardConversion,
		Navigation: NavFreeBackward,
		Validation: form.ValidateOnSubmit,
		Steps: []Step{
			{ID: "mobile-entry", Title: "Mobile Number", Description: "Number to convert"},
			{ID: "eligibility", Title: "Eligibility", Description: "Check conversion eligibility"},
			{ID: "plan-selection", Title: "Plan Selection", Description: "Choose a postpaid plan"},
			{ID: "otp-confirmation", Title: "OTP Confirmation", Description: "Confirm with an OTP"},
		},
		Defaults: model.Sections{
			"conversion": {
				"mobile": "",
				"planId": "",
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "conversion", Field: "mobile", Required: true, Check: form.CheckMobile},
				{Section: "conversion", Field: "planId", Required: true},
			},
		},
	}
}

// DocVerificationDefinition runs standalone authenticity checks over an
// uploaded document.
func DocVerificationDefinition() *Definition {
	return &Definition{
		Name:       WizardDocVerification,
		Navigation: NavFreeBackward,
		Validation: form.ValidateOnSubmit,
		Steps: []Step{
			{ID: "upload", Title: "Upload", Description: "Upload the document"},
			{ID: "authenticity-check", Title: "Authenticity Check", Description: "Issuer, tampering and expiry checks"},
			{ID: "result", Title: "Result", Description: "Verification outcome"},
		},
		Defaults: model.Sections{
			"documentVerification": {
				"documentType": "",
			},
		},
		Ruleset: &form.Ruleset{
			Rules: []form.Rule{
				{Section: "documentVerification", Field: "documentType", Required: true},
			},
			Documents: []form.DocumentRule{
				{Field: "document"},
			},
		},
	}
}

// Definitions returns every built-in wizard.
func Definitions() []*Definition {
	return []*Definition{
		KYCDefinition(),
		CAFDefinition(),
		SelfKYCDefinition(),
		EKYCDefinition(),
		ConversionDefinition(),
		DocVerificationDefinition(),
	}
}

// ByName looks up a built-in wizard definition, or nil.
func ByName(name string) *Definition {
	for _, d := range Definitions() {
		if d.Name == name {
			return d
		}
	}
	return nil
}
