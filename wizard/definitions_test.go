package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/telsim/onboard/model"
)

func TestByName(t *testing.T) {
	assert.NotNil(t, ByName(WizardKYC))
	assert.NotNil(t, ByName(WizardConversion))
	assert.Nil(t, ByName("unknown"))
	assert.Len(t, Definitions(), 6)
}

// A complete business KYC form with every required document must validate
// clean, end to end.
func TestKYCWizardValidBusinessSubmission(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()

	state.Update("personalDetails", "customerType", "business")
	state.Update("personalDetails", "fullName", "A")
	state.Update("personalDetails", "mobile", "9876543210")
	state.Update("personalDetails", "email", "a@b.com")
	state.Update("personalDetails", "pan", "ABCDE1234F")
	state.Update("personalDetails", "aadhaar", "123456789012")
	state.Update("personalDetails", "dateOfBirth", "2000-01-01")

	state.Update("businessDetails", "companyName", "X")
	state.Update("businessDetails", "businessType", "llp")
	state.Update("businessDetails", "gstin", "27ABCDE1234F1Z5")
	state.Update("businessDetails", "address", "Y")

	state.Update("telecomUsage", "intendedUse", []string{"Bulk SMS"})
	state.Update("telecomUsage", "trafficType", "promotional")

	state.Update("authorizedSignatory", "name", "B")
	state.Update("authorizedSignatory", "mobile", "9876543211")
	state.Update("authorizedSignatory", "email", "b@c.com")
	state.Update("authorizedSignatory", "designation", "CEO")

	for _, field := range []string{"panCard", "addressProof", "gstCertificate", "companyPan", "complianceForm", "authorizationLetter"} {
		state.AddDocument(model.Document{
			DocumentID: model.GenerateUUIDWithSuffix("doc"),
			Field:      field,
			Name:       field + ".pdf",
			MimeType:   "application/pdf",
		})
	}

	result := state.Validate()
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestKYCWizardIndividualSkipsBusinessRules(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()

	state.Update("personalDetails", "customerType", "individual")
	state.Update("personalDetails", "fullName", "A")
	state.Update("personalDetails", "mobile", "9876543210")
	state.Update("personalDetails", "email", "a@b.com")
	state.Update("personalDetails", "pan", "ABCDE1234F")
	state.Update("personalDetails", "aadhaar", "123456789012")
	state.Update("personalDetails", "dateOfBirth", "2000-01-01")
	state.Update("telecomUsage", "intendedUse", []string{"Voice"})
	state.Update("telecomUsage", "trafficType", "transactional")

	state.AddDocument(model.Document{DocumentID: "doc_1", Field: "panCard"})
	state.AddDocument(model.Document{DocumentID: "doc_2", Field: "addressProof"})

	result := state.Validate()
	assert.True(t, result.IsValid, "business fields and documents are not required for individuals: %v", result.Errors)
}

func TestKYCWizardMissingBusinessDocuments(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()
	state.Update("personalDetails", "customerType", "business")

	result := state.Validate()
	assert.False(t, result.IsValid)
	// Document errors are keyed under documents.*, distinct from section keys
	assert.Contains(t, result.Errors, "documents.gstCertificate")
	assert.Contains(t, result.Errors, "documents.companyPan")
	assert.Contains(t, result.Errors, "documents.complianceForm")
	assert.Contains(t, result.Errors, "documents.authorizationLetter")
	assert.Contains(t, result.Errors, "businessDetails.gstin")
}

func TestEKYCWizardRejectsRepeatedDigitAadhaar(t *testing.T) {
	def := EKYCDefinition()
	state := def.NewState()
	state.Update("ekyc", "consent", true)

	result := state.Update("ekyc", "aadhaar", "111111111111")
	assert.NotNil(t, result, "ekyc validates eagerly")
	assert.Contains(t, result.Errors, "ekyc.aadhaar")

	result = state.Update("ekyc", "aadhaar", "123456789012")
	assert.NotContains(t, result.Errors, "ekyc.aadhaar")
}

func TestSelfKYCWizardAlternateMustDiffer(t *testing.T) {
	def := SelfKYCDefinition()
	state := def.NewState()

	state.Update("selfKyc", "fullName", "A")
	state.Update("selfKyc", "relationship", "father")
	state.Update("selfKyc", "primaryMobile", "9876543210")
	result := state.Update("selfKyc", "alternateMobile", "9876543210")

	assert.NotNil(t, result)
	assert.Equal(t, "Alternate mobile must be different from the primary mobile", result.Errors["selfKyc.alternateMobile"])

	result = state.Update("selfKyc", "alternateMobile", "9876543211")
	assert.True(t, result.IsValid)
}
