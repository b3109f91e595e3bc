package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/telsim/onboard/model"
)

func testRuleset() *Ruleset {
	return &Ruleset{
		Rules: []Rule{
			{Section: "personalDetails", Field: "fullName", Required: true},
			{Section: "personalDetails", Field: "pan", Required: true, Check: CheckPAN},
			{Section: "personalDetails", Field: "email", Required: true, Check: CheckEmail},
			{Section: "personalDetails", Field: "mobile", Required: true, Check: CheckMobile},
		},
		Documents: []DocumentRule{
			{Field: "panCard"},
		},
	}
}

func TestValidateReportsAllViolationsTogether(t *testing.T) {
	rs := testRuleset()
	sections := model.Sections{
		"personalDetails": {
			"fullName": "",
			"pan":      "bad",
			"email":    "bad",
			"mobile":   "9876543210",
		},
	}

	result := rs.Validate(sections, nil)
	assert.False(t, result.IsValid)

	// No early exit: the PAN and email failures surface simultaneously,
	// alongside the missing name and missing document.
	assert.Contains(t, result.Errors, "personalDetails.pan")
	assert.Contains(t, result.Errors, "personalDetails.email")
	assert.Contains(t, result.Errors, "personalDetails.fullName")
	assert.Contains(t, result.Errors, "documents.panCard")
	assert.Len(t, result.Errors, 4)
}

func TestValidateIsDeterministic(t *testing.T) {
	rs := testRuleset()
	sections := model.Sections{
		"personalDetails": {
			"fullName": "A",
			"pan":      "ABCDE1234F",
			"email":    "not-an-email",
			"mobile":   "9876543210",
		},
	}
	docs := map[string][]model.Document{
		"panCard": {{DocumentID: "doc_1", Field: "panCard", Name: "pan.pdf"}},
	}

	first := rs.Validate(sections, docs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rs.Validate(sections, docs))
	}
	assert.False(t, first.IsValid)
	assert.Equal(t, map[string]string{
		"personalDetails.email": "Invalid email address",
	}, first.Errors)
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	rs := testRuleset()
	sections := model.Sections{
		"personalDetails": {"fullName": "A", "pan": "bad", "email": "a@b.com", "mobile": "9876543210"},
	}
	rs.Validate(sections, nil)
	assert.Equal(t, "bad", sections.Get("personalDetails", "pan"))
	assert.Len(t, sections["personalDetails"], 4)
}

func TestValidateCrossRules(t *testing.T) {
	rs := &Ruleset{
		Rules: []Rule{
			{Section: "selfKyc", Field: "primaryMobile", Required: true, Check: CheckMobile},
			{Section: "selfKyc", Field: "alternateMobile", Required: true},
		},
		Cross: []CrossRule{
			func(sections model.Sections) (string, string) {
				primary, _ := sections.Get("selfKyc", "primaryMobile").(string)
				alternate, _ := sections.Get("selfKyc", "alternateMobile").(string)
				return "selfKyc.alternateMobile", CheckAlternateMobile(primary, alternate)
			},
		},
	}

	sections := model.Sections{
		"selfKyc": {"primaryMobile": "9876543210", "alternateMobile": "9876543210"},
	}
	result := rs.Validate(sections, nil)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Alternate mobile must be different from the primary mobile", result.Errors["selfKyc.alternateMobile"])

	sections["selfKyc"]["alternateMobile"] = "9876543211"
	assert.True(t, rs.Validate(sections, nil).IsValid)
}

func TestValidateOptionalFormatField(t *testing.T) {
	rs := &Ruleset{
		Rules: []Rule{
			{Section: "businessDetails", Field: "cin", Check: CheckCIN},
		},
	}
	sections := model.Sections{"businessDetails": {"cin": ""}}
	assert.True(t, rs.Validate(sections, nil).IsValid, "empty optional CIN passes")

	sections["businessDetails"]["cin"] = "garbage"
	result := rs.Validate(sections, nil)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Invalid CIN format", result.Errors["businessDetails.cin"])
}
