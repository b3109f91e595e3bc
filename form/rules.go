package form

import (
	"regexp"
	"strings"
)

// Field format checks used across the onboarding wizards. Each returns an
// empty string when the value passes, or a user-facing message when it fails.
// They are pure string predicates so validation stays deterministic.

var (
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	gstinPattern  = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	cinPattern    = regexp.MustCompile(`^[LU]\d{5}[A-Z]{2}\d{4}[A-Z]{3}\d{6}$`)
	aadhaarDigits = regexp.MustCompile(`^\d{12}$`)
	mobilePattern = regexp.MustCompile(`^(\+91[-\s]?)?[0]?(91)?[6789]\d{9}$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpPattern    = regexp.MustCompile(`^\d{6}$`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// CheckFunc validates a single field value, returning "" on success.
type CheckFunc func(value string) string

func CheckPAN(value string) string {
	if !panPattern.MatchString(value) {
		return "Invalid PAN format (e.g. ABCDE1234F)"
	}
	return ""
}

func CheckGSTIN(value string) string {
	if !gstinPattern.MatchString(value) {
		return "Invalid GSTIN format (e.g. 27ABCDE1234F1Z5)"
	}
	return ""
}

// CheckCIN accepts the empty string; CIN is an optional field.
func CheckCIN(value string) string {
	if value == "" {
		return ""
	}
	if !cinPattern.MatchString(value) {
		return "Invalid CIN format"
	}
	return ""
}

// CheckAadhaar requires exactly 12 digits after stripping whitespace.
func CheckAadhaar(value string) string {
	stripped := spacePattern.ReplaceAllString(value, "")
	if !aadhaarDigits.MatchString(stripped) {
		return "Aadhaar must be exactly 12 digits"
	}
	return ""
}

// CheckAadhaarStrict additionally rejects all-same-digit values. This is the
// variant used on the identity-registry facing flows.
func CheckAadhaarStrict(value string) string {
	if msg := CheckAadhaar(value); msg != "" {
		return msg
	}
	stripped := spacePattern.ReplaceAllString(value, "")
	for i := 1; i < len(stripped); i++ {
		if stripped[i] != stripped[0] {
			return ""
		}
	}
	return "Aadhaar number looks invalid"
}

func CheckMobile(value string) string {
	stripped := spacePattern.ReplaceAllString(value, "")
	if !mobilePattern.MatchString(stripped) {
		return "Invalid mobile number"
	}
	return ""
}

func CheckEmail(value string) string {
	if !emailPattern.MatchString(value) {
		return "Invalid email address"
	}
	return ""
}

func CheckOTP(value string) string {
	if !otpPattern.MatchString(value) {
		return "OTP must be exactly 6 digits"
	}
	return ""
}

// CheckAlternateMobile validates the alternate number used in the Self-KYC
// flow. A format-valid number equal to the primary is a distinct failure from
// a format failure.
func CheckAlternateMobile(primary, alternate string) string {
	if msg := CheckMobile(alternate); msg != "" {
		return msg
	}
	if spacePattern.ReplaceAllString(alternate, "") == spacePattern.ReplaceAllString(primary, "") {
		return "Alternate mobile must be different from the primary mobile"
	}
	return ""
}

// required reports whether a value counts as present: non-nil, and for
// strings trimmed non-empty, for slices non-empty.
func required(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case []string:
		return len(v) > 0
	case []interface{}:
		return len(v) > 0
	default:
		return true
	}
}
