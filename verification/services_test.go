package verification

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telsim/onboard/internal/apierror"
)

func TestIdentityRegistryEKYCFlow(t *testing.T) {
	mockVerificationConfig(t)
	otp := NewOTPService(&ScriptedOutcomes{Codes: []string{"654321"}})
	registry := NewIdentityRegistry(otp, &ScriptedOutcomes{})
	ctx := context.Background()

	receipt, err := registry.InitiateEKYC(ctx, "234567890123")
	require.NoError(t, err)
	assert.Equal(t, "aadhaar:234567890123", receipt.Target)

	record, err := registry.VerifyEKYCOTP(ctx, "234567890123", "654321")
	require.NoError(t, err)
	assert.NotEmpty(t, record.Name)
	assert.Equal(t, "XXXX-XXXX-0123", record.MaskedID)

	// same number always resolves to the same demographic record
	_, err = registry.InitiateEKYC(ctx, "234567890123")
	require.NoError(t, err)
	again, err := registry.VerifyEKYCOTP(ctx, "234567890123", "654321")
	require.NoError(t, err)
	assert.Equal(t, record, again)
}

func TestIdentityRegistryRejectsMalformedNumber(t *testing.T) {
	mockVerificationConfig(t)
	registry := NewIdentityRegistry(NewOTPService(&ScriptedOutcomes{}), &ScriptedOutcomes{})

	_, err := registry.InitiateEKYC(context.Background(), "12345")
	assert.Equal(t, apierror.ErrInvalidInput, errorCode(t, err))
}

func TestIdentityRegistryWrongOTP(t *testing.T) {
	mockVerificationConfig(t)
	otp := NewOTPService(&ScriptedOutcomes{Codes: []string{"654321"}})
	registry := NewIdentityRegistry(otp, &ScriptedOutcomes{})
	ctx := context.Background()

	_, err := registry.InitiateEKYC(ctx, "234567890123")
	require.NoError(t, err)

	_, err = registry.VerifyEKYCOTP(ctx, "234567890123", "000000")
	assert.Equal(t, apierror.ErrMismatch, errorCode(t, err))
}

func TestIdentityRegistryTargetsDoNotCollideWithMobileOTP(t *testing.T) {
	mockVerificationConfig(t)
	otp := NewOTPService(&ScriptedOutcomes{Codes: []string{"111111", "222222"}})
	registry := NewIdentityRegistry(otp, &ScriptedOutcomes{})
	ctx := context.Background()

	// a plain mobile challenge and an e-KYC session for the same digits
	// live side by side
	_, err := otp.Send(ctx, "234567890123", "mobile")
	require.NoError(t, err)
	_, err = registry.InitiateEKYC(ctx, "234567890123")
	require.NoError(t, err)

	assert.NoError(t, otp.Verify(ctx, "234567890123", "111111"))
	_, err = registry.VerifyEKYCOTP(ctx, "234567890123", "222222")
	assert.NoError(t, err)
}

func TestDocumentAuthorityFetchAndAttest(t *testing.T) {
	mockVerificationConfig(t)
	authority := NewDocumentAuthority(NewCheckRunner(&ScriptedOutcomes{}))
	ctx := context.Background()

	docs, err := authority.AuthorizeAndFetchDocuments(ctx, "consent-code-001")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	fields := make([]string, 0, len(docs))
	for _, d := range docs {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "aadhaarCard")
	assert.Contains(t, fields, "panCard")

	report, err := authority.CheckAuthenticity(ctx, docs[0].DocumentID)
	require.NoError(t, err)
	assert.True(t, report.Authentic)
	assert.True(t, report.IssuerVerified)
	assert.False(t, report.Tampering)
}

func TestDocumentAuthorityRejectsBadCode(t *testing.T) {
	mockVerificationConfig(t)
	authority := NewDocumentAuthority(NewCheckRunner(&ScriptedOutcomes{}))
	ctx := context.Background()

	_, err := authority.AuthorizeAndFetchDocuments(ctx, "  ")
	assert.Equal(t, apierror.ErrInvalidInput, errorCode(t, err))

	_, err = authority.AuthorizeAndFetchDocuments(ctx, "abc")
	assert.Equal(t, apierror.ErrInvalidInput, errorCode(t, err))
}

func TestDocumentAuthorityConcurrentFetches(t *testing.T) {
	mockVerificationConfig(t)
	authority := NewDocumentAuthority(NewCheckRunner(&ScriptedOutcomes{}))
	ctx := context.Background()

	// handlers call the authority concurrently; every fetch must land in
	// the repository without corrupting it
	const fetchers = 50
	results := make(chan []string, fetchers)
	var wg sync.WaitGroup
	for i := 0; i < fetchers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, err := authority.AuthorizeAndFetchDocuments(ctx, "consent-code-001")
			if err != nil {
				results <- nil
				return
			}
			ids := make([]string, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.DocumentID)
			}
			results <- ids
		}()
	}
	wg.Wait()
	close(results)

	for ids := range results {
		require.Len(t, ids, 3)
		for _, id := range ids {
			_, err := authority.CheckAuthenticity(ctx, id)
			require.NoError(t, err)
		}
	}
}

func TestDocumentAuthorityUnknownDocument(t *testing.T) {
	mockVerificationConfig(t)
	authority := NewDocumentAuthority(NewCheckRunner(&ScriptedOutcomes{}))

	_, err := authority.CheckAuthenticity(context.Background(), "doc_missing")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}

func TestPlanCatalog(t *testing.T) {
	mockVerificationConfig(t)
	catalog := NewPlanCatalog(&ScriptedOutcomes{})
	ctx := context.Background()

	plans := catalog.Plans(ctx)
	require.Len(t, plans, 3)
	assert.Equal(t, "399", plans[0].MonthlyPrice.String())

	plan, err := catalog.Plan(ctx, "plan_postpaid_599")
	require.NoError(t, err)
	assert.Equal(t, "Postpaid 599", plan.Name)

	_, err = catalog.Plan(ctx, "plan_missing")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}

func TestPlanEligibility(t *testing.T) {
	mockVerificationConfig(t)
	ctx := context.Background()

	eligible := NewPlanCatalog(&ScriptedOutcomes{Draws: []bool{true}})
	result, err := eligible.CheckEligibility(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, result.Eligible)

	ineligible := NewPlanCatalog(&ScriptedOutcomes{Draws: []bool{false}})
	result, err = ineligible.CheckEligibility(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.NotEmpty(t, result.Reason)

	_, err = eligible.CheckEligibility(ctx, "")
	assert.Equal(t, apierror.ErrInvalidInput, errorCode(t, err))
}
