package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/internal/apierror"
)

func mockVerificationConfig(t *testing.T) {
	t.Helper()
	config.MockConfig(&config.Configuration{})
}

func errorCode(t *testing.T, err error) apierror.ErrorCode {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok, "expected APIError, got %T", err)
	return apiErr.Code
}

func TestOTPSendAndVerify(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"123456"}})
	ctx := context.Background()

	receipt, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", receipt.Target)
	assert.True(t, receipt.ExpiresAt.After(time.Now()))

	err = svc.Verify(ctx, "9876543210", "123456")
	assert.NoError(t, err)

	// consumed: a second verify has nothing to match against
	err = svc.Verify(ctx, "9876543210", "123456")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}

func TestOTPWrongCodeCountsAttempt(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"123456"}})
	ctx := context.Background()

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)

	err = svc.Verify(ctx, "9876543210", "000000")
	assert.Equal(t, apierror.ErrMismatch, errorCode(t, err))

	attempts, ok := svc.Attempts("9876543210")
	require.True(t, ok, "challenge should survive a mismatch below the limit")
	assert.Equal(t, 1, attempts)

	// correct code still succeeds within the attempt budget
	err = svc.Verify(ctx, "9876543210", "123456")
	assert.NoError(t, err)
}

func TestOTPMaxAttemptsInvalidatesChallenge(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"123456"}})
	ctx := context.Background()

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		err = svc.Verify(ctx, "9876543210", "000000")
		assert.Equal(t, apierror.ErrMismatch, errorCode(t, err))
	}

	// third consecutive mismatch hits the limit and burns the challenge
	err = svc.Verify(ctx, "9876543210", "000000")
	assert.Equal(t, apierror.ErrMaxAttemptsExceeded, errorCode(t, err))

	err = svc.Verify(ctx, "9876543210", "123456")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}

func TestOTPExpiryIsLazy(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"123456"}})
	ctx := context.Background()

	now := time.Now()
	svc.SetClock(func() time.Time { return now })

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return now.Add(30 * time.Minute) })

	err = svc.Verify(ctx, "9876543210", "123456")
	assert.Equal(t, apierror.ErrExpired, errorCode(t, err))

	// expiry consumed the challenge; a retry sees nothing
	err = svc.Verify(ctx, "9876543210", "123456")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}

func TestOTPResendReplacesChallenge(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"111111", "222222"}})
	ctx := context.Background()

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)
	err = svc.Verify(ctx, "9876543210", "000000")
	assert.Equal(t, apierror.ErrMismatch, errorCode(t, err))

	// resend resets the code and the attempt counter
	_, err = svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)

	attempts, ok := svc.Attempts("9876543210")
	require.True(t, ok)
	assert.Equal(t, 0, attempts)

	err = svc.Verify(ctx, "9876543210", "111111")
	assert.Equal(t, apierror.ErrMismatch, errorCode(t, err))
	err = svc.Verify(ctx, "9876543210", "222222")
	assert.NoError(t, err)
}

func TestOTPChallengesAreIndependentPerTarget(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"111111", "222222"}})
	ctx := context.Background()

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "9123456789", "mobile")
	require.NoError(t, err)

	assert.NoError(t, svc.Verify(ctx, "9123456789", "222222"))
	assert.NoError(t, svc.Verify(ctx, "9876543210", "111111"))
}

func TestOTPDebugCodeExposure(t *testing.T) {
	config.MockConfig(&config.Configuration{
		OTP: config.OTPConfig{ExposeCode: true},
	})
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"424242"}})

	receipt, err := svc.Send(context.Background(), "9876543210", "mobile")
	require.NoError(t, err)
	assert.Equal(t, "424242", receipt.DebugCode)
}

func TestOTPCancel(t *testing.T) {
	mockVerificationConfig(t)
	svc := NewOTPService(&ScriptedOutcomes{Codes: []string{"123456"}})
	ctx := context.Background()

	_, err := svc.Send(ctx, "9876543210", "mobile")
	require.NoError(t, err)
	svc.Cancel("9876543210")

	err = svc.Verify(ctx, "9876543210", "123456")
	assert.Equal(t, apierror.ErrNotFound, errorCode(t, err))
}
