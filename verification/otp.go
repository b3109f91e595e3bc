package verification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

// OTPService owns the live challenge table. At most one challenge exists per
// target; Send overwrites any prior challenge for that target. Expiry is
// checked lazily at verify time — expired challenges linger until a verify
// attempt or a fresh send replaces them; no background sweep runs.
type OTPService struct {
	mu         sync.Mutex
	challenges map[string]*model.Challenge
	outcomes   OutcomePolicy
	now        func() time.Time
}

// SendReceipt is the caller-visible result of sending an OTP. DebugCode is
// only populated when the expose_code config flag is on; a production
// deployment keeps it off.
type SendReceipt struct {
	ChallengeID string    `json:"challenge_id"`
	Target      string    `json:"target"`
	ExpiresAt   time.Time `json:"expires_at"`
	DebugCode   string    `json:"debug_code,omitempty"`
}

func NewOTPService(outcomes OutcomePolicy) *OTPService {
	return &OTPService{
		challenges: make(map[string]*model.Challenge),
		outcomes:   outcomes,
		now:        time.Now,
	}
}

// SetClock overrides the service clock. Tests use this to force expiry.
func (s *OTPService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Send creates a fresh challenge for target, replacing any existing one. The
// TTL is drawn uniformly from the configured window.
func (s *OTPService) Send(_ context.Context, target, purpose string) (*SendReceipt, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ttlSpread := cnf.OTP.TTLMaxMinutes - cnf.OTP.TTLMinMinutes
	ttl := time.Duration(cnf.OTP.TTLMinMinutes) * time.Minute
	if ttlSpread > 0 {
		ttl += time.Duration(s.outcomes.IntN(ttlSpread+1)) * time.Minute
	}

	challenge := &model.Challenge{
		ChallengeID: model.GenerateUUIDWithSuffix("otp"),
		Target:      target,
		Purpose:     purpose,
		Code:        s.outcomes.Digits(6),
		ExpiresAt:   s.now().Add(ttl),
		Attempts:    0,
		CreatedAt:   s.now(),
	}
	s.challenges[target] = challenge

	logrus.WithFields(logrus.Fields{"target": target, "purpose": purpose}).Info("OTP challenge created")

	receipt := &SendReceipt{
		ChallengeID: challenge.ChallengeID,
		Target:      target,
		ExpiresAt:   challenge.ExpiresAt,
	}
	if cnf.OTP.ExposeCode {
		receipt.DebugCode = challenge.Code
	}
	return receipt, nil
}

// Verify checks candidate against the live challenge for target.
//
// Failure modes, in evaluation order: NotFound when no challenge exists;
// Expired when past due (challenge deleted); MaxAttemptsExceeded when a wrong
// code lands the counter on the configured limit (deleted); Mismatch on a wrong
// code (challenge retained, the attempt already counted). A match consumes
// the challenge.
func (s *OTPService) Verify(_ context.Context, target, candidate string) error {
	cnf, err := config.Fetch()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[target]
	if !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "no OTP challenge for target", target)
	}

	if challenge.Expired(s.now()) {
		delete(s.challenges, target)
		return apierror.NewAPIError(apierror.ErrExpired, "OTP challenge expired", target)
	}

	challenge.Attempts++
	if candidate != challenge.Code {
		if challenge.Attempts >= cnf.OTP.MaxAttempts {
			delete(s.challenges, target)
			return apierror.NewAPIError(apierror.ErrMaxAttemptsExceeded, "too many incorrect attempts", target)
		}
		return apierror.NewAPIError(apierror.ErrMismatch, "incorrect OTP", target)
	}

	delete(s.challenges, target)
	return nil
}

// Attempts reports the attempt count on the live challenge for target, with
// false when none exists.
func (s *OTPService) Attempts(target string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[target]
	if !ok {
		return 0, false
	}
	return challenge.Attempts, true
}

// Cancel drops the live challenge for target, if any.
func (s *OTPService) Cancel(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, target)
}
