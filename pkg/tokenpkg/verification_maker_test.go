package tokenpkg

import (
	"testing"
	"time"

	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestVerificationMaker(t *testing.T) {
	t.Parallel()

	symmetricKey := randompkg.String(32)

	maker, err := NewVerificationMaker(symmetricKey)
	if err != nil {
		t.Fatalf("NewVerificationMaker(%v) returned error: %v", symmetricKey, err)
	}

	username := randompkg.Owner()
	duration := time.Minute

	token, payload, err := maker.CreateToken(username, RoleUser, duration)
	if err != nil {
		t.Errorf("maker.CreateToken(%v, %v, %v) returned error: %v", username, RoleUser, duration, err)
	}

	got, err := maker.VerifyToken(token)
	if err != nil {
		t.Errorf("maker.VerifyToken(%v) returned error: %v", token, err)
	}

	ignore := cmpopts.IgnoreFields(Payload{}, "ID")
	delta := cmpopts.EquateApproxTime(time.Minute)

	if diff := cmp.Diff(got, payload, ignore, delta); diff != "" {
		t.Errorf("maker.VerifyToken(%v) returned unexpected diff: %v", token, diff)
	}
}

func TestVerificationMakerShortKey(t *testing.T) {
	t.Parallel()

	maker, err := NewVerificationMaker(randompkg.String(16))
	if err != ErrInvalidToken {
		t.Errorf("NewVerificationMaker() error = %v, want %v", err, ErrInvalidToken)
	}

	if maker != nil {
		t.Errorf("maker = %+v, want nil", maker)
	}
}

func TestExpiredVerificationToken(t *testing.T) {
	t.Parallel()

	maker, err := NewVerificationMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewVerificationMaker() returned error: %v", err)
	}

	username := randompkg.Owner()

	token, _, err := maker.CreateToken(username, RoleUser, -time.Minute)
	if err != nil {
		t.Errorf("maker.CreateToken(%v, %v, %v) returned error: %v", username, RoleUser, -time.Minute, err)
	}

	payload, err := maker.VerifyToken(token)
	if err != ErrExpiredToken {
		t.Errorf("maker.VerifyToken(%v) error = %v, want %v", token, err, ErrExpiredToken)
	}

	if payload != nil {
		t.Errorf("payload = %+v, want nil", payload)
	}
}
