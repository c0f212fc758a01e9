package tokenpkg

import (
	"time"

	"github.com/aead/chacha20poly1305"
	"github.com/o1egl/paseto"
)

// VerificationMaker issues short lived email verification tokens.
//
// Verification links travel by email, so the opaque paseto encoding is
// preferred over JWT here.
type VerificationMaker struct {
	paseto       *paseto.V2
	symmetricKey []byte
}

// NewVerificationMaker returns a VerificationMaker with the given symmetric key.
func NewVerificationMaker(symmetricKey string) (*VerificationMaker, error) {
	if len(symmetricKey) != chacha20poly1305.KeySize {
		return nil, ErrInvalidToken
	}

	maker := &VerificationMaker{
		paseto:       paseto.NewV2(),
		symmetricKey: []byte(symmetricKey),
	}

	return maker, nil
}

// CreateToken creates a verification token for the given username.
func (m *VerificationMaker) CreateToken(username, role string, duration time.Duration) (string, *Payload, error) {
	payload, err := NewPayload(username, role, duration)
	if err != nil {
		return "", payload, err
	}

	token, err := m.paseto.Encrypt(m.symmetricKey, payload, nil)

	return token, payload, err
}

// VerifyToken checks if the verification token is valid or not.
func (m *VerificationMaker) VerifyToken(token string) (*Payload, error) {
	payload := &Payload{}

	err := m.paseto.Decrypt(token, m.symmetricKey, payload, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	err = payload.Valid()
	if err != nil {
		return nil, err
	}

	return payload, nil
}
