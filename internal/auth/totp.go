package auth

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPManager issues and checks the one-time codes used for login and
// for the confirmation step on destructive operations.
type TOTPManager struct {
	issuer string
}

func NewTOTPManager(issuer string) *TOTPManager {
	return &TOTPManager{issuer: issuer}
}

// Generate returns a fresh secret and the otpauth:// URL the operator
// scans into an authenticator app.
func (m *TOTPManager) Generate(accountEmail string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: accountEmail,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (m *TOTPManager) Validate(code, secret string) bool {
	return totp.Validate(code, secret)
}
