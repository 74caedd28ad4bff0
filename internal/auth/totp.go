package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Issuer is shown in authenticator apps next to the account name.
const Issuer = "Portfolio"

// Enrollment is a freshly generated TOTP secret with its QR code.
type Enrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	// QRCode is a base64 encoded 256x256 PNG of URL.
	QRCode string `json:"qrCode"`
}

// NewEnrollment generates a TOTP secret for account.
func NewEnrollment(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	return enrollmentFor(key)
}

func enrollmentFor(key *otp.Key) (*Enrollment, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return &Enrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ValidateCode checks a 6-digit code against secret for the current period.
func ValidateCode(code, secret string) bool {
	return code != "" && totp.Validate(code, secret)
}
