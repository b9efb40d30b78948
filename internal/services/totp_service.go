package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"spareparts-backend/internal/models"
	"spareparts-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "SparePartsShop"

var (
	ErrNoTOTPSecret    = errors.New("2FA is not set up for this account")
	ErrInvalidTOTPCode = errors.New("invalid 2FA code")
)

// TOTPService guards destructive admin operations (the bill counter reset)
// behind a time-based one-time code once the admin has enrolled.
type TOTPService struct {
	userRepo *repositories.UserRepository
}

func NewTOTPService(userRepo *repositories.UserRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo}
}

// TOTPSetupResponse carries the enrollment secret and a QR code for the
// authenticator app.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// GenerateSetup creates a new TOTP secret and QR code for a user.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// RequireCode validates a TOTP code for the user if (and only if) they have
// enrolled. Users without a secret pass; enrollment is opt-in.
func (s *TOTPService) RequireCode(ctx context.Context, userID int, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return nil
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}
