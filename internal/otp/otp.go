// Package otp computes time-based one-time passwords from otpauth:// URIs
// stored in pass entries.
package otp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

// Code is a generated TOTP value and its validity window.
type Code struct {
	Code      string
	Issuer    string
	Account   string
	Period    time.Duration
	Remaining time.Duration
}

// Generate returns the code for uri at time t. The URI's period, digits
// and algorithm are honoured; anything missing falls back to 30s, six
// digits and SHA1.
func Generate(uri string, t time.Time) (Code, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Code{}, kerrors.ErrNoTOTP
	}

	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return Code{}, fmt.Errorf("%w: %v", kerrors.ErrInvalidTOTP, err)
	}
	if key.Type() != "totp" {
		return Code{}, fmt.Errorf("%w: unsupported type %q", kerrors.ErrInvalidTOTP, key.Type())
	}
	if key.Secret() == "" {
		return Code{}, fmt.Errorf("%w: missing secret", kerrors.ErrInvalidTOTP)
	}

	period := uint(key.Period())
	if period == 0 {
		period = 30
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), t, totp.ValidateOpts{
		Period:    period,
		Digits:    key.Digits(),
		Algorithm: key.Algorithm(),
	})
	if err != nil {
		return Code{}, fmt.Errorf("%w: %v", kerrors.ErrInvalidTOTP, err)
	}

	p := time.Duration(period) * time.Second
	elapsed := time.Duration(t.Unix()%int64(period)) * time.Second
	return Code{
		Code:      code,
		Issuer:    key.Issuer(),
		Account:   key.AccountName(),
		Period:    p,
		Remaining: p - elapsed,
	}, nil
}
