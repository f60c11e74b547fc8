package workflows

import (
	"context"
	"time"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/entry"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/metadata"
	"github.com/tobagin/secrets/internal/otp"
)

// ShowOptions configures the show workflow.
type ShowOptions struct {
	Path string
}

// ShowResult contains a decrypted entry.
type ShowResult struct {
	Path    string
	Content string
	Entry   entry.Entry
	Meta    metadata.PasswordMeta
}

// Show decrypts an entry and parses its fields.
//
// Returns ErrInvalidPath for a malformed path (without running pass).
// Returns ErrEntryNotFound if the entry does not exist.
// Returns ErrDecryptFailed if pass could not decrypt it.
func Show(ctx context.Context, a *app.Context, opts ShowOptions) (*ShowResult, error) {
	content, err := a.Store.GetContent(ctx, opts.Path)
	recordOp(a, "show", opts.Path, err)
	if err != nil {
		return nil, err
	}
	refreshDetection(a, opts.Path, content)

	return &ShowResult{
		Path:    opts.Path,
		Content: content,
		Entry:   entry.Parse(content),
		Meta:    a.Metadata.GetPasswordMetadata(opts.Path),
	}, nil
}

// OTPOptions configures the OTP workflow.
type OTPOptions struct {
	Path string

	// At is the time to compute the code for. Zero means now.
	At time.Time
}

// OTPResult contains a generated TOTP code.
type OTPResult struct {
	Path string
	Code otp.Code
}

// OTP generates the current TOTP code of an entry.
//
// Returns ErrNoTOTP if the entry has no otpauth URI.
// Returns ErrInvalidTOTP if the URI cannot be used.
func OTP(ctx context.Context, a *app.Context, opts OTPOptions) (*OTPResult, error) {
	content, err := a.Store.GetContent(ctx, opts.Path)
	if err != nil {
		recordOp(a, "otp", opts.Path, err)
		return nil, err
	}
	refreshDetection(a, opts.Path, content)

	e := entry.Parse(content)
	if !e.HasTOTP() {
		recordOp(a, "otp", opts.Path, kerrors.ErrNoTOTP)
		return nil, kerrors.ErrNoTOTP
	}

	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}
	code, err := otp.Generate(e.TOTP, at)
	recordOp(a, "otp", opts.Path, err)
	if err != nil {
		return nil, err
	}
	return &OTPResult{Path: opts.Path, Code: code}, nil
}
