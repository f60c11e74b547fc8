package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/gpg"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// No options currently, but provides extensibility.
}

// lookPath reports whether a program is on PATH.
var lookPath = gpg.Available

// Doctor runs health checks on the password store setup.
//
// The doctor workflow checks:
//   - pass and gpg are installed
//   - The store is initialized
//   - Every .gpg-id recipient has a usable public key
//   - A usable secret key is available for decryption
//   - Store directory permissions
//   - The config file parses
//   - Git is set up for syncing
func Doctor(ctx context.Context, a *app.Context, opts DoctorOptions) (*DoctorResult, error) {
	checks := []func(context.Context, *app.Context) CheckResult{
		checkPassInstalled,
		checkGPGInstalled,
		checkStoreInitialized,
		checkRecipientKeys,
		checkSecretKey,
		checkStorePermissions,
		checkConfig,
		checkGit,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check(ctx, a))
	}

	summary := calculateDoctorSummary(results)

	// Collect suggestions (deduplicated).
	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

func checkPassInstalled(ctx context.Context, a *app.Context) CheckResult {
	if !lookPath("pass") {
		return CheckResult{
			Name:       "pass",
			Status:     CheckError,
			Message:    "pass is not installed",
			Suggestion: "Install pass from your distribution's package manager",
		}
	}
	return CheckResult{Name: "pass", Status: CheckPass, Message: "pass is installed"}
}

func checkGPGInstalled(ctx context.Context, a *app.Context) CheckResult {
	version, err := a.GPG.Version(ctx)
	if err != nil {
		return CheckResult{
			Name:       "GnuPG",
			Status:     CheckError,
			Message:    fmt.Sprintf("gpg is not usable: %v", err),
			Suggestion: "Install GnuPG 2.x",
		}
	}
	return CheckResult{Name: "GnuPG", Status: CheckPass, Message: version}
}

func checkStoreInitialized(ctx context.Context, a *app.Context) CheckResult {
	if !a.Store.IsInitialized() {
		return CheckResult{
			Name:       "Password store",
			Status:     CheckError,
			Message:    fmt.Sprintf("No password store at %s", a.Store.Dir()),
			Suggestion: "Run 'secrets init' to create a password store",
		}
	}

	passwords, err := a.Store.ListPasswords()
	if err != nil {
		return CheckResult{
			Name:    "Password store",
			Status:  CheckError,
			Message: fmt.Sprintf("Failed to read store: %v", err),
		}
	}
	return CheckResult{
		Name:    "Password store",
		Status:  CheckPass,
		Message: fmt.Sprintf("%d passwords in %s", len(passwords), a.Store.Dir()),
	}
}

func checkRecipientKeys(ctx context.Context, a *app.Context) CheckResult {
	ids, err := a.Store.GPGIDs()
	if err != nil {
		return CheckResult{
			Name:    "Recipient keys",
			Status:  CheckWarning,
			Message: "Skipped: store is not initialized",
		}
	}

	keys, err := a.GPG.ListKeys(ctx)
	if err != nil {
		return CheckResult{
			Name:    "Recipient keys",
			Status:  CheckError,
			Message: fmt.Sprintf("Failed to list keys: %v", err),
		}
	}

	var missing, unusable []string
	for _, id := range ids {
		key, ok := findKey(keys, id)
		switch {
		case !ok:
			missing = append(missing, id)
		case !key.Usable():
			unusable = append(unusable, id)
		}
	}

	switch {
	case len(missing) > 0:
		return CheckResult{
			Name:       "Recipient keys",
			Status:     CheckError,
			Message:    fmt.Sprintf("No public key for %s", strings.Join(missing, ", ")),
			Suggestion: "Import the missing keys with 'gpg --import'",
		}
	case len(unusable) > 0:
		return CheckResult{
			Name:       "Recipient keys",
			Status:     CheckError,
			Message:    fmt.Sprintf("Expired or revoked key for %s", strings.Join(unusable, ", ")),
			Suggestion: "Renew the key or re-initialize the store with 'secrets init <key>'",
		}
	}
	return CheckResult{
		Name:    "Recipient keys",
		Status:  CheckPass,
		Message: fmt.Sprintf("%d recipient key(s) available", len(ids)),
	}
}

func checkSecretKey(ctx context.Context, a *app.Context) CheckResult {
	keys, err := a.GPG.ListSecretKeys(ctx)
	if err != nil {
		return CheckResult{
			Name:    "Secret key",
			Status:  CheckError,
			Message: fmt.Sprintf("Failed to list secret keys: %v", err),
		}
	}
	for _, k := range keys {
		if k.Usable() {
			return CheckResult{Name: "Secret key", Status: CheckPass, Message: "Secret key " + k.KeyID + " available"}
		}
	}
	return CheckResult{
		Name:       "Secret key",
		Status:     CheckError,
		Message:    "No usable secret key found",
		Suggestion: "Create a key with 'gpg --full-generate-key'",
	}
}

func checkStorePermissions(ctx context.Context, a *app.Context) CheckResult {
	info, err := os.Stat(a.Store.Dir())
	if err != nil {
		return CheckResult{
			Name:    "Store permissions",
			Status:  CheckWarning,
			Message: "Skipped: store directory does not exist",
		}
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return CheckResult{
			Name:       "Store permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Store directory is accessible by other users (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 700 %s'", a.Store.Dir()),
		}
	}
	return CheckResult{Name: "Store permissions", Status: CheckPass, Message: "Store directory is private"}
}

func checkConfig(ctx context.Context, a *app.Context) CheckResult {
	if a.ConfigErr != nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Using defaults: %v", a.ConfigErr),
			Suggestion: fmt.Sprintf("Fix or remove %s", a.Settings.ConfigPath),
		}
	}
	return CheckResult{Name: "Configuration", Status: CheckPass, Message: "Configuration valid"}
}

func checkGit(ctx context.Context, a *app.Context) CheckResult {
	if !a.Store.HasGit() {
		return CheckResult{
			Name:       "Git",
			Status:     CheckWarning,
			Message:    "Store is not a git repository; changes are not versioned",
			Suggestion: "Run 'pass git init' to track changes",
		}
	}
	return CheckResult{Name: "Git", Status: CheckPass, Message: "Store is a git repository"}
}

// findKey matches a .gpg-id line against key IDs, fingerprints and user
// IDs the way gpg resolves recipients.
func findKey(keys []gpg.Key, id string) (gpg.Key, bool) {
	want := strings.ToUpper(strings.TrimPrefix(id, "0x"))
	for _, k := range keys {
		if strings.EqualFold(k.KeyID, want) || strings.EqualFold(k.Fingerprint, want) ||
			(len(want) >= 8 && strings.HasSuffix(strings.ToUpper(k.Fingerprint), want)) {
			return k, true
		}
		for _, uid := range k.UIDs {
			if strings.Contains(strings.ToLower(uid), strings.ToLower(id)) {
				return k, true
			}
		}
	}
	return gpg.Key{}, false
}

// calculateDoctorSummary counts the checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
