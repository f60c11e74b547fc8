package gpg

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	versionTimeout   = 5 * time.Second
	listKeysTimeout  = 10 * time.Second
	warmAgentTimeout = 30 * time.Second
)

// Key is one entry of a gpg key listing.
type Key struct {
	KeyID       string
	Fingerprint string
	UIDs        []string
	Secret      bool
	Expired     bool
	Revoked     bool
}

// Usable reports whether the key can still be used for encryption.
func (k Key) Usable() bool {
	return !k.Expired && !k.Revoked
}

type Client struct {
	runner Runner
	binary string
}

func NewClient(runner Runner) *Client {
	return &Client{runner: runner, binary: "gpg"}
}

// Version returns the first line of gpg --version, e.g. "gpg (GnuPG) 2.4.4".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, Command{
		Name:    c.binary,
		Args:    []string{"--version"},
		Timeout: versionTimeout,
	})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out.Stdout), "\n")
	return strings.TrimSpace(line), nil
}

func (c *Client) ListSecretKeys(ctx context.Context) ([]Key, error) {
	return c.listKeys(ctx, "--list-secret-keys", true)
}

func (c *Client) ListKeys(ctx context.Context) ([]Key, error) {
	return c.listKeys(ctx, "--list-keys", false)
}

func (c *Client) listKeys(ctx context.Context, flag string, secret bool) ([]Key, error) {
	out, err := c.runner.Run(ctx, Command{
		Name:    c.binary,
		Args:    []string{"--batch", "--with-colons", flag},
		Timeout: listKeysTimeout,
	})
	if err != nil {
		return nil, err
	}
	return ParseColonKeys(out.Stdout, secret), nil
}

// WarmAgent performs a single clearsign of a fixed string. The signature is
// discarded; the point is that gpg-agent prompts (at most once) and caches
// the unlocked key. keyID may be empty to use gpg's default key.
func (c *Client) WarmAgent(ctx context.Context, keyID string) error {
	args := []string{"--yes", "--clearsign"}
	if keyID != "" {
		args = append(args, "--local-user", keyID)
	}
	_, err := c.runner.Run(ctx, Command{
		Name:    c.binary,
		Args:    args,
		Stdin:   []byte("secrets agent warm-up\n"),
		Timeout: warmAgentTimeout,
	})
	if err != nil {
		return fmt.Errorf("warming gpg-agent: %w", err)
	}
	return nil
}

// ParseColonKeys parses `gpg --with-colons` key listing output.
func ParseColonKeys(out []byte, secret bool) []Key {
	var keys []Key
	var current *Key
	expectFingerprint := false

	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), ":")
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "pub", "sec":
			keys = append(keys, Key{Secret: secret})
			current = &keys[len(keys)-1]
			if len(fields) > 4 {
				current.KeyID = fields[4]
			}
			switch fields[1] {
			case "e":
				current.Expired = true
			case "r":
				current.Revoked = true
			}
			expectFingerprint = true
		case "fpr":
			if current != nil && expectFingerprint && len(fields) > 9 {
				current.Fingerprint = fields[9]
			}
			expectFingerprint = false
		case "uid":
			if current != nil && len(fields) > 9 && fields[9] != "" {
				current.UIDs = append(current.UIDs, unescapeColon(fields[9]))
			}
		case "sub", "ssb":
			// Subkey fingerprints follow; they must not replace the primary's.
			expectFingerprint = false
		}
	}

	return keys
}

// unescapeColon decodes the \xHH escapes gpg uses inside colon fields.
func unescapeColon(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			var v byte
			if _, err := fmt.Sscanf(s[i+2:i+4], "%02x", &v); err == nil {
				b.WriteByte(v)
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
