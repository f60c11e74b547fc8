// Package entry parses the plaintext of a pass entry.
//
// The first line is the password. Later lines of the form "key: value"
// are fields; a few well-known keys are lifted out as the username, URL
// and TOTP URI. Anything else is kept as notes.
package entry

import (
	"strings"
)

// Entry is the parsed form of a decrypted pass entry.
type Entry struct {
	Password string
	Username string
	URL      string
	TOTP     string
	Fields   []Field
	Notes    string
}

// Field is one "key: value" line, in file order.
type Field struct {
	Key   string
	Value string
}

var (
	usernameKeys = map[string]bool{"username": true, "user": true, "login": true, "email": true}
	urlKeys      = map[string]bool{"url": true, "website": true, "site": true}
	totpKeys     = map[string]bool{"totp": true, "otp": true}
)

// Parse splits content into its password, fields and notes.
func Parse(content string) Entry {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	e := Entry{Password: lines[0]}
	var notes []string

	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "otpauth://") {
			if e.TOTP == "" {
				e.TOTP = trimmed
			}
			continue
		}

		key, value, ok := splitField(trimmed)
		if !ok {
			notes = append(notes, line)
			continue
		}

		e.Fields = append(e.Fields, Field{Key: key, Value: value})
		lower := strings.ToLower(key)
		switch {
		case usernameKeys[lower] && e.Username == "":
			e.Username = value
		case urlKeys[lower] && e.URL == "":
			e.URL = value
		case totpKeys[lower] && e.TOTP == "":
			e.TOTP = value
		}
	}

	e.Notes = strings.TrimSpace(strings.Join(notes, "\n"))
	return e
}

// splitField recognises "key: value". The key may not contain spaces so
// that sentences with a colon stay in the notes.
func splitField(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	// A bare URL such as https://example.com is a note, not a field.
	if strings.HasPrefix(value, "//") {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// HasTOTP reports whether the entry carries a TOTP secret.
func (e Entry) HasTOTP() bool {
	return e.TOTP != ""
}

// Field returns the value of the first field named key, case-insensitively.
func (e Entry) Field(key string) (string, bool) {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Key, key) {
			return f.Value, true
		}
	}
	return "", false
}
