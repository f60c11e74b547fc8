package gpg

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// pinentryCandidates are tried in order; graphical programs come first
// because the application is normally started from a desktop session.
var pinentryCandidates = []string{
	"pinentry-gnome3",
	"pinentry-gtk-2",
	"pinentry-qt",
	"pinentry-curses",
	"pinentry-tty",
	"pinentry",
}

// Environment is the set of variables every pass and gpg child receives.
type Environment struct {
	GNUPGHome string
	TTY       string
	Pinentry  string
	StoreDir  string
}

// DetectEnvironment derives the environment from the current process.
// tty is the controlling terminal (empty when not attached to one).
func DetectEnvironment(storeDir, tty string, flatpak bool) Environment {
	env := Environment{
		GNUPGHome: os.Getenv("GNUPGHOME"),
		TTY:       os.Getenv("GPG_TTY"),
		StoreDir:  storeDir,
	}

	if env.GNUPGHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			env.GNUPGHome = filepath.Join(home, ".gnupg")
		}
	}
	if env.TTY == "" {
		env.TTY = tty
	}
	env.Pinentry = findPinentry(flatpak)

	return env
}

func findPinentry(flatpak bool) string {
	if flatpak {
		for _, name := range pinentryCandidates {
			candidate := filepath.Join("/app/bin", name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	for _, name := range pinentryCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// Apply returns base with the environment's variables set, replacing any
// existing values. Empty fields leave base untouched.
func (e Environment) Apply(base []string) []string {
	overrides := map[string]string{}
	if e.GNUPGHome != "" {
		overrides["GNUPGHOME"] = e.GNUPGHome
	}
	if e.TTY != "" {
		overrides["GPG_TTY"] = e.TTY
	}
	if e.Pinentry != "" {
		overrides["PINENTRY_PROGRAM"] = e.Pinentry
	}
	if e.StoreDir != "" {
		overrides["PASSWORD_STORE_DIR"] = e.StoreDir
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overrides[key]; replaced {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range []string{"GNUPGHOME", "GPG_TTY", "PINENTRY_PROGRAM", "PASSWORD_STORE_DIR"} {
		if v, ok := overrides[key]; ok {
			out = append(out, key+"="+v)
		}
	}
	return out
}
