package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultName is the session name used when none is configured.
const DefaultName = "cc"

// DefaultWindow is the name of the single window created in a session.
const DefaultWindow = "shell"

// DefaultSocketName is the socket file name used when none is configured.
const DefaultSocketName = "claude-code.sock"

// ErrInvalidName is returned for session names tmux cannot address.
var ErrInvalidName = errors.New("invalid session name")

// validNameRe rejects dots and colons, which tmux treats as target
// separators, along with anything needing shell quoting.
var validNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateName checks that a session name is addressable as name:0.0.
func ValidateName(name string) error {
	if name == "" || !validNameRe.MatchString(name) {
		return fmt.Errorf("%w %q: must match %s", ErrInvalidName, name, validNameRe.String())
	}
	return nil
}

// uniqueSuffixLength is the number of hex characters appended by UniqueName.
const uniqueSuffixLength = 8

// UniqueName returns base with a random suffix (e.g. "cc-1a2b3c4d").
// Concurrent automations sharing one socket must use distinct names;
// this is the cheapest way to get one without coordination.
func UniqueName(base string) string {
	if base == "" {
		base = DefaultName
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:uniqueSuffixLength]
	return base + "-" + suffix
}
